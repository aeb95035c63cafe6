package testutil

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/vastramitra/vastramitra-api/config"
	"github.com/vastramitra/vastramitra-api/middleware"
	jose "gopkg.in/go-jose/go-jose.v2"
	"gopkg.in/go-jose/go-jose.v2/jwt"
)

// Headers read by MockAuth
const (
	TestUserHeader = "X-Test-User"
	TestRoleHeader = "X-Test-Role"
)

// MockValidatedClaims creates the claims the JWT middleware would produce for subject
func MockValidatedClaims(subject, role string, scopes ...string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  "https://test.auth0.com/",
			Subject: subject,
		},
		CustomClaims: &middleware.CustomClaims{
			Scope: strings.Join(scopes, " "),
			Role:  role,
		},
	}
}

// MockAuth stands in for EnsureValidToken. The X-Test-User header names the authenticated
// subject and X-Test-Role its role claim; requests without a subject are rejected.
func MockAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := c.GetHeader(TestUserHeader)
		if subject == "" {
			c.AbortWithStatusJSON(401, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_TOKEN",
					"message": "Failed to validate JWT.",
				},
			})
			return
		}

		c.Set("user_id", subject)
		c.Set("access_token", "token-"+subject)
		c.Set("validated_claims", MockValidatedClaims(subject, c.GetHeader(TestRoleHeader)))
		c.Next()
	}
}

// TokenSecret is the HS256 key accepted by TokenAuth
var TokenSecret = []byte("vastramitra-test-signing-secret")

// TokenAuth is EnsureValidToken with the Auth0 key set replaced by TokenSecret, so the real
// validator and token extraction run against tokens minted by SignToken.
func TokenAuth(t *testing.T, cfg *config.Config) gin.HandlerFunc {
	t.Helper()

	tokenValidator, err := middleware.NewTokenValidator(cfg, func(context.Context) (interface{}, error) {
		return TokenSecret, nil
	}, validator.HS256)
	if err != nil {
		t.Fatalf("Failed to set up the token validator: %v", err)
	}
	return middleware.TokenMiddleware(tokenValidator.ValidateToken)
}

// TokenOptions adjusts a minted token
type TokenOptions struct {
	Role     string
	Audience string
	Expiry   time.Time
	Secret   []byte
}

// SignToken mints an access token for subject issued by cfg's Auth0 tenant
func SignToken(t *testing.T, cfg *config.Config, subject string, opts TokenOptions) string {
	t.Helper()

	if opts.Audience == "" {
		opts.Audience = cfg.Auth0Audience
	}
	if opts.Expiry.IsZero() {
		opts.Expiry = time.Now().Add(time.Hour)
	}
	if opts.Secret == nil {
		opts.Secret = TokenSecret
	}

	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: opts.Secret},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		t.Fatalf("Failed to create token signer: %v", err)
	}

	registered := jwt.Claims{
		Issuer:   "https://" + cfg.Auth0Domain + "/",
		Subject:  subject,
		Audience: jwt.Audience{opts.Audience},
		IssuedAt: jwt.NewNumericDate(time.Now()),
		Expiry:   jwt.NewNumericDate(opts.Expiry),
	}
	custom := middleware.CustomClaims{Scope: "openid profile", Role: opts.Role}

	token, err := jwt.Signed(signer).Claims(registered).Claims(custom).CompactSerialize()
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return token
}
