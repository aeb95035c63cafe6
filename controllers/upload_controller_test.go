package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vastramitra/vastramitra-api/config"
	"github.com/vastramitra/vastramitra-api/models"
	"github.com/vastramitra/vastramitra-api/services"
)

// multipartRequest builds a multipart form request with an optional image part
func multipartRequest(t *testing.T, path string, fields map[string]string, filename string, content []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if filename != "" {
		part, err := writer.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func setupUploadDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	previous := config.GetConfig()
	config.SetConfig(&config.Config{UploadDir: dir})
	t.Cleanup(func() { config.SetConfig(previous) })
	return dir
}

func TestGetUploadedImage(t *testing.T) {
	dir := setupUploadDir(t)

	content := []byte("fake PNG content")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "styles"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "styles", "ref.png"), content, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("text"), 0644))

	router := setupTestRouter()
	router.GET("/uploads/*filepath", GetUploadedImage)

	tests := []struct {
		name         string
		path         string
		expectedCode int
		errorCode    string
	}{
		{"nested image", "/uploads/styles/ref.png", http.StatusOK, ""},
		{"missing image", "/uploads/styles/missing.png", http.StatusNotFound, "FILE_NOT_FOUND"},
		{"empty path", "/uploads/", http.StatusBadRequest, "INVALID_REQUEST"},
		{"traversal", "/uploads/styles/..%2F..%2Fsecret.png", http.StatusBadRequest, "INVALID_FILENAME"},
		{"not an image", "/uploads/notes.txt", http.StatusBadRequest, "INVALID_FILE_TYPE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.expectedCode, w.Code, "Response body: %s", w.Body.String())
			if tt.errorCode != "" {
				assert.Equal(t, tt.errorCode, errorCode(decodeEnvelope(t, w)))
				return
			}
			assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
			assert.Equal(t, "public, max-age=86400", w.Header().Get("Cache-Control"))
			assert.Equal(t, content, w.Body.Bytes())
		})
	}
}

func TestUploadStyleImage(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "auth0|priya", "priya", models.RoleCustomer)

	images := services.NewMockImageService()
	images.SetAsMockForTesting()
	t.Cleanup(func() { services.SetImageService(nil) })

	router := setupTestRouter()
	router.POST("/uploads/style-images", asUser("auth0|priya"), UploadStyleImage)
	router.POST("/anonymous/style-images", asUser("auth0|nobody"), UploadStyleImage)

	t.Run("stores the image", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, multipartRequest(t, "/uploads/style-images", nil, "blouse.jpg", []byte("jpeg-bytes")))

		require.Equal(t, http.StatusCreated, w.Code, "Response body: %s", w.Body.String())
		data := decodeEnvelope(t, w)["data"].(map[string]interface{})
		assert.Equal(t, "styles/mock_blouse.jpg", data["style_image_ref"])
		assert.Contains(t, data["url"], "styles/mock_blouse.jpg")
		assert.True(t, images.ImageExists("styles/mock_blouse.jpg"))
	})

	t.Run("rejects unsupported formats", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, multipartRequest(t, "/uploads/style-images", nil, "blouse.gif", []byte("gif")))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_FILE_FORMAT", errorCode(decodeEnvelope(t, w)))
	})

	t.Run("requires an image part", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, multipartRequest(t, "/uploads/style-images", map[string]string{"note": "x"}, "", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "MISSING_IMAGE", errorCode(decodeEnvelope(t, w)))
	})

	t.Run("requires a profile", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, multipartRequest(t, "/anonymous/style-images", nil, "blouse.png", []byte("png")))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "USER_NOT_FOUND", errorCode(decodeEnvelope(t, w)))
	})
}
