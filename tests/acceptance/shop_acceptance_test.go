package acceptance

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/vastramitra/vastramitra-api/config"
	"github.com/vastramitra/vastramitra-api/controllers"
	"github.com/vastramitra/vastramitra-api/models"
	"github.com/vastramitra/vastramitra-api/services"
	"github.com/vastramitra/vastramitra-api/tests/testutil"
	"gorm.io/gorm"
)

// ShopAcceptanceTestSuite runs a customer's order through a live server, from the price list
// to the invoice
type ShopAcceptanceTestSuite struct {
	suite.Suite
	server *httptest.Server
	db     *gorm.DB
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (suite *ShopAcceptanceTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	t := suite.T()

	cfg := testutil.LoadTestConfig(t, map[string]string{"UPLOAD_DIR": t.TempDir()})
	suite.db = testutil.NewTestDB(t)
	config.SetConfig(cfg)
	services.InitNotifier(suite.db, "", nil)
	services.InitLocalImageService(cfg.UploadDir)

	testutil.CreateUser(t, suite.db, "auth0|tailor", "Master Tailor", models.RoleTailor)
	testutil.CreateUser(t, suite.db, "auth0|meera", "Meera Iyer", models.RoleCustomer)

	suite.server = httptest.NewServer(suite.createRouter())
}

func (suite *ShopAcceptanceTestSuite) TearDownSuite() {
	suite.server.Close()
	services.SetImageService(nil)
	services.SetNotifier(nil)
	config.SetDB(nil)
}

func (suite *ShopAcceptanceTestSuite) createRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/uploads/*filepath", controllers.GetUploadedImage)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/pricing/estimate", controllers.GetEstimate)
		v1.GET("/catalog/categories", controllers.ListCategories)
	}

	protected := v1.Group("", testutil.MockAuth())
	{
		protected.GET("/dashboard", controllers.GetDashboard)
		protected.PUT("/pricing/:category", controllers.UpsertPricing)
		protected.POST("/uploads/style-images", controllers.UploadStyleImage)
		protected.POST("/appointments/quote", controllers.QuoteAppointment)
		protected.POST("/appointments", controllers.CreateAppointment)
		protected.PATCH("/appointments/:id/status", controllers.UpdateAppointmentStatus)
		protected.GET("/orders", controllers.ListOrders)
		protected.PATCH("/orders/:id/status", controllers.UpdateOrderStatus)
		protected.POST("/orders/:id/final-payment", controllers.SubmitFinalPayment)
		protected.GET("/orders/:id/invoice", controllers.GetInvoice)
		protected.GET("/orders/:id/tasks", controllers.ListOrderTasks)
		protected.PATCH("/tasks/:id/status", controllers.UpdateTaskStatus)
		protected.GET("/payments", controllers.ListPayments)
		protected.PATCH("/payments/:id/verify", controllers.VerifyPayment)
		protected.PUT("/measurements/:userId/:category", controllers.SaveMeasurements)
		protected.GET("/measurements/:userId", controllers.GetMeasurements)
		protected.GET("/notifications/unread-count", controllers.UnreadNotificationCount)
	}
	return router
}

// do sends a request to the live server as auth0ID and decodes the envelope data into out
func (suite *ShopAcceptanceTestSuite) do(t *testing.T, method, path, auth0ID string, body, out interface{}) (int, apiResponse) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(method, suite.server.URL+path, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if auth0ID != "" {
		req.Header.Set(testutil.TestUserHeader, auth0ID)
	}
	return suite.send(t, req, out)
}

func (suite *ShopAcceptanceTestSuite) send(t *testing.T, req *http.Request, out interface{}) (int, apiResponse) {
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")

	var response apiResponse
	require.NoError(t, json.Unmarshal(raw, &response), string(raw))
	if out != nil && response.Success {
		require.NoError(t, json.Unmarshal(response.Data, out))
	}
	return resp.StatusCode, response
}

func (suite *ShopAcceptanceTestSuite) TestCustomerJourney() {
	var (
		styleRef    string
		appointment models.Appointment
		order       models.Order
		customer    models.User
	)
	require.NoError(suite.T(), suite.db.Where("auth0_id = ?", "auth0|meera").First(&customer).Error)

	suite.T().Run("tailor publishes prices", func(t *testing.T) {
		status, resp := suite.do(t, http.MethodPut, "/api/v1/pricing/Kurti", "auth0|tailor", map[string]int64{
			"base_price": 800, "simple_add": 0, "medium_add": 200, "heavy_add": 500, "tailor_fabric_extra": 250,
		}, nil)
		require.Equal(t, http.StatusOK, status, resp.Error.Message)

		var categories []string
		status, _ = suite.do(t, http.MethodGet, "/api/v1/catalog/categories", "", nil, &categories)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, []string{"kurti"}, categories)

		var estimate services.Estimate
		status, _ = suite.do(t, http.MethodGet, "/api/v1/pricing/estimate?category=kurti&complexity=Heavy&fabric=tailor", "", nil, &estimate)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, services.Estimate{Total: 1550, Advance: 465, Balance: 1085, Available: true}, estimate)
	})

	suite.T().Run("customer uploads a style reference", func(t *testing.T) {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, err := writer.CreateFormFile("image", "kurti.png")
		require.NoError(t, err)
		_, err = part.Write([]byte("png-bytes"))
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		req, err := http.NewRequest(http.MethodPost, suite.server.URL+"/api/v1/uploads/style-images", body)
		require.NoError(t, err)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		req.Header.Set(testutil.TestUserHeader, "auth0|meera")

		var uploaded struct {
			StyleImageRef string `json:"style_image_ref"`
			URL           string `json:"url"`
		}
		status, resp := suite.send(t, req, &uploaded)
		require.Equal(t, http.StatusCreated, status, resp.Error.Message)
		styleRef = uploaded.StyleImageRef

		image, err := http.Get(suite.server.URL + uploaded.URL)
		require.NoError(t, err)
		defer image.Body.Close()
		assert.Equal(t, http.StatusOK, image.StatusCode)
	})

	suite.T().Run("customer books with the advance", func(t *testing.T) {
		draft := map[string]interface{}{
			"full_name":       "Meera Iyer",
			"contact":         "9123456780",
			"address":         "4 Park Street, Chennai",
			"date":            "2026-12-01",
			"time":            "16:30",
			"style_category":  "Kurti",
			"style_image_ref": styleRef,
			"fabric_source":   "tailor",
			"complexity":      "Heavy",
		}

		var quote services.Quote
		status, resp := suite.do(t, http.MethodPost, "/api/v1/appointments/quote", "auth0|meera", draft, &quote)
		require.Equal(t, http.StatusOK, status, resp.Error.Message)
		assert.Contains(t, quote.AdvancePaymentLink, "am=465")

		draft["txn_id"] = "UPI-MEERA-ADV"
		status, resp = suite.do(t, http.MethodPost, "/api/v1/appointments", "auth0|meera", draft, &appointment)
		require.Equal(t, http.StatusCreated, status, resp.Error.Message)
		assert.Equal(t, int64(1085), appointment.BalanceDue)
	})

	suite.T().Run("tailor verifies the advance and confirms", func(t *testing.T) {
		var payments []models.Payment
		status, _ := suite.do(t, http.MethodGet, "/api/v1/payments", "auth0|tailor", nil, &payments)
		require.Equal(t, http.StatusOK, status)
		require.Len(t, payments, 1)
		assert.Equal(t, models.PaymentTypeAdvance, payments[0].Type)

		status, resp := suite.do(t, http.MethodPatch, "/api/v1/payments/"+payments[0].ID+"/verify", "auth0|tailor", nil, nil)
		require.Equal(t, http.StatusOK, status, resp.Error.Message)

		status, resp = suite.do(t, http.MethodPatch, "/api/v1/appointments/"+appointment.ID+"/status", "auth0|tailor",
			map[string]string{"status": models.AppointmentConfirmed}, nil)
		require.Equal(t, http.StatusOK, status, resp.Error.Message)

		var orders []models.Order
		status, _ = suite.do(t, http.MethodGet, "/api/v1/orders", "auth0|meera", nil, &orders)
		require.Equal(t, http.StatusOK, status)
		require.Len(t, orders, 1)
		order = orders[0]
		assert.Equal(t, models.OrderConfirmed, order.Status)
	})

	suite.T().Run("tailor records measurements", func(t *testing.T) {
		status, resp := suite.do(t, http.MethodPut, "/api/v1/measurements/"+customer.ID+"/Kurti", "auth0|tailor",
			map[string]interface{}{"fields": map[string]string{"length": "40 in", "chest": "36"}}, nil)
		require.Equal(t, http.StatusOK, status, resp.Error.Message)

		var book services.MeasurementBook
		status, _ = suite.do(t, http.MethodGet, "/api/v1/measurements/"+customer.ID, "auth0|meera", nil, &book)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "40", book["Kurti"]["length"])
	})

	suite.T().Run("workshop finishes the order", func(t *testing.T) {
		var tasks []models.Task
		status, _ := suite.do(t, http.MethodGet, "/api/v1/orders/"+order.ID+"/tasks", "auth0|tailor", nil, &tasks)
		require.Equal(t, http.StatusOK, status)
		require.Len(t, tasks, len(models.DefaultTaskStages))
		for _, task := range tasks {
			status, _ := suite.do(t, http.MethodPatch, "/api/v1/tasks/"+task.ID+"/status", "auth0|tailor",
				map[string]string{"status": models.TaskDone}, nil)
			require.Equal(t, http.StatusOK, status)
		}

		for _, next := range []string{models.OrderInProgress, models.OrderReadyForDelivery} {
			status, resp := suite.do(t, http.MethodPatch, "/api/v1/orders/"+order.ID+"/status", "auth0|tailor",
				map[string]string{"status": next}, nil)
			require.Equal(t, http.StatusOK, status, resp.Error.Message)
		}

		var unread struct {
			Count int64 `json:"count"`
		}
		status, _ = suite.do(t, http.MethodGet, "/api/v1/notifications/unread-count", "auth0|meera", nil, &unread)
		require.Equal(t, http.StatusOK, status)
		assert.GreaterOrEqual(t, unread.Count, int64(2))
	})

	suite.T().Run("customer pays the balance and gets an invoice", func(t *testing.T) {
		var payment models.Payment
		status, resp := suite.do(t, http.MethodPost, "/api/v1/orders/"+order.ID+"/final-payment", "auth0|meera",
			map[string]string{"txn_id": "UPI-MEERA-FIN"}, &payment)
		require.Equal(t, http.StatusCreated, status, resp.Error.Message)
		assert.Equal(t, int64(1085), payment.Amount)

		status, resp = suite.do(t, http.MethodPatch, "/api/v1/payments/"+payment.ID+"/verify", "auth0|tailor", nil, nil)
		require.Equal(t, http.StatusOK, status, resp.Error.Message)

		var invoice services.Invoice
		status, resp = suite.do(t, http.MethodGet, "/api/v1/orders/"+order.ID+"/invoice", "auth0|meera", nil, &invoice)
		require.Equal(t, http.StatusOK, status, resp.Error.Message)
		assert.Equal(t, int64(1550), invoice.TotalCost)
		assert.Equal(t, int64(465), invoice.AdvancePaid)
		assert.Equal(t, int64(1085), invoice.FinalPaid)
		assert.NotEmpty(t, invoice.InvoiceNumber)

		status, resp = suite.do(t, http.MethodPatch, "/api/v1/orders/"+order.ID+"/status", "auth0|tailor",
			map[string]string{"status": models.OrderCompleted}, nil)
		require.Equal(t, http.StatusOK, status, resp.Error.Message)
	})

	suite.T().Run("dashboard reflects the day", func(t *testing.T) {
		var stats controllers.DashboardStats
		status, _ := suite.do(t, http.MethodGet, "/api/v1/dashboard", "auth0|tailor", nil, &stats)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, int64(1), stats.TotalOrders)
		assert.Equal(t, int64(0), stats.ActiveOrders)
		assert.Equal(t, int64(1550), stats.TotalSales)
		assert.Equal(t, int64(0), stats.SubmittedPayments)
		assert.Equal(t, int64(1), stats.RegisteredCustomers)

		status, resp := suite.do(t, http.MethodGet, "/api/v1/dashboard", "auth0|meera", nil, nil)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "FORBIDDEN", resp.Error.Code)
	})
}

func TestShopAcceptanceTestSuite(t *testing.T) {
	suite.Run(t, new(ShopAcceptanceTestSuite))
}
