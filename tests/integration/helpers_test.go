package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/vastramitra/vastramitra-api/controllers"
	"github.com/vastramitra/vastramitra-api/realtime"
	"github.com/vastramitra/vastramitra-api/tests/testutil"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// newRouter mounts the workflow endpoints behind the header based test authentication
func newRouter(hub *realtime.Hub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/uploads/*filepath", controllers.GetUploadedImage)

	api := router.Group("/api/v1", testutil.MockAuth())
	{
		api.POST("/uploads/style-images", controllers.UploadStyleImage)
		api.POST("/appointments", controllers.CreateAppointment)
		api.GET("/appointments", controllers.ListAppointments)
		api.PATCH("/appointments/:id/status", controllers.UpdateAppointmentStatus)
		api.GET("/orders/:id", controllers.GetOrder)
		api.PATCH("/orders/:id/status", controllers.UpdateOrderStatus)
		api.GET("/orders/:id/final-payment", controllers.GetFinalPayment)
		api.POST("/orders/:id/final-payment", controllers.SubmitFinalPayment)
		api.GET("/orders/:id/invoice", controllers.GetInvoice)
		api.GET("/tasks", controllers.ListTasks)
		api.PATCH("/tasks/:id/status", controllers.UpdateTaskStatus)
		api.PATCH("/payments/:id/verify", controllers.VerifyPayment)
		api.POST("/chats/:peerId/messages", controllers.SendMessage)
		api.GET("/notifications", controllers.ListNotifications)
		if hub != nil {
			api.GET("/ws", controllers.ServeRealtime(hub))
		}
	}
	return router
}

// call performs a JSON request as auth0ID and decodes the envelope into out when it is non-nil
func call(t *testing.T, router http.Handler, method, path, auth0ID string, body, out interface{}) (int, envelope) {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if auth0ID != "" {
		req.Header.Set(testutil.TestUserHeader, auth0ID)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	if out != nil && response.Success {
		require.NoError(t, json.Unmarshal(response.Data, out))
	}
	return w.Code, response
}

func lehengaDraft() map[string]interface{} {
	return map[string]interface{}{
		"full_name":      "Priya Sharma",
		"contact":        "9876543210",
		"address":        "12 MG Road, Pune",
		"date":           "2026-11-02",
		"time":           "11:00",
		"style_category": "lehenga",
		"fabric_source":  "customer",
		"complexity":     "Simple",
		"txn_id":         "UPI-ADV-1",
	}
}
