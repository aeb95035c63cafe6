package main

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/vastramitra/vastramitra-api/config"
	"github.com/vastramitra/vastramitra-api/controllers"
	"github.com/vastramitra/vastramitra-api/middleware"
	"github.com/vastramitra/vastramitra-api/models"
	"github.com/vastramitra/vastramitra-api/realtime"
)

// corsConfig allows the configured origins, or every origin when CORS_ORIGINS is "*"
func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "Accept"}

	origins := strings.TrimSpace(cfg.CORSOrigins)
	if origins == "" || origins == "*" {
		corsCfg.AllowAllOrigins = true
		return corsCfg
	}
	for _, origin := range strings.Split(origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			corsCfg.AllowOrigins = append(corsCfg.AllowOrigins, origin)
		}
	}
	return corsCfg
}

// registerRoutes mounts the API. auth authenticates every protected route.
func registerRoutes(router *gin.Engine, cfg *config.Config, auth gin.HandlerFunc, hub *realtime.Hub, limiter *middleware.RateLimiter) {
	router.Use(cors.New(corsConfig(cfg)))
	if limiter != nil {
		router.Use(middleware.RateLimit(limiter))
	}

	// locally stored images; S3 images are served through presigned URLs
	router.GET("/uploads/*filepath", controllers.GetUploadedImage)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)

		// Public catalog and pricing
		v1.GET("/pricing", controllers.ListPricing)
		v1.GET("/pricing/estimate", controllers.GetEstimate)
		v1.GET("/catalog/categories", controllers.ListCategories)
		v1.GET("/catalog/styles", controllers.ListStyles)
	}

	protected := v1.Group("")
	protected.Use(auth)
	{
		protected.POST("/users", controllers.CreateUser)
		protected.GET("/users/me", controllers.GetMyProfile)
		protected.PUT("/users/me", controllers.UpdateMyProfile)
		protected.PUT("/users/me/push-token", controllers.UpdatePushToken)

		protected.POST("/uploads/style-images", controllers.UploadStyleImage)

		protected.POST("/appointments/quote", controllers.QuoteAppointment)
		protected.POST("/appointments", controllers.CreateAppointment)
		protected.GET("/appointments", controllers.ListAppointments)

		protected.GET("/orders", controllers.ListOrders)
		protected.GET("/orders/:id", controllers.GetOrder)
		protected.GET("/orders/:id/final-payment", controllers.GetFinalPayment)
		protected.POST("/orders/:id/final-payment", controllers.SubmitFinalPayment)
		protected.GET("/orders/:id/invoice", controllers.GetInvoice)
		protected.GET("/orders/:id/tasks", controllers.ListOrderTasks)

		protected.GET("/chats", controllers.ListChats)
		protected.GET("/chats/:peerId/messages", controllers.ListMessages)
		protected.POST("/chats/:peerId/messages", controllers.SendMessage)

		protected.GET("/measurements/:userId", controllers.GetMeasurements)

		protected.GET("/notifications", controllers.ListNotifications)
		protected.GET("/notifications/unread-count", controllers.UnreadNotificationCount)
		protected.PATCH("/notifications/:id/read", controllers.MarkNotificationRead)

		if hub != nil {
			protected.GET("/ws", controllers.ServeRealtime(hub))
		}
	}

	// Workshop routes. Handlers also check the role stored on the caller's profile.
	tailor := protected.Group("")
	tailor.Use(middleware.RequireRole(models.RoleTailor))
	{
		tailor.GET("/customers", controllers.ListCustomers)
		tailor.GET("/dashboard", controllers.GetDashboard)

		tailor.PUT("/pricing/:category", controllers.UpsertPricing)
		tailor.POST("/catalog/styles", controllers.CreateStyle)

		tailor.PATCH("/appointments/:id/status", controllers.UpdateAppointmentStatus)
		tailor.PATCH("/orders/:id/status", controllers.UpdateOrderStatus)
		tailor.POST("/orders/:id/tasks", controllers.CreateTask)

		tailor.GET("/tasks", controllers.ListTasks)
		tailor.PATCH("/tasks/:id/status", controllers.UpdateTaskStatus)

		tailor.GET("/payments", controllers.ListPayments)
		tailor.PATCH("/payments/:id/verify", controllers.VerifyPayment)

		tailor.PUT("/measurements/:userId/:category", controllers.SaveMeasurements)
	}
}
