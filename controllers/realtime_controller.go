package controllers

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/vastramitra/vastramitra-api/realtime"
)

// ServeRealtime handles GET /api/v1/ws - upgrades to a websocket that streams the caller's
// record changes. Tailors receive every change.
func ServeRealtime(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		if err := hub.Serve(c.Writer, c.Request, user.ID, user.Role); err != nil {
			log.Printf("WebSocket upgrade failed for %s: %v", user.ID, err)
		}
	}
}
