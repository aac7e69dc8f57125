// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"

	"ripple/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

var wsLog = observability.NewWSLogger("notifications")

// WebsocketHandler returns the notification stream handler for GET /api/ws.
// Authentication happens in route middleware; userID is read from locals.
func (s *Server) WebsocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		observability.WebSocketConnectionsTotal.Inc()
		defer observability.WebSocketConnectionsTotal.Dec()

		ctx := context.Background()

		uid, ok := conn.Locals("userID").(uint)
		if !ok {
			_ = conn.Close()
			return
		}

		if s.hub == nil {
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(uid, conn)
		if err != nil {
			wsLog.LogError(ctx, uid, err, "register")
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}
		wsLog.LogConnect(ctx, uid)
		defer func() {
			s.hub.UnregisterClient(client)
			wsLog.LogDisconnect(ctx, uid, "connection closed")
		}()

		// The handshake ticket is no longer needed once the upgrade completed.
		s.consumeWSTicket(ctx, conn.Locals("wsTicket"))

		go client.WritePump()
		client.ReadPump()
	})
}

// GetFeatureFlags handles GET /api/feature-flags, returning the flag
// evaluation for the authenticated user.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	return c.JSON(fiber.Map{"flags": s.featureFlags.Snapshot(userID)})
}
