package routes

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/btmxh/folio/internal/services"
	"github.com/gin-gonic/gin"
	"golang.org/x/net/websocket"
)

func WebSocketRouter(g *gin.RouterGroup, manager *services.WebSocketManager) {
	g.GET("/:page", func(c *gin.Context) {
		page := c.Param("page")

		websocket.Handler(func(conn *websocket.Conn) {
			defer conn.Close()

			session := manager.AddConn(page, conn)
			defer manager.Remove(session.Id())

			handler := session.ErrorHandler("WebSocket error")
			for {
				var msg services.IncomingWebSocketMsg
				err := websocket.JSON.Receive(conn, &msg)
				if errors.Is(err, io.EOF) {
					slog.Debug("WebSocket connection closed", "sid", session.Id())
					break
				}
				if err != nil {
					slog.Info("WebSocket connection error", "sid", session.Id(), "err", err)
					break
				}

				slog.Debug("Received from WebSocket", "sid", session.Id(), "type", msg.Type)
				if err = session.HandleMessage(msg); err != nil {
					handler.PublicError(http.StatusUnprocessableEntity, err)
				}
			}
		}).ServeHTTP(c.Writer, c.Request)
	})
}
