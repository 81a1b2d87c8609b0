package handler

import (
	"Petrel/internal/pkg/redis"
	"Petrel/internal/pkg/response"
	"Petrel/internal/pkg/security"
	"Petrel/internal/pkg/stream"
	"Petrel/internal/service"
	"context"
	log "log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type StreamHandler struct{}

func NewStreamHandler() *StreamHandler {
	return &StreamHandler{}
}

// Connect upgrades to a websocket and relays timeline events. An anonymous
// connection only receives the local firehose; a valid token adds the
// viewer's home channel.
func (s *StreamHandler) Connect(c *gin.Context) {
	var userID string
	if token := c.Query("token"); token != "" {
		claims, err := security.ValidateToken(token)
		if err != nil {
			log.Warn("stream auth failed", "err", err)
			response.Error(c, service.UnauthorizedError)
			return
		}
		userID = claims.UserID
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("stream upgrade failed", "err", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	channels := []string{stream.LocalChannel}
	if userID != "" {
		channels = append(channels, stream.UserChannel(userID))
	}

	pubsub := redis.Subscribe(context.Background(), channels...)
	defer func() {
		_ = pubsub.Close()
	}()

	log.Info("stream connection established", "userID", userID, "channels", len(channels))

	stopChan := make(chan struct{})

	// Read loop watches for a client-side close.
	go func() {
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				close(stopChan)
				return
			}
		}
	}()

	redisCh := pubsub.Channel()
	for {
		select {
		case msg := <-redisCh:
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				log.Error("stream push failed", "userID", userID, "err", err)
				return
			}
		case <-stopChan:
			log.Info("stream connection closed", "userID", userID)
			return
		}
	}
}
