package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/lifeblood-dev/lifeblood/internal/auth"
	"github.com/lifeblood-dev/lifeblood/internal/chat"
	"github.com/lifeblood-dev/lifeblood/internal/types"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

type WSHandler struct {
	Relay *chat.Relay
}

// WebSocket upgrades the connection and runs the realtime chat protocol:
// the client emits join_room/leave_room/send_message events, the server
// emits receive_message to the other members of a room. Browser WebSocket
// clients cannot set an Authorization header, so the token travels as a
// query parameter.
func (h *WSHandler) WebSocket(c *gin.Context) {
	tokenString := c.Query("token")

	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is required"})
		return
	}

	token, err := auth.VerifyJWT(tokenString)

	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	userID, err := auth.UserIDFromToken(token)

	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		conn.Close()
		return
	}
	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline in pong handler: %v", err)
		}
		return nil
	})

	client := chat.NewClient(userID)
	done := make(chan struct{})

	// Single writer goroutine: drains the client's send buffer and keeps
	// the connection alive with pings.
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case event := <-client.Send:
				if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
					log.Printf("Failed to set write deadline for user %d: %v", userID, err)
					return
				}
				if err := conn.WriteJSON(event); err != nil {
					log.Printf("Failed to deliver chat event to user %d: %v", userID, err)
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	defer func() {
		close(done)
		h.Relay.Drop(client)
		conn.Close()
		log.Printf("WebSocket connection closed for user %d", userID)
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline for user %d: %v", userID, err)
			break
		}

		var event chat.Event

		if err := conn.ReadJSON(&event); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error for user %d: %v", userID, err)
			}
			break
		}

		switch event.Type {
		case chat.EventJoinRoom:
			h.Relay.Join(event.RoomID, client)
		case chat.EventLeaveRoom:
			h.Relay.Leave(event.RoomID, client)
		case chat.EventSendMessage:
			timestamp := event.Timestamp
			if timestamp.IsZero() {
				timestamp = time.Now()
			}
			h.Relay.Send(event.RoomID, client, event.Message, timestamp)
		default:
			log.Printf("Unsupported chat event type from user %d: %s", userID, event.Type)
		}
	}
}
