package ws

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"

	"github.com/themobileprof/paintrack-be/internal/api/middleware"
	"github.com/themobileprof/paintrack-be/internal/chat"
	"github.com/themobileprof/paintrack-be/internal/followup"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // origin filtering happens at the proxy
	},
}

// ChatHandler bridges WebSocket connections to the chat engine
type ChatHandler struct {
	engine    *chat.Engine
	jwtSecret string
}

// NewChatHandler creates a new chat handler
func NewChatHandler(engine *chat.Engine, jwtSecret string) *ChatHandler {
	return &ChatHandler{
		engine:    engine,
		jwtSecret: jwtSecret,
	}
}

// IncomingMessage represents a message from the client
type IncomingMessage struct {
	Content string `json:"content"`
}

// OutgoingMessage represents a message to the client
type OutgoingMessage struct {
	Type    string      `json:"type"` // "message", "followup", "error", "done"
	Content string      `json:"content,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// wsResponder implements chat.Responder over a WebSocket connection
type wsResponder struct {
	conn *websocket.Conn
}

func (r *wsResponder) SendMessage(content string) error {
	return r.conn.WriteJSON(OutgoingMessage{Type: "message", Content: content})
}

func (r *wsResponder) SendFollowUpSuggestion(suggestion followup.Suggestion) error {
	return r.conn.WriteJSON(OutgoingMessage{Type: "followup", Data: suggestion})
}

func (r *wsResponder) SendError(message string) error {
	return r.conn.WriteJSON(OutgoingMessage{Type: "error", Content: message})
}

func (r *wsResponder) SendDone() error {
	return r.conn.WriteJSON(OutgoingMessage{Type: "done"})
}

// HandleChat authenticates, upgrades, and pumps messages through the
// chat engine until the client disconnects
func (h *ChatHandler) HandleChat(c *gin.Context) {
	// Browsers cannot set headers on WebSocket dials, so the token may
	// arrive as a query parameter instead
	token := c.Query("token")
	if token == "" {
		token = c.GetHeader("Authorization")
		if strings.HasPrefix(token, "Bearer ") {
			token = strings.TrimPrefix(token, "Bearer ")
		}
	}

	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
		return
	}

	claims := &middleware.JWTClaims{}
	jwtToken, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(h.jwtSecret), nil
	})
	if err != nil || !jwtToken.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	userID := claims.UserID
	log.Printf("WebSocket connected: user=%s", userID)

	responder := &wsResponder{conn: conn}

	// Per-connection limit keeps one chatty client from monopolizing
	// the LLM budget
	limiter := middleware.NewWebSocketLimiter(30)

	for {
		var msg IncomingMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		if strings.TrimSpace(msg.Content) == "" {
			continue
		}

		if !limiter.Allow() {
			responder.SendError("You're sending messages too quickly. Give me a moment to catch up.")
			continue
		}

		err := h.engine.ProcessMessage(c.Request.Context(), chat.ProcessRequest{
			UserID:    userID,
			Message:   msg.Content,
			Responder: responder,
		})
		if err != nil {
			log.Printf("Error processing message: %v", err)
			responder.SendError("Something went wrong handling that message.")
		}
	}
}
