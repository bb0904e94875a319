package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/themobileprof/paintrack-be/internal/api/middleware"
	"github.com/themobileprof/paintrack-be/internal/chat"
	"github.com/themobileprof/paintrack-be/internal/db"
	"github.com/themobileprof/paintrack-be/internal/followup"
)

// ChatHandler exposes the assistant over plain HTTP for clients that
// cannot hold a WebSocket open
type ChatHandler struct {
	engine *chat.Engine
	db     *db.DB
}

// NewChatHandler creates a new REST chat handler
func NewChatHandler(engine *chat.Engine, database *db.DB) *ChatHandler {
	return &ChatHandler{
		engine: engine,
		db:     database,
	}
}

// SendMessageRequest represents an assistant message request
type SendMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

// bufferedResponder collects engine output so one HTTP response can
// carry everything the WebSocket path would have streamed
type bufferedResponder struct {
	messages   []string
	followUp   *followup.Suggestion
	errMessage string
}

func (r *bufferedResponder) SendMessage(content string) error {
	r.messages = append(r.messages, content)
	return nil
}

func (r *bufferedResponder) SendFollowUpSuggestion(suggestion followup.Suggestion) error {
	r.followUp = &suggestion
	return nil
}

func (r *bufferedResponder) SendError(message string) error {
	r.errMessage = message
	return nil
}

func (r *bufferedResponder) SendDone() error {
	return nil
}

// SendMessage runs one assistant exchange and returns the reply
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	responder := &bufferedResponder{}
	err := h.engine.ProcessMessage(c.Request.Context(), chat.ProcessRequest{
		UserID:    userID,
		Message:   req.Message,
		Responder: responder,
	})
	if err != nil {
		log.Printf("Error processing message: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process message"})
		return
	}
	if responder.errMessage != "" && len(responder.messages) == 0 {
		c.JSON(http.StatusBadGateway, gin.H{"error": responder.errMessage})
		return
	}

	resp := gin.H{"messages": responder.messages}
	if responder.followUp != nil {
		resp["follow_up"] = responder.followUp
	}
	c.JSON(http.StatusOK, resp)
}

// GetHistory returns the user's recent assistant messages
func (h *ChatHandler) GetHistory(c *gin.Context) {
	userID := middleware.GetUserID(c)

	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 200 {
			limit = l
		}
	}

	messages, err := h.db.GetRecentMessages(c.Request.Context(), userID, limit)
	if err != nil {
		log.Printf("Failed to get messages: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve messages"})
		return
	}
	if messages == nil {
		messages = []db.Message{}
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
