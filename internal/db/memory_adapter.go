package db

import (
	"context"

	"github.com/themobileprof/paintrack-be/internal/memory"
)

// MemoryAdapter exposes persisted chat messages in the shape the
// memory package expects, so short-term memory can be rehydrated
// after a restart
type MemoryAdapter struct {
	db *DB
}

// NewMemoryAdapter creates a new adapter
func NewMemoryAdapter(db *DB) *MemoryAdapter {
	return &MemoryAdapter{db: db}
}

// GetRecentMessages returns the user's latest persisted messages in
// chronological order
func (a *MemoryAdapter) GetRecentMessages(ctx context.Context, userID string, limit int) ([]memory.Message, error) {
	dbMessages, err := a.db.GetRecentMessages(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	messages := make([]memory.Message, len(dbMessages))
	for i, msg := range dbMessages {
		messages[i] = memory.Message{
			Role:      msg.Role,
			Content:   msg.Content,
			Timestamp: msg.CreatedAt,
		}
	}

	return messages, nil
}
