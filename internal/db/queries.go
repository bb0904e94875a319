package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

// CreateUser creates a new user
func (db *DB) CreateUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (email, password_hash, display_name, is_provider)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	return db.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.Name, user.IsProvider,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

// GetUserByEmail retrieves a user by email
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, email, password_hash, display_name, is_provider, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	user := &User{}
	err := db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name,
		&user.IsProvider, &user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// GetUserByID retrieves a user by ID
func (db *DB) GetUserByID(ctx context.Context, id string) (*User, error) {
	query := `
		SELECT id, email, password_hash, display_name, is_provider, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	user := &User{}
	err := db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name,
		&user.IsProvider, &user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// SaveMessage saves an assistant chat message
func (db *DB) SaveMessage(ctx context.Context, userID, role, content string) (*Message, error) {
	query := `
		INSERT INTO messages (user_id, role, content)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, role, content, created_at
	`

	msg := &Message{}
	err := db.QueryRowContext(ctx, query, userID, role, content).Scan(
		&msg.ID, &msg.UserID, &msg.Role, &msg.Content, &msg.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	return msg, nil
}

// GetRecentMessages retrieves the N most recent messages for a user
// in chronological order
func (db *DB) GetRecentMessages(ctx context.Context, userID string, limit int) ([]Message, error) {
	query := `
		SELECT id, user_id, role, content, created_at
		FROM messages
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	defer rows.Close()

	messages := make([]Message, 0, limit)
	for rows.Next() {
		var msg Message
		if err := rows.Scan(&msg.ID, &msg.UserID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}

	// Reverse to get chronological order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

// SaveOrUpdateFact saves or updates a user fact. An existing fact is only
// overwritten by one with higher confidence.
func (db *DB) SaveOrUpdateFact(ctx context.Context, userID, key, value string, confidence float64) (*UserFact, error) {
	query := `
		INSERT INTO user_facts (user_id, key, value, confidence)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, key)
		DO UPDATE SET value = $3, confidence = $4, updated_at = CURRENT_TIMESTAMP
		WHERE user_facts.confidence < $4
		RETURNING id, user_id, key, value, confidence, created_at, updated_at
	`

	fact := &UserFact{}
	err := db.QueryRowContext(ctx, query, userID, key, value, confidence).Scan(
		&fact.ID, &fact.UserID, &fact.Key, &fact.Value,
		&fact.Confidence, &fact.CreatedAt, &fact.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		// Lower-confidence insert lost the conflict; not an error
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save fact: %w", err)
	}

	return fact, nil
}

// GetUserFacts retrieves all facts for a user
func (db *DB) GetUserFacts(ctx context.Context, userID string) ([]UserFact, error) {
	query := `
		SELECT id, user_id, key, value, confidence, created_at, updated_at
		FROM user_facts
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`

	rows, err := db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get facts: %w", err)
	}
	defer rows.Close()

	facts := make([]UserFact, 0)
	for rows.Next() {
		var fact UserFact
		if err := rows.Scan(&fact.ID, &fact.UserID, &fact.Key, &fact.Value,
			&fact.Confidence, &fact.CreatedAt, &fact.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan fact: %w", err)
		}
		facts = append(facts, fact)
	}

	return facts, nil
}
