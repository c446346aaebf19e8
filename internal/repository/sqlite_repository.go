package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"nusachat/backend/internal/model"
)

type sqliteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) CreateChat(ctx context.Context, chat *model.Chat) error {
	query := "INSERT INTO chats (id, title, user_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)"
	_, err := r.db.ExecContext(ctx, query, chat.ID, chat.Title, chat.UserID, chat.CreatedAt, chat.UpdatedAt)
	return err
}

func (r *sqliteRepository) GetChat(ctx context.Context, chatID string) (*model.Chat, error) {
	query := "SELECT id, title, user_id, created_at, updated_at FROM chats WHERE id = ?"
	row := r.db.QueryRowContext(ctx, query, chatID)

	var chat model.Chat
	var userID sql.NullString
	err := row.Scan(&chat.ID, &chat.Title, &userID, &chat.CreatedAt, &chat.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if userID.Valid {
		chat.UserID = &userID.String
	}
	return &chat, nil
}

func (r *sqliteRepository) GetChats(ctx context.Context, userID string) ([]*model.Chat, error) {
	query := "SELECT id, title, user_id, created_at, updated_at FROM chats WHERE user_id = ? ORDER BY updated_at DESC"
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanChats(rows)
}

func (r *sqliteRepository) GetChatsByIDs(ctx context.Context, chatIDs []string) ([]*model.Chat, error) {
	if len(chatIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(chatIDs))
	placeholders = placeholders[:len(placeholders)-1]
	query := fmt.Sprintf(
		"SELECT id, title, user_id, created_at, updated_at FROM chats WHERE id IN (%s) AND user_id IS NULL ORDER BY updated_at DESC",
		placeholders,
	)

	args := make([]any, len(chatIDs))
	for i, id := range chatIDs {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanChats(rows)
}

func (r *sqliteRepository) UpdateChatTitle(ctx context.Context, chatID, newTitle string) error {
	query := "UPDATE chats SET title = ?, updated_at = ? WHERE id = ?"
	res, err := r.db.ExecContext(ctx, query, newTitle, time.Now().UTC(), chatID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddMessage inserts the message and touches the chat's updated_at inside a
// single transaction, so a chat's recency never disagrees with its messages.
func (r *sqliteRepository) AddMessage(ctx context.Context, chatID string, message *model.Message) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertQuery := `
		INSERT INTO messages (id, chat_id, role, content, model, language, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, insertQuery,
		message.ID,
		chatID,
		message.Role,
		message.Content,
		message.Model,
		message.Language,
		message.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("could not insert message: %w", err)
	}

	updateQuery := "UPDATE chats SET updated_at = ? WHERE id = ?"
	if _, err = tx.ExecContext(ctx, updateQuery, time.Now().UTC(), chatID); err != nil {
		return fmt.Errorf("could not update chat timestamp: %w", err)
	}

	return tx.Commit()
}

func (r *sqliteRepository) GetMessages(ctx context.Context, chatID string) ([]model.Message, error) {
	query := `
		SELECT id, chat_id, role, content, model, language, created_at
		FROM messages
		WHERE chat_id = ?
		ORDER BY created_at ASC, rowid ASC
	`
	rows, err := r.db.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		var msg model.Message
		var modelName, language sql.NullString

		if err := rows.Scan(&msg.ID, &msg.ChatID, &msg.Role, &msg.Content, &modelName, &language, &msg.CreatedAt); err != nil {
			return nil, err
		}
		if modelName.Valid {
			msg.Model = &modelName.String
		}
		if language.Valid {
			msg.Language = &language.String
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (r *sqliteRepository) CountMessages(ctx context.Context, chatID string) (int, error) {
	query := "SELECT COUNT(*) FROM messages WHERE chat_id = ?"
	var count int
	if err := r.db.QueryRowContext(ctx, query, chatID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanChats(rows *sql.Rows) ([]*model.Chat, error) {
	var chats []*model.Chat
	for rows.Next() {
		var chat model.Chat
		var userID sql.NullString
		if err := rows.Scan(&chat.ID, &chat.Title, &userID, &chat.CreatedAt, &chat.UpdatedAt); err != nil {
			return nil, err
		}
		if userID.Valid {
			chat.UserID = &userID.String
		}
		chats = append(chats, &chat)
	}
	return chats, rows.Err()
}
