package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"nusachat/backend/internal/model"
)

// redisRepository is the alternate Repository backend, selected with
// REPOSITORY_BACKEND=redis. Chats are stored as JSON strings, an owner's
// chat ids in a sorted set scored by recency, and a chat's messages in a
// list in insertion order (which is creation order, the only ordering the
// core ever asks for).
type redisRepository struct {
	rdb *redis.Client
}

func NewRedisRepository(rdb *redis.Client) Repository {
	return &redisRepository{rdb: rdb}
}

func (r *redisRepository) chatKey(chatID string) string     { return fmt.Sprintf("chat:%s", chatID) }
func (r *redisRepository) messagesKey(chatID string) string { return fmt.Sprintf("chat:%s:messages", chatID) }
func (r *redisRepository) userChatsKey(userID string) string {
	return fmt.Sprintf("user:%s:chats", userID)
}

func (r *redisRepository) CreateChat(ctx context.Context, chat *model.Chat) error {
	payload, err := json.Marshal(chat)
	if err != nil {
		return fmt.Errorf("could not marshal chat: %w", err)
	}

	pipe := r.rdb.TxPipeline()
	pipe.Set(ctx, r.chatKey(chat.ID), payload, 0)
	if chat.UserID != nil {
		pipe.ZAdd(ctx, r.userChatsKey(*chat.UserID), redis.Z{
			Score:  float64(-chat.UpdatedAt.UnixNano()),
			Member: chat.ID,
		})
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (r *redisRepository) GetChat(ctx context.Context, chatID string) (*model.Chat, error) {
	val, err := r.rdb.Get(ctx, r.chatKey(chatID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var chat model.Chat
	if err := json.Unmarshal([]byte(val), &chat); err != nil {
		return nil, fmt.Errorf("could not unmarshal chat %s: %w", chatID, err)
	}
	return &chat, nil
}

func (r *redisRepository) GetChats(ctx context.Context, userID string) ([]*model.Chat, error) {
	ids, err := r.rdb.ZRange(ctx, r.userChatsKey(userID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	var chats []*model.Chat
	for _, id := range ids {
		chat, err := r.GetChat(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}
	return chats, nil
}

func (r *redisRepository) GetChatsByIDs(ctx context.Context, chatIDs []string) ([]*model.Chat, error) {
	var chats []*model.Chat
	for _, id := range chatIDs {
		chat, err := r.GetChat(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if chat.UserID != nil {
			// Owned chat: not visible through the guest lookup.
			continue
		}
		chats = append(chats, chat)
	}
	return chats, nil
}

func (r *redisRepository) UpdateChatTitle(ctx context.Context, chatID, newTitle string) error {
	chat, err := r.GetChat(ctx, chatID)
	if err != nil {
		return err
	}

	chat.Title = newTitle
	chat.UpdatedAt = time.Now().UTC()
	return r.saveChat(ctx, chat)
}

func (r *redisRepository) AddMessage(ctx context.Context, chatID string, message *model.Message) error {
	chat, err := r.GetChat(ctx, chatID)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("could not marshal message: %w", err)
	}

	if err := r.rdb.RPush(ctx, r.messagesKey(chatID), payload).Err(); err != nil {
		return err
	}

	chat.UpdatedAt = time.Now().UTC()
	return r.saveChat(ctx, chat)
}

func (r *redisRepository) GetMessages(ctx context.Context, chatID string) ([]model.Message, error) {
	vals, err := r.rdb.LRange(ctx, r.messagesKey(chatID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	var messages []model.Message
	for _, val := range vals {
		var msg model.Message
		if err := json.Unmarshal([]byte(val), &msg); err != nil {
			return nil, fmt.Errorf("could not unmarshal message in chat %s: %w", chatID, err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (r *redisRepository) CountMessages(ctx context.Context, chatID string) (int, error) {
	n, err := r.rdb.LLen(ctx, r.messagesKey(chatID)).Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *redisRepository) saveChat(ctx context.Context, chat *model.Chat) error {
	payload, err := json.Marshal(chat)
	if err != nil {
		return fmt.Errorf("could not marshal chat: %w", err)
	}

	pipe := r.rdb.TxPipeline()
	pipe.Set(ctx, r.chatKey(chat.ID), payload, 0)
	if chat.UserID != nil {
		pipe.ZAdd(ctx, r.userChatsKey(*chat.UserID), redis.Z{
			Score:  float64(-chat.UpdatedAt.UnixNano()),
			Member: chat.ID,
		})
	}
	_, err = pipe.Exec(ctx)
	return err
}
