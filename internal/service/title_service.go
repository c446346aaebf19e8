package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"nusachat/backend/internal/llm"
	"nusachat/backend/internal/model"
	"nusachat/backend/internal/repository"
)

// maxTitleLength caps generated titles.
const maxTitleLength = 100

// titleSourceMessages is how many of the chat's earliest messages feed the
// summarization prompt.
const titleSourceMessages = 4

// TitleService generates a short display title for a chat from its first
// exchange. It runs out-of-band, fired by the orchestrator after the second
// stored message, so it re-checks chat access itself and never lets a
// failure escape its own boundary.
type TitleService struct {
	repo      repository.Repository
	providers llm.Provider
}

func NewTitleService(repo repository.Repository, providers llm.Provider) *TitleService {
	return &TitleService{repo: repo, providers: providers}
}

// Generate summarizes the chat's opening messages into a 3-5 word title and
// overwrites the chat's title with it. Safe to call more than once: the
// result is always a single overwrite, never an append. On any failure the
// title falls back to an excerpt of the first message.
func (t *TitleService) Generate(ctx context.Context, callerID *string, chatID, modelName string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Title generation panicked", "chat_id", chatID, "panic", r)
		}
	}()

	chat, err := t.repo.GetChat(ctx, chatID)
	if err != nil {
		slog.Warn("Title generation: could not load chat", "chat_id", chatID, "error", err)
		return
	}
	// Running detached means the caller context cannot be trusted blindly;
	// the ownership rule is enforced again here.
	if !canAccess(chat, callerID) {
		slog.Warn("Title generation: access denied", "chat_id", chatID)
		return
	}

	messages, err := t.repo.GetMessages(ctx, chatID)
	if err != nil {
		slog.Warn("Title generation: could not load messages", "chat_id", chatID, "error", err)
		return
	}
	if len(messages) == 0 {
		return
	}

	title := t.generateFromConversation(ctx, modelName, messages)
	if title == "" {
		title = defaultTitle(messages[0].Content)
	}
	title = truncateRunes(title, maxTitleLength)

	if err := t.repo.UpdateChatTitle(ctx, chatID, title); err != nil {
		slog.Warn("Title generation: could not update title", "chat_id", chatID, "error", err)
		return
	}
	slog.Info("Updated chat title", "chat_id", chatID, "title", title)
}

// generateFromConversation asks the chat's own model family for a title.
// An empty return means "use the fallback".
func (t *TitleService) generateFromConversation(ctx context.Context, modelName string, messages []model.Message) string {
	prompt := buildTitlePrompt(messages)

	raw, err := t.providers.Complete(ctx, modelName, prompt)
	if err != nil {
		slog.Warn("Title generation: provider call failed", "model", modelName, "error", err)
		return ""
	}

	title := strings.TrimSpace(raw)
	title = strings.Trim(title, `"'`)
	return strings.TrimSpace(title)
}

// buildTitlePrompt formats the first few messages, oldest first, as
// "role: content" lines under a summarization instruction.
func buildTitlePrompt(messages []model.Message) string {
	var sb strings.Builder
	sb.WriteString("Generate a concise 3-5 word title for this conversation. Respond with only the title, nothing else.\n\n")
	for i, msg := range messages {
		if i >= titleSourceMessages {
			break
		}
		fmt.Fprintf(&sb, "%s: %s\n", msg.Role, msg.Content)
	}
	return sb.String()
}
