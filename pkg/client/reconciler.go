package client

import (
	"strings"
	"sync"

	"nusachat/backend/internal/model"
)

// Phase is the lifecycle stage of a single send.
type Phase int

const (
	// PhaseIdle means no send is in flight.
	PhaseIdle Phase = iota
	// PhaseSending means the request left but no event arrived yet.
	PhaseSending
	// PhaseStreaming means tokens are arriving.
	PhaseStreaming
	// PhaseSettled means the stream finished, with or without an error.
	PhaseSettled
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSending:
		return "sending"
	case PhaseStreaming:
		return "streaming"
	case PhaseSettled:
		return "settled"
	}
	return "unknown"
}

// Reconciler merges three sources into one message list: history already
// persisted by the server, an optimistic echo of the message the user just
// sent, and the assistant response accumulating token by token. Once the
// server confirms persistence the ephemeral copies are dropped so a refetch
// never shows a message twice.
//
// Safe for concurrent use; stream callbacks and view reads may race.
type Reconciler struct {
	mu sync.Mutex

	phase     Phase
	chatID    string
	persisted []model.Message

	pending   *model.Message // optimistic user message, nil when none
	streamBuf strings.Builder
	streaming bool

	lastError string
}

// NewReconciler starts in PhaseIdle with no history. chatID may be empty
// when the first send is expected to create the chat.
func NewReconciler(chatID string) *Reconciler {
	return &Reconciler{chatID: chatID}
}

// Phase returns the current lifecycle stage.
func (r *Reconciler) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// ChatID returns the chat this reconciler tracks. It changes when a send
// into an empty chatID creates a new chat.
func (r *Reconciler) ChatID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.chatID
}

// Err returns the last in-stream error message, empty when the last send
// succeeded.
func (r *Reconciler) Err() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastError
}

// SetPersisted replaces the persisted history, dropping any ephemeral
// entries the new history already contains.
func (r *Reconciler) SetPersisted(messages []model.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.persisted = append([]model.Message(nil), messages...)
	r.dedupLocked()
}

// Send records the optimistic user message and moves to PhaseSending. It
// returns false without changing state if a send is already in flight.
func (r *Reconciler) Send(content string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase == PhaseSending || r.phase == PhaseStreaming {
		return false
	}
	r.pending = &model.Message{
		ChatID:  r.chatID,
		Role:    model.RoleUser,
		Content: content,
	}
	r.streamBuf.Reset()
	r.streaming = false
	r.lastError = ""
	r.phase = PhaseSending
	return true
}

// HandleConnected processes the stream-open event.
func (r *Reconciler) HandleConnected(newChatID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if newChatID != "" {
		r.chatID = newChatID
		if r.pending != nil {
			r.pending.ChatID = newChatID
		}
	}
}

// HandleToken appends one token to the streaming assistant message.
func (r *Reconciler) HandleToken(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.streamBuf.WriteString(token)
	r.streaming = true
	r.phase = PhaseStreaming
}

// HandleError records an in-stream failure and settles the send. The error
// text replaces any partial tokens as the visible reply: the server
// persisted the same text as the assistant message, so the next history
// refresh dedups it away cleanly.
func (r *Reconciler) HandleError(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastError = message
	r.streamBuf.Reset()
	r.streamBuf.WriteString(message)
	r.streaming = true
	r.phase = PhaseSettled
}

// HandleDone settles the send. The ephemeral copies stay until
// SetPersisted confirms the server's copy of both messages.
func (r *Reconciler) HandleDone(userMessageID, aiMessageID, newChatID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if newChatID != "" {
		r.chatID = newChatID
	}
	if r.pending != nil {
		r.pending.ID = userMessageID
	}
	r.phase = PhaseSettled
}

// View returns the merged, ordered message list: persisted history, then
// the optimistic user message, then the streaming assistant message.
func (r *Reconciler) View() []model.Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	view := append([]model.Message(nil), r.persisted...)
	if r.pending != nil {
		view = append(view, *r.pending)
	}
	if r.streaming {
		view = append(view, model.Message{
			ChatID:  r.chatID,
			Role:    model.RoleAssistant,
			Content: r.streamBuf.String(),
		})
	}
	return view
}

// dedupLocked drops ephemeral entries the persisted history now covers.
// The pending user message matches on role and content; the streaming
// buffer matches only when the newest persisted assistant message equals
// it exactly, so a partial stream is never hidden by older history.
func (r *Reconciler) dedupLocked() {
	if r.pending != nil {
		for _, msg := range r.persisted {
			if msg.Role == model.RoleUser && msg.Content == r.pending.Content {
				r.pending = nil
				break
			}
		}
	}
	if r.streaming {
		for i := len(r.persisted) - 1; i >= 0; i-- {
			if r.persisted[i].Role != model.RoleAssistant {
				continue
			}
			if r.persisted[i].Content == r.streamBuf.String() {
				r.streamBuf.Reset()
				r.streaming = false
			}
			break
		}
	}
}
