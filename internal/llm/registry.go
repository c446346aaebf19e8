package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUnsupportedModel is returned when a model identifier resolves to no
// known provider family.
var ErrUnsupportedModel = errors.New("unsupported model")

// Family identifies one upstream provider family. The set is closed:
// adding a family means adding a constant, a client, and a case in
// ResolveFamily, not scattering string checks through callers.
type Family int

const (
	FamilyUnknown Family = iota
	FamilyOpenAI
	FamilyAnthropic
	FamilyGoogle
)

func (f Family) String() string {
	switch f {
	case FamilyOpenAI:
		return "openai"
	case FamilyAnthropic:
		return "anthropic"
	case FamilyGoogle:
		return "google"
	default:
		return "unknown"
	}
}

// ResolveFamily maps a model identifier to its provider family.
// "chatgpt-5.1" is a product alias served by OpenAI.
func ResolveFamily(model string) (Family, error) {
	switch {
	case strings.HasPrefix(model, "claude"):
		return FamilyAnthropic, nil
	case strings.HasPrefix(model, "gpt"), model == "chatgpt-5.1":
		return FamilyOpenAI, nil
	case strings.HasPrefix(model, "gemini"):
		return FamilyGoogle, nil
	default:
		return FamilyUnknown, fmt.Errorf("%w: %s", ErrUnsupportedModel, model)
	}
}

// Config carries the per-family credentials and endpoint overrides.
// Empty base URLs mean the provider's public endpoint; empty keys are
// tolerated at construction and fail only when the family is called.
type Config struct {
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	AnthropicAPIKey  string
	AnthropicBaseURL string
	GoogleAPIKey     string
	GoogleBaseURL    string
}

// Registry dispatches Provider calls to the family client owning the
// requested model. Families are constructed once at configuration load.
type Registry struct {
	families map[Family]Provider
}

func NewRegistry(cfg Config) *Registry {
	client := &http.Client{}
	return &Registry{
		families: map[Family]Provider{
			FamilyOpenAI:    newOpenAIClient(client, cfg.OpenAIBaseURL, cfg.OpenAIAPIKey),
			FamilyAnthropic: newAnthropicClient(client, cfg.AnthropicBaseURL, cfg.AnthropicAPIKey),
			FamilyGoogle:    newGeminiClient(client, cfg.GoogleBaseURL, cfg.GoogleAPIKey),
		},
	}
}

func (r *Registry) resolve(model string) (Provider, error) {
	family, err := ResolveFamily(model)
	if err != nil {
		return nil, err
	}
	return r.families[family], nil
}

func (r *Registry) Complete(ctx context.Context, model, prompt string) (string, error) {
	p, err := r.resolve(model)
	if err != nil {
		return "", err
	}
	return p.Complete(ctx, model, prompt)
}

func (r *Registry) StreamCompletion(ctx context.Context, model, system, user string, ch chan<- Fragment) error {
	p, err := r.resolve(model)
	if err != nil {
		// The contract is that StreamCompletion owns the channel.
		close(ch)
		return err
	}
	return p.StreamCompletion(ctx, model, system, user, ch)
}
