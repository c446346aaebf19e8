package llm

import "context"

// Fragment is one incremental piece of generated text.
type Fragment struct {
	Text string
}

// Provider is the single interface the rest of the application sees for
// text completion, regardless of which upstream family serves the model.
//
// StreamCompletion writes fragments to ch in the order the upstream
// produces them and closes ch when the sequence is exhausted; the stream
// is finite and not restartable. Any failure (missing credential, network
// error, malformed response) is reported through the returned error as a
// single value. Providers never retry; retry policy belongs to the caller,
// and the caller's policy here is: none.
//
// Complete is the non-streaming variant used for short utility requests
// such as title generation.
type Provider interface {
	Complete(ctx context.Context, model, prompt string) (string, error)
	StreamCompletion(ctx context.Context, model, system, user string, ch chan<- Fragment) error
}
