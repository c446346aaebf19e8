package api

import (
	"context"
	"net/http"
)

// Caller identity resolution is an external concern: an upstream gateway
// authenticates the user and forwards an opaque identity in this header.
// An absent header means a guest.
const userIDHeader = "X-User-ID"

type contextKey string

const callerIDKey contextKey = "callerID"

// Identity is middleware that lifts the forwarded identity, if any, into
// the request context.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get(userIDHeader); id != "" {
			r = r.WithContext(context.WithValue(r.Context(), callerIDKey, id))
		}
		next.ServeHTTP(w, r)
	})
}

// CallerID returns the caller identity from the context, or nil for guests.
func CallerID(ctx context.Context) *string {
	if id, ok := ctx.Value(callerIDKey).(string); ok {
		return &id
	}
	return nil
}
