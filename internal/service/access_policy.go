package service

import (
	"fmt"

	app_errors "nusachat/backend/internal/errors"
)

// AccessPolicy decides whether a caller may use a model, and which model a
// request without one resolves to. It is a pure function over static
// configuration plus the caller identity; it has no side effects.
type AccessPolicy struct {
	free           map[string]struct{}
	defaultFree    string
	defaultPremium string
}

func NewAccessPolicy(freeModels []string, defaultFree, defaultPremium string) *AccessPolicy {
	free := make(map[string]struct{}, len(freeModels))
	for _, m := range freeModels {
		free[m] = struct{}{}
	}
	return &AccessPolicy{
		free:           free,
		defaultFree:    defaultFree,
		defaultPremium: defaultPremium,
	}
}

// Authorize resolves the effective model for a request and checks the
// caller may use it. A nil callerID is a guest; guests default to the free
// model and are denied anything outside the free set.
func (p *AccessPolicy) Authorize(callerID *string, requestedModel string) (string, error) {
	effective := requestedModel
	if effective == "" {
		if callerID != nil {
			effective = p.defaultPremium
		} else {
			effective = p.defaultFree
		}
	}

	if callerID == nil {
		if _, ok := p.free[effective]; !ok {
			return "", fmt.Errorf("%w: you must be signed in to use this model", app_errors.ErrPermission)
		}
	}
	return effective, nil
}
