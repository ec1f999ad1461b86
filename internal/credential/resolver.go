// Package credential resolves the API key used for image generation.
//
// The injected environment key always wins. Otherwise the client's own key is
// used, then the operator key from settings. After the generator rejects a
// persisted key the identity must enter a new one; until then persisted keys
// are ignored for it.
package credential

import (
	"context"
	"fmt"
	"strings"
)

func NewResolver(injected func() string, operator OperatorKeys) *Resolver {
	if injected == nil {
		injected = func() string { return "" }
	}

	return &Resolver{
		injected: injected,
		operator: operator,
		reentry:  make(map[string]bool),
	}
}

// clientKey is the key stored with the caller, if any
func (r *Resolver) Resolve(ctx context.Context, identity, clientKey string) (Credential, error) {
	if key := strings.TrimSpace(r.injected()); key != "" {
		return Credential{Key: key, Source: SourceInjected}, nil
	}

	if r.ReentryRequired(identity) {
		return Credential{}, ErrMissingCredential
	}

	if key := strings.TrimSpace(clientKey); key != "" {
		return Credential{Key: key, Source: SourceClient}, nil
	}

	if r.operator != nil {
		s, err := r.operator.Get(ctx)
		if err != nil {
			return Credential{}, fmt.Errorf("failed to load operator key: %w", err)
		}

		if key := strings.TrimSpace(s.APIKey); key != "" {
			return Credential{Key: key, Source: SourceOperator}, nil
		}
	}

	return Credential{}, ErrMissingCredential
}

// records that the generator rejected a persisted key
func (r *Resolver) MarkInvalid(identity string, cred Credential) {
	if cred.Source == SourceInjected {
		return
	}

	r.mu.Lock()
	r.reentry[identity] = true
	r.mu.Unlock()
}

func (r *Resolver) ReentryRequired(identity string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.reentry[identity]
}

// the identity saved a new client key
func (r *Resolver) KeySaved(identity string) {
	r.mu.Lock()
	delete(r.reentry, identity)
	r.mu.Unlock()
}

// the operator key changed; every identity may try again
func (r *Resolver) OperatorKeySaved() {
	r.mu.Lock()
	r.reentry = make(map[string]bool)
	r.mu.Unlock()
}
