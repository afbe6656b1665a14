// Package session resolves who is making a request and whether that
// identity may upload. The identity is resolved once per request by the
// HTTP layer and travels in the request context; every consumer asks the
// same Provider instead of re-fetching it.
package session

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrUnauthenticated = errors.New("sign in required")
	ErrUploadDenied    = errors.New("only admin can upload")
)

// Identity is an authenticated account.
type Identity struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
}

// Provider answers who the current user is.
type Provider interface {
	CurrentUser(ctx context.Context) (Identity, bool)
}

type ctxKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity stored by WithIdentity.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

// ContextProvider reads the identity the HTTP layer put in the context.
type ContextProvider struct{}

func (ContextProvider) CurrentUser(ctx context.Context) (Identity, bool) {
	return FromContext(ctx)
}

// Gate admits a single designated account to the upload entry point.
type Gate struct {
	provider Provider
	uploader string
}

// NewGate creates a gate for uploaderEmail. An empty email admits nobody.
func NewGate(p Provider, uploaderEmail string) *Gate {
	return &Gate{provider: p, uploader: strings.TrimSpace(uploaderEmail)}
}

// Authorize returns nil when the current user is the designated uploader.
func (g *Gate) Authorize(ctx context.Context) error {
	id, ok := g.provider.CurrentUser(ctx)
	if !ok {
		return ErrUnauthenticated
	}
	if g.uploader == "" || !strings.EqualFold(id.Email, g.uploader) {
		return ErrUploadDenied
	}
	return nil
}
