package drchrono

import (
	"context"
	"errors"
	"strings"
)

// ErrNoToken is returned when no access token has been configured, i.e. the
// kiosk has not been signed in yet.
var ErrNoToken = errors.New("drchrono: no access token configured")

// TokenProvider supplies the OAuth bearer token for API requests. It is
// injected into the client so callers decide where credentials live.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

// StaticTokenProvider serves a fixed token, typically sourced from the
// environment at startup.
type StaticTokenProvider struct {
	token string
}

// NewStaticTokenProvider wraps a pre-issued access token.
func NewStaticTokenProvider(token string) *StaticTokenProvider {
	return &StaticTokenProvider{token: strings.TrimSpace(token)}
}

// AccessToken returns the configured token or ErrNoToken when empty.
func (p *StaticTokenProvider) AccessToken(ctx context.Context) (string, error) {
	if p == nil || p.token == "" {
		return "", ErrNoToken
	}
	return p.token, nil
}
