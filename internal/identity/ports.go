package identity

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotInitialized = errors.New("identity: provider is not initialized")
	ErrLoginCancelled = errors.New("identity: login cancelled or not authorized")
	ErrStateMismatch  = errors.New("identity: login state mismatch")
	ErrMissingCode    = errors.New("identity: authorization code is missing")
)

type LoginStatus string

const (
	StatusConnected     LoginStatus = "connected"
	StatusNotAuthorized LoginStatus = "not_authorized"
	StatusUnknown       LoginStatus = "unknown"
)

type LoginResult struct {
	AccessToken string
	Expiry      time.Time
}

// Provider is the identity capability the shell depends on. Login is split
// in two because the handshake leaves the process: LoginURL sends the
// operator to the provider's dialog, Login completes it with the returned
// authorization code.
type Provider interface {
	Init(ctx context.Context) error
	LoginURL(state string) (string, error)
	Login(ctx context.Context, code string) (LoginResult, error)
	LoginStatus(ctx context.Context, accessToken string) (LoginStatus, error)
	Logout(ctx context.Context, accessToken string) error
}
