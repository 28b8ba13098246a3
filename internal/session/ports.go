package session

import (
	"context"
	"errors"
)

var ErrEmptyToken = errors.New("session: empty access token")

// Store persists a single value (the access token, or its owner id) under
// one durable key.
// Load returns "" with a nil error when nothing is stored.
type Store interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}
