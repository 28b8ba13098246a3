package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Vovarama1992/messenger-broadcast/internal/logger"
)

// Manager owns the in-memory token and keeps it in step with the durable
// store. The token is non-empty iff the operator is authenticated.
//
// Each login also mints an owner id, kept in a second store beside the
// token. Only the browser presenting that id may act on the session.
type Manager struct {
	mu     sync.RWMutex
	tokens Store
	owners Store
	token  string
	owner  string
}

func NewManager(tokens, owners Store) *Manager {
	return &Manager{tokens: tokens, owners: owners}
}

// Restore loads the stored token and owner into memory and returns the token.
func (m *Manager) Restore(ctx context.Context) (string, error) {
	token, err := m.tokens.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("restore session: %w", err)
	}
	owner, err := m.owners.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("restore session owner: %w", err)
	}

	m.mu.Lock()
	m.token = token
	m.owner = owner
	m.mu.Unlock()

	logger.Debug("session restored",
		zap.Bool("authenticated", token != ""),
		zap.Bool("owned", owner != ""),
	)
	return token, nil
}

func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *Manager) Authenticated() bool {
	return m.Token() != ""
}

// Owns reports whether id is the owner of the current session.
func (m *Manager) Owns(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.token == "" || m.owner == "" || id == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(id), []byte(m.owner)) == 1
}

// Set writes the token and a fresh owner id to durable storage first, then
// memory, so a failed write leaves the operator unauthenticated. It returns
// the new owner id.
func (m *Manager) Set(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrEmptyToken
	}
	owner := uuid.NewString()

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.tokens.Save(ctx, token); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	if err := m.owners.Save(ctx, owner); err != nil {
		if cerr := m.tokens.Clear(ctx); cerr != nil {
			logger.Warn("rollback of saved token failed", zap.Error(cerr))
		}
		return "", fmt.Errorf("save session owner: %w", err)
	}

	m.token = token
	m.owner = owner
	return owner, nil
}

// Clear drops the session from memory unconditionally and removes both
// durable keys. Store errors, if any, are returned after memory is reset.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = ""
	m.owner = ""

	err := errors.Join(m.tokens.Clear(ctx), m.owners.Clear(ctx))
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
