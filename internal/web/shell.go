package web

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Vovarama1992/messenger-broadcast/internal/broadcast"
	"github.com/Vovarama1992/messenger-broadcast/internal/identity"
	"github.com/Vovarama1992/messenger-broadcast/internal/logger"
	"github.com/Vovarama1992/messenger-broadcast/internal/session"
)

// Shell is the top-level state: it owns the session token and decides
// which of the two screens the operator sees.
type Shell struct {
	provider  identity.Provider
	sessions  *session.Manager
	workspace *broadcast.Workspace
}

func NewShell(provider identity.Provider, sessions *session.Manager, workspace *broadcast.Workspace) *Shell {
	return &Shell{
		provider:  provider,
		sessions:  sessions,
		workspace: workspace,
	}
}

// Start initializes the identity provider and restores a stored token.
func (s *Shell) Start(ctx context.Context) error {
	if err := s.provider.Init(ctx); err != nil {
		return fmt.Errorf("init identity provider: %w", err)
	}
	token, err := s.sessions.Restore(ctx)
	if err != nil {
		return err
	}
	logger.Info("shell started", zap.Bool("authenticated", token != ""))
	return nil
}

func (s *Shell) Authenticated() bool {
	return s.sessions.Authenticated()
}

// Authorized reports whether browserID owns the current session.
func (s *Shell) Authorized(browserID string) bool {
	return s.sessions.Owns(browserID)
}

func (s *Shell) Token() string {
	return s.sessions.Token()
}

func (s *Shell) Workspace() *broadcast.Workspace {
	return s.workspace
}

func (s *Shell) LoginURL(state string) (string, error) {
	return s.provider.LoginURL(state)
}

// CompleteLogin exchanges the code and persists the token. It returns the
// browser id that now owns the session. Nothing changes on failure.
func (s *Shell) CompleteLogin(ctx context.Context, code string) (string, error) {
	res, err := s.provider.Login(ctx, code)
	if err != nil {
		return "", err
	}
	browserID, err := s.sessions.Set(ctx, res.AccessToken)
	if err != nil {
		return "", err
	}
	s.workspace.Reset()

	logger.Info("operator logged in", zap.Time("expiry", res.Expiry))
	return browserID, nil
}

// LoginStatus reports what the provider thinks of the current token.
func (s *Shell) LoginStatus(ctx context.Context) (identity.LoginStatus, error) {
	return s.provider.LoginStatus(ctx, s.sessions.Token())
}

// Logout always ends in the unauthenticated state. A provider failure is
// only logged; a store failure is returned after memory is cleared.
func (s *Shell) Logout(ctx context.Context) error {
	token := s.sessions.Token()
	if err := s.provider.Logout(ctx, token); err != nil {
		logger.Warn("provider logout failed", zap.Error(err))
	}

	s.workspace.Reset()
	if err := s.sessions.Clear(ctx); err != nil {
		return err
	}

	logger.Info("operator logged out")
	return nil
}
