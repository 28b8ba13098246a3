package root

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/Vovarama1992/messenger-broadcast/internal/config"
	"github.com/Vovarama1992/messenger-broadcast/internal/identity"
	"github.com/Vovarama1992/messenger-broadcast/internal/logger"
	"github.com/Vovarama1992/messenger-broadcast/internal/session"
)

// openSessions returns a session manager over the configured durable
// backend and a func that releases whatever it holds open.
func openSessions(ctx context.Context, cfg *config.Config) (*session.Manager, func(), error) {
	tokens, owners, closeStores, err := openSessionStores(ctx, cfg)
	if err != nil {
		return nil, closeStores, err
	}
	return session.NewManager(tokens, owners), closeStores, nil
}

// openSessionStores returns the token store and the owner store for the
// configured backend. Both live side by side under SESSION_KEY and its
// owner key.
func openSessionStores(ctx context.Context, cfg *config.Config) (session.Store, session.Store, func(), error) {
	noop := func() {}
	key, ownerKey := cfg.Session.Key, cfg.Session.OwnerKey()

	switch cfg.Session.Backend {
	case config.BackendMemory:
		logger.Warn("using in-memory session store, login will not survive a restart")
		return session.NewMemoryStore(), session.NewMemoryStore(), noop, nil

	case config.BackendPostgres:
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, noop, fmt.Errorf("db open: %w", err)
		}

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			db.Close()
			return nil, nil, noop, fmt.Errorf("db ping: %w", err)
		}

		tokens, err := session.NewPostgresStore(ctx, db, key)
		if err != nil {
			db.Close()
			return nil, nil, noop, err
		}
		owners, err := session.NewPostgresStore(ctx, db, ownerKey)
		if err != nil {
			db.Close()
			return nil, nil, noop, err
		}
		logger.Info("using postgres session store")
		return tokens, owners, func() { db.Close() }, nil

	default:
		tokens, err := session.NewFileStore(cfg.Session.Dir, key)
		if err != nil {
			return nil, nil, noop, err
		}
		owners, err := session.NewFileStore(cfg.Session.Dir, ownerKey)
		if err != nil {
			return nil, nil, noop, err
		}
		logger.Info("using file session store", zap.String("path", tokens.Path()))
		return tokens, owners, noop, nil
	}
}

func newProvider(cfg *config.Config) *identity.Facebook {
	return identity.NewFacebook(identity.FacebookOptions{
		AppID:          cfg.Facebook.AppID,
		AppSecret:      cfg.Facebook.AppSecret,
		APIVersion:     cfg.Facebook.APIVersion,
		RedirectURL:    cfg.Facebook.RedirectURL,
		Scopes:         cfg.Facebook.Scopes,
		RevokeOnLogout: cfg.Facebook.RevokeOnLogout,
	})
}
