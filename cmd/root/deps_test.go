package root

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Vovarama1992/messenger-broadcast/internal/config"
	"github.com/Vovarama1992/messenger-broadcast/internal/session"
)

func TestOpenSessionStoresMemory(t *testing.T) {
	c := &config.Config{Session: config.SessionConfig{Backend: config.BackendMemory, Key: "fb_access_token"}}

	tokens, owners, closeStores, err := openSessionStores(context.Background(), c)
	if err != nil {
		t.Fatalf("openSessionStores failed: %v", err)
	}
	defer closeStores()

	if _, ok := tokens.(*session.MemoryStore); !ok {
		t.Fatalf("expected memory token store, got %T", tokens)
	}
	if owners == tokens {
		t.Fatal("expected separate owner store")
	}
}

func TestOpenSessionStoresFile(t *testing.T) {
	dir := t.TempDir()
	c := &config.Config{Session: config.SessionConfig{Backend: config.BackendFile, Dir: dir, Key: "fb_access_token"}}

	tokens, owners, closeStores, err := openSessionStores(context.Background(), c)
	if err != nil {
		t.Fatalf("openSessionStores failed: %v", err)
	}
	defer closeStores()

	tfs, ok := tokens.(*session.FileStore)
	if !ok {
		t.Fatalf("expected file store, got %T", tokens)
	}
	if tfs.Path() != filepath.Join(dir, "fb_access_token") {
		t.Fatalf("unexpected token path %s", tfs.Path())
	}
	ofs, ok := owners.(*session.FileStore)
	if !ok || ofs.Path() != filepath.Join(dir, "fb_access_token_owner") {
		t.Fatalf("unexpected owner store %T", owners)
	}
}

func TestOpenSessionsLogoutClearsBoth(t *testing.T) {
	dir := t.TempDir()
	c := &config.Config{Session: config.SessionConfig{Backend: config.BackendFile, Dir: dir, Key: "fb_access_token"}}
	ctx := context.Background()

	sessions, closeSessions, err := openSessions(ctx, c)
	if err != nil {
		t.Fatalf("openSessions failed: %v", err)
	}
	defer closeSessions()

	if _, err := sessions.Set(ctx, "EAAB-token"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := sessions.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	for _, name := range []string{"fb_access_token", "fb_access_token_owner"} {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Fatalf("expected %s removed, got %v", name, err)
		}
	}
}

func TestNewProviderUsesConfig(t *testing.T) {
	c := &config.Config{Facebook: config.FacebookConfig{
		AppID:       "1022102683426026",
		APIVersion:  "v20.0",
		RedirectURL: "http://localhost:8080/auth/callback",
		Scopes:      []string{"pages_messaging", "pages_show_list"},
	}}

	fb := newProvider(c)
	if err := fb.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if _, err := fb.LoginURL("state"); err != nil {
		t.Fatalf("LoginURL failed: %v", err)
	}
}
