package root

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Vovarama1992/messenger-broadcast/internal/config"
	"github.com/Vovarama1992/messenger-broadcast/internal/logger"
)

func TestLogoutCommandLogsProviderFailure(t *testing.T) {
	prev := cfg
	t.Cleanup(func() {
		cfg = prev
		logger.Init(zapcore.NewNopCore())
	})

	core, logs := observer.New(zapcore.WarnLevel)
	logger.Init(core)

	// No app id, so the provider cannot initialize.
	cfg = &config.Config{Session: config.SessionConfig{Backend: config.BackendMemory, Key: "fb_access_token"}}

	var out bytes.Buffer
	logoutCmd.SetOut(&out)
	logoutCmd.SetContext(context.Background())

	if err := logoutCmd.RunE(logoutCmd, nil); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if !strings.Contains(out.String(), "logged out") {
		t.Fatalf("unexpected output %q", out.String())
	}
	if logs.FilterMessageSnippet("identity provider init failed").Len() != 1 {
		t.Fatalf("expected provider failure logged, got %+v", logs.All())
	}
}
