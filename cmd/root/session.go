package root

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Vovarama1992/messenger-broadcast/internal/identity"
	"github.com/Vovarama1992/messenger-broadcast/internal/logger"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a Facebook login is stored and still valid",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		sessions, closeSessions, err := openSessions(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeSessions()

		token, err := sessions.Restore(ctx)
		if err != nil {
			return err
		}
		if token == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "not logged in")
			return nil
		}

		provider := newProvider(cfg)
		if err := provider.Init(ctx); err != nil {
			return err
		}

		status, err := provider.LoginStatus(ctx, token)
		if err != nil {
			status = identity.StatusUnknown
		}
		fmt.Fprintf(cmd.OutOrStdout(), "logged in (provider status: %s)\n", status)
		return err
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored Facebook login",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		sessions, closeSessions, err := openSessions(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeSessions()

		token, err := sessions.Restore(ctx)
		if err != nil {
			return err
		}

		provider := newProvider(cfg)
		if err := provider.Init(ctx); err != nil {
			logger.Warn("identity provider init failed, skipping provider logout", zap.Error(err))
		} else if err := provider.Logout(ctx, token); err != nil {
			logger.Warn("provider logout failed", zap.Error(err))
		}

		if err := sessions.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "logged out")
		return nil
	},
}
