package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"restoplan/internal/adapter/repo"
	"restoplan/internal/domain"
	"restoplan/internal/infra"
	"restoplan/internal/seed"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "platformctl",
		Short:         "Operator tasks for the restaurant platform database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var timeout time.Duration
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", time.Minute, "Deadline for the whole operation")

	rootCmd.AddCommand(resetCmd(&timeout), setPlanCmd(&timeout))
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("platformctl %s (commit: %s, built: %s)\n", version, commit, date)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// connect loads configuration and opens a runner for a single command.
func connect(ctx context.Context, name string) (*infra.SQLRunner, *infra.Config, func(), error) {
	cfg, err := infra.LoadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	logger := infra.NewLogger(cfg.AppEnv, cfg.LogFile).With().Str("cmd", name).Logger()
	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect database: %w", err)
	}
	return infra.NewSQLRunner(pool, logger), cfg, pool.Close, nil
}

func resetCmd(timeout *time.Duration) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset-db",
		Short: "Drop the platform tables and reload the seed script",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to reset without --yes")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), *timeout)
			defer cancel()

			runner, cfg, closeFn, err := connect(ctx, "reset-db")
			if err != nil {
				return err
			}
			defer closeFn()

			script, err := seed.Load(cfg.SeedScriptPath)
			if err != nil {
				return err
			}
			if err := repo.NewMaintenanceRepository(runner).Reset(ctx, script); err != nil {
				return err
			}
			logEvent(runner.Logger).Msg("database reset completed")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the destructive reset")
	return cmd
}

func setPlanCmd(timeout *time.Duration) *cobra.Command {
	var userID, planID int64
	cmd := &cobra.Command{
		Use:   "set-plan",
		Short: "Move a user to another subscription plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID <= 0 || planID <= 0 {
				return errors.New("--user and --plan must be positive ids")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), *timeout)
			defer cancel()

			runner, _, closeFn, err := connect(ctx, "set-plan")
			if err != nil {
				return err
			}
			defer closeFn()

			err = repo.NewUserRepository(runner).UpdatePlan(ctx, userID, planID)
			switch {
			case errors.Is(err, domain.ErrNotFound):
				return fmt.Errorf("user %d not found", userID)
			case errors.Is(err, domain.ErrInvalidReference):
				return fmt.Errorf("plan %d not found", planID)
			case err != nil:
				return err
			}
			fmt.Printf("user %d moved to plan %d\n", userID, planID)
			return nil
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "User id")
	cmd.Flags().Int64Var(&planID, "plan", 0, "Plan id")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("plan")
	return cmd
}

func logEvent(l zerolog.Logger) *zerolog.Event {
	return l.Info().Str("version", version)
}
