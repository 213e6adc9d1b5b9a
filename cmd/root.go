// Package cmd defines and implements the CLI commands for the aocbud executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/aocbud/internal/app"
	"github.com/JakeFAU/aocbud/internal/classify"
	"github.com/JakeFAU/aocbud/internal/config"
	"github.com/JakeFAU/aocbud/internal/logging"
	"github.com/JakeFAU/aocbud/internal/puzzle"
)

var cfgFile string

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// Client is the subset of the session facade the commands use.
type Client interface {
	Today() puzzle.Ref
	FetchInput(ctx context.Context, ref *puzzle.Ref) (classify.Outcome, error)
	FetchExampleInput(ctx context.Context, ref *puzzle.Ref) (classify.Outcome, error)
	FetchDescription(ctx context.Context, ref *puzzle.Ref) (classify.Outcome, error)
	Submit(ctx context.Context, ref *puzzle.Ref, level puzzle.Level, answer string) (classify.Outcome, error)
	History(ctx context.Context, ref *puzzle.Ref) ([]puzzle.Submission, error)
}

// App defines the application interface that commands will use.
// Tests inject a fake through newApp.
type App interface {
	Close()
	GetLogger() *zap.Logger
	GetClient() Client
}

type appAdapter struct{ *app.App }

func (a appAdapter) GetClient() Client { return a.GetSession() }

// newApp is the application factory; tests replace it.
var newApp = func(ctx context.Context, configPath string) (App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Logging.Development, cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	a, err := app.NewApp(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return appAdapter{App: a}, nil
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aocbud",
		Short: "Fetch Advent of Code inputs and submit answers from the terminal.",
		Long: `aocbud downloads puzzle inputs and example inputs, caching them on disk so
each is fetched at most once, and submits answers for either part of a puzzle.
The session token is read from AOC_SESSION, a .env file or the config file.`,
		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := newApp(cmd.Context(), cfgFile)
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}
			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cmd.SetContext(ctx)
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(App); ok && appInstance != nil {
				appInstance.Close()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")

	cmd.AddCommand(
		newInputCmd(),
		newExampleCmd(),
		newDescribeCmd(),
		newSubmitCmd(),
		newHistoryCmd(),
	)
	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		logger, lerr := logging.New(true, "")
		if lerr != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		logger.Fatal("Command execution failed", zap.Error(err))
	}
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}
