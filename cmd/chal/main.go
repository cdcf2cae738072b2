package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chalbe-cli/chalbe/internal/config"
	"github.com/chalbe-cli/chalbe/internal/executor"
	"github.com/chalbe-cli/chalbe/internal/history"
	"github.com/chalbe-cli/chalbe/internal/provider"
	"github.com/chalbe-cli/chalbe/internal/ui"
)

var (
	// version is set by goreleaser at build time
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app holds the wired collaborators shared by every subcommand. They are
// built once in init, before any command runs.
type app struct {
	logger  *zap.Logger
	gateway *provider.Gateway
	exec    *executor.Executor
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var debug bool

	root := &cobra.Command{
		Use:          "chal",
		Short:        "AI-powered command-line interface for terminal automation",
		Long:         "chal translates natural language into shell commands and adds AI advice to everyday terminal tasks",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(debug)
		},
	}
	root.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	root.AddCommand(
		newConfigCmd(a),
		newListCmd(a),
		newFindCmd(a),
		newAskCmd(a),
		newShowCmd(a),
		newPsAuxCmd(a),
		newNikalCmd(a),
		newPerfixCmd(a),
		newInstallCmd(a),
		newRunCmd(a),
		newNetCmd(a),
		newEnvHintCmd(a),
		newGitCmd(a),
		newSysInfoCmd(a),
		newZipCmd(a),
		newScheduleCmd(a),
		newSudoCmd(a),
		newHistoryCmd(a),
		newTouchCmd(),
		newDeleteCmd(a),
		newCopyCmd(a),
		newMoveCmd(a),
	)
	return root
}

// init performs the one-time process setup: config directory, logger,
// provider table (with catalog overrides), executor.
func (a *app) init(debug bool) error {
	if err := config.Init(); err != nil {
		return err
	}

	a.logger = newLogger(debug)
	a.gateway = provider.NewGateway(provider.WithLogger(a.logger))

	catalog, err := config.LoadCatalog()
	if err != nil {
		a.logger.Warn("ignoring model catalog", zap.Error(err))
	} else {
		for name, models := range catalog {
			a.gateway.ExtendModels(name, models)
		}
	}

	a.exec = executor.New(executor.WithLogger(a.logger))
	return nil
}

func newLogger(debug bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// requireSettings loads the configured provider selection, failing the
// command when it is incomplete.
func (a *app) requireSettings() (*config.Settings, error) {
	s, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if !s.Complete() {
		return nil, errors.New("Missing configuration. Run 'chal config' to set up your AI provider and API key.")
	}
	return s, nil
}

// generate issues one prompt round trip with the configured provider.
func (a *app) generate(ctx context.Context, s *config.Settings, prompt string) (string, error) {
	return a.gateway.Generate(ctx, s.Provider, s.APIKey, s.Model, prompt)
}

// recordHistory saves a request/command pair. History failures are
// warnings, never command failures.
func (a *app) recordHistory(request, command string, executed bool) {
	path, err := config.HistoryPath()
	if err != nil {
		a.logger.Warn("failed to resolve history path", zap.Error(err))
		return
	}
	store, err := history.Open(path)
	if err != nil {
		a.logger.Warn("failed to open history", zap.Error(err))
		return
	}
	defer store.Close()

	if err := store.Add(request, command, executed); err != nil {
		a.logger.Warn("failed to save history", zap.Error(err))
	}
}

// aborted reports whether a result is the user-declined sentinel.
func aborted(res executor.Result) bool {
	return res.Status == 0 && res.Stdout == "" && res.Stderr == "Aborted by user"
}

// clip truncates text before it is handed to a prompt template.
func clip(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Configure chal with your AI provider and API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			providerName, err := ui.Select("Provider", a.gateway.Providers())
			if err != nil {
				return fmt.Errorf("error saving configuration: %w", err)
			}
			models, err := a.gateway.Models(providerName)
			if err != nil {
				return fmt.Errorf("error saving configuration: %w", err)
			}
			model, err := ui.Select("Model", models)
			if err != nil {
				return fmt.Errorf("error saving configuration: %w", err)
			}
			apiKey, err := ui.Password("API key")
			if err != nil {
				return fmt.Errorf("error saving configuration: %w", err)
			}

			settings := &config.Settings{Provider: providerName, Model: model, APIKey: apiKey}
			if err := config.Save(settings); err != nil {
				return fmt.Errorf("error saving configuration: %w", err)
			}
			fmt.Println("Configuration saved successfully.")
			return nil
		},
	}
}

func newHistoryCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently generated commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.HistoryPath()
			if err != nil {
				return err
			}
			store, err := history.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open history: %w", err)
			}
			defer store.Close()

			entries, err := store.Recent(limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				ui.ShowInfo("No history yet.")
				return nil
			}

			ui.ShowSection("Recent commands")
			for _, e := range entries {
				marker := " "
				if e.Executed {
					marker = "*"
				}
				fmt.Printf("%s %s  %q\n    %s\n",
					marker, e.Timestamp.Format("2006-01-02 15:04"), e.Request, e.Command)
			}
			fmt.Println(strings.Repeat("-", 40))
			fmt.Println("* = executed")
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show")
	return cmd
}
