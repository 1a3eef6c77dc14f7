// Package main is the entry point for the solace CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/solacelabs/solace/internal/chat"
	"github.com/solacelabs/solace/internal/config"
	"github.com/solacelabs/solace/internal/crisis"
	"github.com/solacelabs/solace/internal/cron"
	"github.com/solacelabs/solace/internal/memory"
	"github.com/solacelabs/solace/internal/prompt"
	"github.com/solacelabs/solace/internal/recall"
	"github.com/solacelabs/solace/modules/provider/deepseek"
	"github.com/solacelabs/solace/modules/store/sqlite"
)

// Set by goreleaser ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "solace",
		Short:         "A wellness companion that remembers your conversations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(versionCmd(), chatCmd(), configCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("solace %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check <path>",
		Short: "Validate configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}
			fmt.Println("Configuration is valid.")
			return nil
		},
	})
	return cmd
}

func chatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}
			return runChat(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringP("config", "c", "solace.yaml", "Path to configuration file")
	return cmd
}

// runChat wires the full stack from config and hands off to the REPL.
func runChat(ctx context.Context, cfg *config.Config) error {
	logger := newLogger(cfg.Logging)

	modelProvider, err := deepseek.New(deepseek.Config{
		APIKey:  cfg.Provider.APIKey,
		BaseURL: cfg.Provider.BaseURL,
		Model:   cfg.Provider.Model,
		Timeout: cfg.Provider.Timeout.Std(),
	})
	if err != nil {
		return err
	}

	sessions := memory.NewInMemorySessionStore(memory.Config{
		MaxRecentTurns:     cfg.Memory.MaxRecentTurns,
		SummarizeThreshold: cfg.Memory.SummarizeThreshold,
		KeepOnSummarize:    cfg.Memory.KeepOnSummarize,
		MaxSummaries:       cfg.Memory.MaxSummaries,
	})

	var (
		facts     recall.FactStore
		journal   recall.JournalStore
		snapshots *sqlite.SnapshotStore
	)
	if cfg.Store.Driver == "sqlite" {
		store, err := sqlite.Open(sqlite.Config{
			Path:     cfg.Store.Path,
			MaxFacts: cfg.Store.MaxFacts,
		})
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		facts = store.Facts()
		journal = store.Journal()
		snapshots = store.Snapshots()
		logger.Info("persistent store opened", "path", cfg.Store.Path)
	} else {
		facts = recall.NewInMemoryFactStore(cfg.Store.MaxFacts)
		journal = recall.NewInMemoryJournalStore()
	}

	var detector crisis.Detector = crisis.NewKeywordDetector(cfg.Crisis.Keywords)
	if cfg.Crisis.Disabled {
		detector = crisis.NopDetector{}
	}

	orchestrator, err := chat.New(chat.Options{
		Sessions:  sessions,
		Provider:  modelProvider,
		Facts:     facts,
		Journal:   journal,
		Detector:  detector,
		Extractor: recall.NewLLMExtractor(modelProvider),
		Config: chat.Config{
			ChatTemperature:    cfg.Chat.Temperature,
			MaxTokens:          cfg.Chat.MaxTokens,
			SummaryTemperature: cfg.Chat.SummaryTemperature,
			SummaryMaxTokens:   cfg.Chat.SummaryMaxTokens,
			FactLimit:          cfg.Chat.FactLimit,
			JournalEntries:     cfg.Chat.JournalEntries,
			ExtractEvery:       cfg.Chat.ExtractEvery,
		},
		Logger: logger,
	})
	if err != nil {
		return err
	}

	scheduler := cron.NewScheduler(logger)
	maxIdle := cfg.Sessions.MaxIdle.Std()
	if maxIdle > 0 {
		if err := scheduler.RegisterJob(&cron.SessionCleanupJob{
			Store:        sessions,
			MaxIdle:      maxIdle,
			Logger:       logger,
			ScheduleExpr: cfg.Sessions.PruneSchedule,
		}); err != nil {
			return err
		}
	}
	if snapshots != nil {
		if err := scheduler.RegisterJob(&cron.SnapshotJob{
			Sessions: sessions,
			Writer:   snapshots,
			Logger:   logger,
		}); err != nil {
			return err
		}
	}
	if err := scheduler.Start(); err != nil {
		return err
	}
	defer func() { _ = scheduler.Stop(context.Background()) }()

	repl := &repl{
		orchestrator: orchestrator,
		journal:      journal,
		facts:        facts,
		snapshots:    snapshots,
		persona:      personaFromConfig(cfg.Persona),
		tone:         prompt.Tone(cfg.Persona.Tone),
		logger:       logger,
	}
	return repl.run(ctx)
}

func personaFromConfig(pc config.PersonaConfig) *prompt.Persona {
	if pc.Name == "" && pc.Personality == "" {
		return nil
	}
	return &prompt.Persona{Name: pc.Name, Personality: pc.Personality}
}

func newLogger(lc config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch lc.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if lc.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
