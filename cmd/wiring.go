package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/intervio/internal/config"
	"github.com/abhisek/intervio/internal/evaluator"
	"github.com/abhisek/intervio/internal/feedback"
	"github.com/abhisek/intervio/internal/llm"
	"github.com/abhisek/intervio/internal/logger"
	"github.com/abhisek/intervio/internal/orchestrator"
	"github.com/abhisek/intervio/internal/planner"
	"github.com/abhisek/intervio/internal/store"
)

// runtime holds what every subcommand needs: settings, a logger and the
// database.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
}

// setup loads configuration, builds the logger and opens the store.
// Callers must call close. With logToFile the log goes to intervio.log
// under logs_dir, keeping the terminal free for the TUI.
func setup(cmd *cobra.Command, logToFile bool) (*runtime, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.Options{ConfigFile: cfgFile, Flags: cmd.Flags()})
	if err != nil {
		return nil, err
	}

	lopts := logger.Options{JSON: cfg.Log.JSON, Debug: cfg.Log.Debug}
	if logToFile {
		if err := os.MkdirAll(cfg.LogsDir, 0o755); err != nil {
			return nil, fmt.Errorf("create logs dir: %w", err)
		}
		lopts.Output = filepath.Join(cfg.LogsDir, "intervio.log")
	}
	log, err := logger.New(lopts)
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}

	dbPath, err := resolveDBPath(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.Debug("store opened", zap.String("path", dbPath))

	return &runtime{cfg: cfg, logger: log, store: st}, nil
}

func (r *runtime) close() {
	_ = r.store.Close()
	_ = r.logger.Sync()
}

// resolveDBPath returns the configured path (flag, env or file), then the
// default XDG path.
func resolveDBPath(configured string) (string, error) {
	if configured != "" {
		return configured, store.EnsureDir(configured)
	}
	return store.DefaultDBPath()
}

// newGenerator resolves the LLM provider from the environment. Every call
// is audited into the store. Without a provider the interview still runs,
// on fallback questions and neutral scores.
func (r *runtime) newGenerator(ctx context.Context) *llm.Generator {
	gcfg := llm.DefaultGeneratorConfig()
	if r.cfg.LLM.Timeout > 0 {
		gcfg.Timeout = r.cfg.LLM.Timeout
	}

	provider, pcfg, err := llm.NewProviderFromEnv(ctx, r.store.EventRepo(), r.logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "The interview will use fallback questions.")
		return llm.NewGenerator(llm.NewMockProvider(), gcfg)
	}
	r.logger.Info("llm provider ready",
		zap.String("provider", pcfg.Provider),
		zap.String("model", provider.ModelID()))
	return llm.NewGenerator(provider, gcfg)
}

// newOrchestrator wires the three roles over gen. Sessions are recorded
// to the store.
func (r *runtime) newOrchestrator(gen *llm.Generator) *orchestrator.Orchestrator {
	log := r.logger
	return orchestrator.New(
		evaluator.New(gen, log.Named("evaluator")),
		planner.New(gen, log.Named("planner")),
		feedback.NewSynthesizer(feedback.NewLLMExplainer(gen), log.Named("feedback")),
		log.Named("orchestrator"),
		orchestrator.WithRecorder(orchestrator.NewStoreRecorder(r.store.SessionRepo())),
		orchestrator.WithConfig(orchestrator.Config{
			InterviewerName: r.cfg.Interview.InterviewerName,
			MaxHistory:      r.cfg.Interview.MaxHistory,
		}),
	)
}
