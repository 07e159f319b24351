package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/asi-incubator/intake-cli/internal/analyzer"
	"github.com/asi-incubator/intake-cli/internal/extract"
	"github.com/asi-incubator/intake-cli/internal/mailer"
	"github.com/asi-incubator/intake-cli/internal/pipeline"
	"github.com/asi-incubator/intake-cli/internal/report"
	"github.com/asi-incubator/intake-cli/internal/store"
	"github.com/asi-incubator/intake-cli/pkg/ollama"
)

// intakeEnv holds the initialized store, clients and pipeline shared by
// the process/batch/serve/emails commands.
type intakeEnv struct {
	Store    store.Store
	Pipeline *pipeline.Pipeline
	Mailer   *mailer.Mailer
	Reports  *report.Generator
}

// Close releases resources held by the environment.
func (e *intakeEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initEnv validates config for the given mode, opens the store and
// wires the pipeline. Callers should defer env.Close().
func initEnv(ctx context.Context, mode string) (*intakeEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	engineCfg := analyzer.DefaultConfig()
	if cfg.Analyzer.GenericFactor > 0 {
		engineCfg.GenericFactor = cfg.Analyzer.GenericFactor
	}
	if err := analyzer.ValidateConfig(engineCfg); err != nil {
		_ = st.Close()
		return nil, err
	}
	engine := analyzer.NewEngine(engineCfg)

	var llm ollama.Client
	if cfg.Ollama.Enabled {
		opts := []ollama.Option{ollama.WithBaseURL(cfg.Ollama.BaseURL)}
		if cfg.Ollama.Model != "" {
			opts = append(opts, ollama.WithModel(cfg.Ollama.Model))
		}
		llm = ollama.NewClient(opts...)
	} else {
		zap.L().Debug("local model analysis disabled, rule-based engine only")
	}

	m, err := mailer.New(cfg.SMTP, cfg.Email)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	reports := report.NewGenerator(cfg.Report.Dir)
	extractor := extract.New(cfg.Extract)

	return &intakeEnv{
		Store:    st,
		Pipeline: pipeline.New(cfg, st, extractor, engine, llm, reports),
		Mailer:   m,
		Reports:  reports,
	}, nil
}
