// Package pipeline orchestrates the intake flow: extraction, analysis,
// persistence, report generation and notification queuing.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/asi-incubator/intake-cli/internal/analyzer"
	"github.com/asi-incubator/intake-cli/internal/config"
	"github.com/asi-incubator/intake-cli/internal/extract"
	"github.com/asi-incubator/intake-cli/internal/model"
	"github.com/asi-incubator/intake-cli/internal/store"
)

// LLMClient is the slice of the Ollama client the pipeline needs.
type LLMClient interface {
	Available(ctx context.Context) bool
	Generate(ctx context.Context, prompt string) (string, error)
}

// ReportGenerator renders the analysis into a PDF file.
type ReportGenerator interface {
	Generate(c *model.Candidature, res *model.AnalysisResult) (string, error)
}

// Submission is one business plan handed to the pipeline.
type Submission struct {
	BusinessName string
	ContactName  string
	ContactEmail string
	PDFPath      string
	Notes        string
}

// Outcome reports what the pipeline produced for one submission.
type Outcome struct {
	Candidature *model.Candidature
	Analysis    *model.AnalysisResult
	ReportPath  string
	EmailQueued bool
}

// Pipeline processes submissions end to end.
type Pipeline struct {
	cfg       *config.Config
	store     store.Store
	extractor extract.Extractor
	engine    *analyzer.Engine
	llm       LLMClient
	reports   ReportGenerator
}

// New creates a Pipeline. llm may be nil when the local model path is
// disabled.
func New(cfg *config.Config, st store.Store, ex extract.Extractor, engine *analyzer.Engine, llm LLMClient, reports ReportGenerator) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		store:     st,
		extractor: ex,
		engine:    engine,
		llm:       llm,
		reports:   reports,
	}
}

// Process runs one submission through the whole intake flow. A failed
// extraction marks the candidature failed and returns the error; every
// later stage degrades instead of failing the run.
func (p *Pipeline) Process(ctx context.Context, sub Submission) (*Outcome, error) {
	log := zap.L().With(zap.String("business", sub.BusinessName), zap.String("pdf", sub.PDFPath))
	log.Info("pipeline: processing submission")

	cand, err := p.store.CreateCandidature(ctx, model.Candidature{
		BusinessName: sub.BusinessName,
		ContactName:  sub.ContactName,
		ContactEmail: sub.ContactEmail,
		PDFPath:      sub.PDFPath,
		Notes:        sub.Notes,
	})
	if err != nil {
		return nil, err
	}
	log = log.With(zap.String("candidature_id", cand.ID))

	ext, err := p.extractor.Extract(ctx, sub.PDFPath)
	if err != nil {
		if serr := p.store.UpdateStatus(ctx, cand.ID, model.StatusFailed, "extraction failed"); serr != nil {
			log.Warn("pipeline: mark failed", zap.Error(serr))
		}
		return nil, eris.Wrapf(err, "pipeline: extract %s", sub.PDFPath)
	}
	if err := p.store.SaveExtraction(ctx, cand.ID, ext); err != nil {
		return nil, err
	}

	analysis := p.analyze(ctx, ext.Text, log)
	if err := p.store.SaveAnalysis(ctx, cand.ID, analysis); err != nil {
		return nil, err
	}
	if err := p.store.UpdateStatus(ctx, cand.ID, model.StatusAnalyzed,
		analysis.Summary); err != nil {
		return nil, err
	}
	cand.Status = model.StatusAnalyzed

	outcome := &Outcome{Candidature: cand, Analysis: analysis}

	reportPath, err := p.reports.Generate(cand, analysis)
	if err != nil {
		// The analysis stands on its own; a missing report is not fatal.
		log.Warn("pipeline: report generation failed", zap.Error(err))
	} else {
		outcome.ReportPath = reportPath
		cand.ReportPath = reportPath
		if err := p.store.SetReportPath(ctx, cand.ID, reportPath); err != nil {
			return nil, err
		}
	}

	if sub.ContactEmail != "" {
		if _, err := p.store.EnqueueEmail(ctx, cand.ID, sub.ContactEmail); err != nil {
			log.Warn("pipeline: enqueue email failed", zap.Error(err))
		} else {
			outcome.EmailQueued = true
		}
	}

	log.Info("pipeline: submission processed",
		zap.Float64("score", analysis.TotalScore),
		zap.Bool("eligible", analysis.IsEligible),
		zap.String("method", analysis.AnalysisMethod))
	return outcome, nil
}

// analyze prefers the local model when it is enabled and reachable, and
// falls back to the rule-based engine on any failure.
func (p *Pipeline) analyze(ctx context.Context, text string, log *zap.Logger) *model.AnalysisResult {
	if p.cfg.Ollama.Enabled && p.llm != nil && p.llm.Available(ctx) {
		if res, err := p.analyzeWithLLM(ctx, text); err == nil {
			return res
		} else {
			log.Warn("pipeline: local model analysis failed, using rule-based engine", zap.Error(err))
		}
	}
	return p.engine.Evaluate(text)
}

func (p *Pipeline) analyzeWithLLM(ctx context.Context, text string) (*model.AnalysisResult, error) {
	timeout := time.Duration(p.cfg.Ollama.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 200 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	prompt := analyzer.BuildPrompt(p.engine.Grid(), text)
	content, err := p.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return analyzer.ParseResponse(p.engine.Grid(), content, time.Since(start))
}
