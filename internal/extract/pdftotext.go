package extract

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/asi-incubator/intake-cli/internal/model"
)

const defaultTimeoutSecs = 60

// PdfToText extracts text from PDFs using the pdftotext CLI tool.
type PdfToText struct {
	binPath string
	timeout time.Duration
}

// NewPdfToText creates a PdfToText extractor. If binPath is empty, "pdftotext" is used.
func NewPdfToText(binPath string, timeoutSecs int) *PdfToText {
	if binPath == "" {
		binPath = "pdftotext"
	}
	if timeoutSecs <= 0 {
		timeoutSecs = defaultTimeoutSecs
	}
	return &PdfToText{binPath: binPath, timeout: time.Duration(timeoutSecs) * time.Second}
}

// Extract runs pdftotext -layout on the given PDF. Pages arrive on stdout
// separated by form feeds, which gives us the page count for free.
func (p *PdfToText) Extract(ctx context.Context, pdfPath string) (*model.Extraction, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.binPath, "-layout", pdfPath, "-")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, eris.Wrapf(err, "extract: pdftotext failed for %s: %s", pdfPath, stderr.String())
	}

	raw := stdout.String()
	pageCount := strings.Count(raw, "\f")
	if pageCount == 0 && len(strings.TrimSpace(raw)) > 0 {
		pageCount = 1
	}

	text := cleanText(strings.ReplaceAll(raw, "\f", "\n\n"))
	ext := &model.Extraction{
		Text:       text,
		Method:     "pdftotext",
		Confidence: Confidence(text),
		PageCount:  pageCount,
		WordCount:  len(strings.Fields(text)),
		Duration:   time.Since(start),
		Success:    len(text) > 0,
	}

	zap.L().Info("extract: pdf text extracted",
		zap.String("path", pdfPath),
		zap.Int("pages", ext.PageCount),
		zap.Int("words", ext.WordCount),
		zap.Float64("confidence", ext.Confidence))

	return ext, nil
}
