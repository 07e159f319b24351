// Package extract pulls plain text out of submitted PDF files.
package extract

import (
	"context"
	"strings"

	"github.com/asi-incubator/intake-cli/internal/config"
	"github.com/asi-incubator/intake-cli/internal/model"
)

// Extractor extracts text content from PDF files.
type Extractor interface {
	Extract(ctx context.Context, pdfPath string) (*model.Extraction, error)
}

// New creates an Extractor based on config.
func New(cfg config.ExtractConfig) Extractor {
	return NewPdfToText(cfg.PdfToTextPath, cfg.TimeoutSecs)
}

// businessIndicators are terms a business plan text is expected to contain.
// Their presence raises the confidence of an extraction.
var businessIndicators = []string{"business", "market", "revenue", "strategy", "plan"}

// Confidence estimates extraction quality from the text itself.
// The result is clamped to [0.1, 1.0].
func Confidence(text string) float64 {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 50 {
		return 0.1
	}

	conf := 0.8

	wordCount := len(strings.Fields(text))
	if wordCount > 1000 {
		conf += 0.1
	} else if wordCount < 100 {
		conf -= 0.2
	}

	lower := strings.ToLower(text)
	indicators := 0
	for _, term := range businessIndicators {
		if strings.Contains(lower, term) {
			indicators++
		}
	}
	if indicators >= 3 {
		conf += 0.1
	}

	special := 0
	for _, r := range text {
		if !isAlnum(r) && r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			special++
		}
	}
	if float64(special)/float64(len([]rune(text))) > 0.3 {
		conf -= 0.3
	}

	if conf < 0.1 {
		return 0.1
	}
	if conf > 1.0 {
		return 1.0
	}
	return conf
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') ||
		(r >= 'à' && r <= 'ü') || (r >= 'À' && r <= 'Ü')
}

// cleanText normalizes line endings and collapses excessive blank lines.
func cleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	for strings.Contains(text, "\n\n\n") {
		text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(text)
}
