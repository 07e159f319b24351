package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFeatures_Empty(t *testing.T) {
	lex := DefaultLexicon()

	for _, text := range []string{"", "   ", "\n\n\t "} {
		feats := ExtractFeatures(text, lex)
		assert.Equal(t, Features{}, feats, "whitespace-only input must yield zero features")
	}
}

func TestExtractFeatures_Counts(t *testing.T) {
	text := "Our team has a strong founder. The market demands our product.\n\n" +
		"We project revenue of $500,000 and 15% growth. Budget: $20,000."

	feats := ExtractFeatures(text, DefaultLexicon())

	assert.Equal(t, len(text), feats.TextLength)
	assert.Equal(t, 21, feats.WordCount)
	assert.Equal(t, 2, feats.ParagraphCount)
	assert.Equal(t, 2, feats.TeamTerms, "team and founder")

	// revenue + budget are financial markers.
	assert.Equal(t, 2, feats.FinancialTerms)
	assert.Equal(t, 2, feats.Currency, "$500,000 and $20,000")
	assert.Equal(t, 1, feats.Percentages)
	assert.Greater(t, feats.Numbers, 0)
}

func TestExtractFeatures_SubstringMatching(t *testing.T) {
	// Matching is substring-based on purpose: "marketing" counts for "market".
	feats := ExtractFeatures("marketing marketing", DefaultLexicon())
	assert.Equal(t, 2, feats.MarketTerms)
}

func TestExtractFeatures_Sections(t *testing.T) {
	assert.True(t, ExtractFeatures("1. Executive Summary\n\nour plan", DefaultLexicon()).HasSections)
	assert.True(t, ExtractFeatures("the BUSINESS MODEL is simple", DefaultLexicon()).HasSections)
	assert.False(t, ExtractFeatures("hello world", DefaultLexicon()).HasSections)
}

func TestExtractFeatures_CurrencyPatterns(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"$100", 1},
		{"€ 2,500", 1},
		{"£999 and $1", 2},
		{"100$ reversed does not count", 0},
		{"$ alone does not count", 0},
	}
	for _, tt := range tests {
		feats := ExtractFeatures(tt.text, DefaultLexicon())
		assert.Equal(t, tt.want, feats.Currency, "text %q", tt.text)
	}
}

func TestCountTerms(t *testing.T) {
	assert.Equal(t, 3, countTerms("team team founder", []string{"team", "founder"}))
	assert.Equal(t, 0, countTerms("nothing here", []string{"revenue"}))
}
