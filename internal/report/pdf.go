// Package report renders analysis results into PDF reports for the
// selection committee and the applicant.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/asi-incubator/intake-cli/internal/model"
)

// Generator writes one PDF report per analyzed candidature.
type Generator struct {
	dir string
}

// NewGenerator creates a Generator writing into dir.
func NewGenerator(dir string) *Generator {
	return &Generator{dir: dir}
}

// Generate renders the report and returns the path of the written file.
func (g *Generator) Generate(c *model.Candidature, res *model.AnalysisResult) (string, error) {
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "report: create dir %s", g.dir)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; translate the French accents.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, fmt.Sprintf("Incubateur ASI - Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(33, 37, 41)
	pdf.CellFormat(0, 12, "Incubateur ASI", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 13)
	pdf.CellFormat(0, 8, tr("Rapport d'analyse de candidature"), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	// Applicant block
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(40, 7, "Projet", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, tr(c.BusinessName), "", 1, "L", false, 0, "")

	if c.ContactName != "" {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(40, 7, "Contact", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, tr(c.ContactName), "", 1, "L", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(40, 7, "Date", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, res.EvaluationDate.Format("02/01/2006"), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	// Score banner
	r, gr, b := scoreColor(res.TotalScore)
	pdf.SetFillColor(r, gr, b)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 14, fmt.Sprintf("Score global : %.1f / %d", res.TotalScore, res.MaxPossibleScore), "", 1, "C", true, 0, "")

	pdf.SetTextColor(33, 37, 41)
	pdf.SetFont("Helvetica", "B", 12)
	decision := tr("Candidature non retenue pour l'incubation")
	if res.IsEligible {
		decision = tr("Candidature retenue pour l'incubation")
	}
	pdf.CellFormat(0, 10, decision, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Criteria table
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, tr("Détail par critère"), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(52, 58, 64)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(110, 7, tr("Critère"), "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 7, "Score", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Performance", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(33, 37, 41)
	for i, cr := range res.CriteriaResults {
		if i%2 == 0 {
			pdf.SetFillColor(248, 249, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.CellFormat(110, 6, tr(cr.CriterionName), "1", 0, "L", true, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.1f / %.0f", cr.EarnedPoints, cr.MaxPoints), "1", 0, "C", true, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.0f%%", cr.Performance()), "1", 1, "C", true, 0, "")
	}
	pdf.Ln(6)

	// Summary
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, tr("Synthèse"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, tr(res.Summary), "", "L", false)
	pdf.Ln(4)

	// Recommendations
	if len(res.Recommendations) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, "Recommandations", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, rec := range res.Recommendations {
			pdf.MultiCell(0, 5, tr("- "+rec), "", "L", false)
			pdf.Ln(1)
		}
	}

	path := filepath.Join(g.dir, fmt.Sprintf("rapport_%s.pdf", c.ID))
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", eris.Wrapf(err, "report: write %s", path)
	}

	zap.L().Info("report: pdf generated",
		zap.String("candidature_id", c.ID),
		zap.String("path", path),
		zap.Duration("since_evaluation", time.Since(res.EvaluationDate)))

	return path, nil
}

// scoreColor maps a total score to the banner color: green for eligible,
// orange for borderline, red otherwise.
func scoreColor(score float64) (int, int, int) {
	switch {
	case score >= 60:
		return 40, 167, 69
	case score >= 40:
		return 253, 126, 20
	default:
		return 220, 53, 69
	}
}
