package main

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/asi-incubator/intake-cli/internal/pipeline"
)

var (
	processBusiness string
	processContact  string
	processEmail    string
	processNotes    string
)

var processCmd = &cobra.Command{
	Use:   "process <business-plan.pdf>",
	Short: "Analyze a single business plan PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "process")
		if err != nil {
			return err
		}
		defer env.Close()

		pdfPath, err := filepath.Abs(args[0])
		if err != nil {
			return eris.Wrap(err, "resolve pdf path")
		}

		business := processBusiness
		if business == "" {
			business = businessNameFromPath(pdfPath)
		}

		out, err := env.Pipeline.Process(ctx, pipeline.Submission{
			BusinessName: business,
			ContactName:  processContact,
			ContactEmail: processEmail,
			PDFPath:      pdfPath,
			Notes:        processNotes,
		})
		if err != nil {
			return err
		}

		printOutcome(cmd, out)
		return nil
	},
}

// businessNameFromPath derives a readable project name from the PDF
// file name.
func businessNameFromPath(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	return strings.TrimSpace(name)
}

func printOutcome(cmd *cobra.Command, out *pipeline.Outcome) {
	res := out.Analysis

	cmd.Printf("Candidature: %s (%s)\n", out.Candidature.BusinessName, out.Candidature.ID)
	cmd.Printf("Score:       %.1f/%d\n", res.TotalScore, res.MaxPossibleScore)
	cmd.Printf("Eligible:    %t (seuil %d)\n", res.IsEligible, res.Threshold)
	cmd.Printf("Méthode:     %s (confiance %.0f%%)\n", res.AnalysisMethod, res.ConfidenceScore)
	cmd.Println()

	for _, cr := range res.CriteriaResults {
		cmd.Printf("  %-45s %5.1f / %-4.0f (%.0f%%)\n", cr.CriterionName, cr.EarnedPoints, cr.MaxPoints, cr.Performance())
	}

	if len(res.Recommendations) > 0 {
		cmd.Println("\nRecommandations:")
		for _, rec := range res.Recommendations {
			cmd.Printf("  - %s\n", rec)
		}
	}

	if out.ReportPath != "" {
		cmd.Printf("\nRapport: %s\n", out.ReportPath)
	}
	if out.EmailQueued {
		cmd.Printf("Notification en file d'attente pour %s\n", out.Candidature.ContactEmail)
	}
}

func init() {
	processCmd.Flags().StringVar(&processBusiness, "business", "", "business name (default derived from file name)")
	processCmd.Flags().StringVar(&processContact, "contact", "", "contact person name")
	processCmd.Flags().StringVar(&processEmail, "email", "", "contact email, queues the result notification")
	processCmd.Flags().StringVar(&processNotes, "notes", "", "free-form notes stored with the candidature")
	rootCmd.AddCommand(processCmd)
}
