package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/asi-incubator/intake-cli/internal/analyzer"
)

var (
	analyzeJSON          bool
	analyzeGenericFactor float64
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text-file]",
	Short: "Score plain text against the validation grid",
	Long:  "Runs the rule-based engine on already extracted text, read from the given file or stdin. No database, no PDF, no model.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var text []byte
		var err error
		if len(args) == 1 {
			text, err = os.ReadFile(args[0])
			if err != nil {
				return eris.Wrapf(err, "read %s", args[0])
			}
		} else {
			text, err = io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return eris.Wrap(err, "read stdin")
			}
		}

		engineCfg := analyzer.DefaultConfig()
		if analyzeGenericFactor > 0 {
			engineCfg.GenericFactor = analyzeGenericFactor
		}
		if err := analyzer.ValidateConfig(engineCfg); err != nil {
			return err
		}

		res := analyzer.NewEngine(engineCfg).Evaluate(string(text))

		if analyzeJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return eris.Wrap(enc.Encode(res), "encode result")
		}

		cmd.Printf("Score:    %.1f/%d\n", res.TotalScore, res.MaxPossibleScore)
		cmd.Printf("Eligible: %t (seuil %d)\n\n", res.IsEligible, res.Threshold)
		for _, cr := range res.CriteriaResults {
			cmd.Printf("  %-45s %5.1f / %-4.0f (%.0f%%)\n", cr.CriterionName, cr.EarnedPoints, cr.MaxPoints, cr.Performance())
		}
		cmd.Printf("\n%s\n", res.Summary)
		if len(res.Recommendations) > 0 {
			cmd.Println("\nRecommandations:")
			for _, rec := range res.Recommendations {
				cmd.Printf("  - %s\n", rec)
			}
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output the full result as JSON")
	analyzeCmd.Flags().Float64Var(&analyzeGenericFactor, "generic-factor", 0, "override the word-count scoring factor")
	rootCmd.AddCommand(analyzeCmd)
}
