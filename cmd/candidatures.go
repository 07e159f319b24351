package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/asi-incubator/intake-cli/internal/model"
	"github.com/asi-incubator/intake-cli/internal/store"
)

var candidaturesCmd = &cobra.Command{
	Use:   "candidatures",
	Short: "Inspect and manage stored candidatures",
}

var (
	listStatus string
	listLimit  int
	listOffset int
	listJSON   bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List candidatures",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := initEnv(ctx, "process")
		if err != nil {
			return err
		}
		defer env.Close()

		cands, err := env.Store.ListCandidatures(ctx, store.CandidatureFilter{
			Status: model.CandidatureStatus(listStatus),
			Limit:  listLimit,
			Offset: listOffset,
		})
		if err != nil {
			return err
		}

		if listJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(cands)
		}

		cmd.Printf("%-36s  %-30s  %-9s  %s\n", "ID", "PROJET", "STATUT", "SOUMIS LE")
		for _, c := range cands {
			cmd.Printf("%-36s  %-30s  %-9s  %s\n", c.ID, truncate(c.BusinessName, 30), c.Status, c.CreatedAt.Format("02/01/2006"))
		}
		cmd.Printf("\n%d candidature(s)\n", len(cands))
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one candidature with its analysis and history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := initEnv(ctx, "process")
		if err != nil {
			return err
		}
		defer env.Close()

		c, err := env.Store.GetCandidature(ctx, args[0])
		if err != nil {
			return err
		}

		cmd.Printf("Projet:   %s\n", c.BusinessName)
		cmd.Printf("ID:       %s\n", c.ID)
		if c.ContactName != "" {
			cmd.Printf("Contact:  %s\n", c.ContactName)
		}
		if c.ContactEmail != "" {
			cmd.Printf("Email:    %s (notifié: %t)\n", c.ContactEmail, c.EmailSent)
		}
		cmd.Printf("Statut:   %s\n", c.Status)
		cmd.Printf("PDF:      %s\n", c.PDFPath)
		if c.ReportPath != "" {
			cmd.Printf("Rapport:  %s\n", c.ReportPath)
		}
		if c.Notes != "" {
			cmd.Printf("Notes:    %s\n", c.Notes)
		}

		if res, err := env.Store.GetAnalysis(ctx, c.ID); err == nil {
			cmd.Printf("\nScore: %.1f/%d (%s)\n", res.TotalScore, res.MaxPossibleScore, res.AnalysisMethod)
			for _, cr := range res.CriteriaResults {
				cmd.Printf("  %-45s %5.1f / %.0f\n", cr.CriterionName, cr.EarnedPoints, cr.MaxPoints)
			}
			cmd.Printf("\n%s\n", res.Summary)
		} else {
			cmd.Println("\nPas encore d'analyse.")
		}

		events, err := env.Store.ListEvents(ctx, c.ID)
		if err != nil {
			return err
		}
		if len(events) > 0 {
			cmd.Println("\nHistorique:")
			for _, e := range events {
				cmd.Printf("  %s  %-14s %s\n", e.CreatedAt.Format("02/01/2006 15:04"), e.Action, e.Detail)
			}
		}
		return nil
	},
}

var setStatusNote string

var setStatusCmd = &cobra.Command{
	Use:   "set-status <id> <pending|analyzed|accepted|rejected|failed>",
	Short: "Change the status of a candidature",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := initEnv(ctx, "process")
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.Store.UpdateStatus(ctx, args[0], model.CandidatureStatus(args[1]), setStatusNote); err != nil {
			return err
		}
		cmd.Printf("Candidature %s: statut %s\n", args[0], args[1])
		return nil
	},
}

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a candidature and everything attached to it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !deleteYes {
			cmd.Println("Suppression définitive; relancer avec --yes pour confirmer.")
			return nil
		}

		ctx := cmd.Context()
		env, err := initEnv(ctx, "process")
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.Store.DeleteCandidature(ctx, args[0]); err != nil {
			return err
		}
		cmd.Printf("Candidature %s supprimée\n", args[0])
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := initEnv(ctx, "process")
		if err != nil {
			return err
		}
		defer env.Close()

		stats, err := env.Store.GetStats(ctx)
		if err != nil {
			return err
		}

		cmd.Printf("Candidatures: %d\n", stats.TotalCandidatures)
		for status, n := range stats.ByStatus {
			cmd.Printf("  %-9s %d\n", status, n)
		}
		cmd.Printf("Analyses:     %d (éligibles: %d, score moyen: %.1f)\n",
			stats.TotalAnalyses, stats.EligibleCount, stats.AverageScore)
		for bucket, n := range stats.ScoreDistribution {
			cmd.Printf("  %-20s %d\n", bucket, n)
		}
		return nil
	},
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "filter by status")
	listCmd.Flags().IntVar(&listLimit, "limit", 50, "maximum rows")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "rows to skip")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output JSON")

	setStatusCmd.Flags().StringVar(&setStatusNote, "note", "", "note recorded in the audit log")
	deleteCmd.Flags().BoolVar(&deleteYes, "yes", false, "confirm deletion")

	candidaturesCmd.AddCommand(listCmd, showCmd, setStatusCmd, deleteCmd, statsCmd)
	rootCmd.AddCommand(candidaturesCmd)
}
