package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"

	"github.com/asi-incubator/intake-cli/internal/model"
	"github.com/asi-incubator/intake-cli/internal/store"
)

var exportStatus string

var exportCmd = &cobra.Command{
	Use:   "export <file.xlsx>",
	Short: "Export candidatures and scores to a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := initEnv(ctx, "process")
		if err != nil {
			return err
		}
		defer env.Close()

		cands, err := env.Store.ListCandidatures(ctx, store.CandidatureFilter{
			Status: model.CandidatureStatus(exportStatus),
			Limit:  10000,
		})
		if err != nil {
			return err
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Candidatures")
		if err != nil {
			return eris.Wrap(err, "add sheet")
		}

		header := sheet.AddRow()
		for _, h := range []string{"ID", "Projet", "Contact", "Email", "Statut", "Soumis le", "Score", "Éligible", "Méthode"} {
			header.AddCell().Value = h
		}

		for _, c := range cands {
			row := sheet.AddRow()
			row.AddCell().Value = c.ID
			row.AddCell().Value = c.BusinessName
			row.AddCell().Value = c.ContactName
			row.AddCell().Value = c.ContactEmail
			row.AddCell().Value = string(c.Status)
			row.AddCell().Value = c.CreatedAt.Format("02/01/2006")

			res, err := env.Store.GetAnalysis(ctx, c.ID)
			if err != nil {
				// Not yet analyzed; leave the score columns empty.
				row.AddCell()
				row.AddCell()
				row.AddCell()
				continue
			}
			row.AddCell().SetFloatWithFormat(res.TotalScore, "0.0")
			if res.IsEligible {
				row.AddCell().Value = "oui"
			} else {
				row.AddCell().Value = "non"
			}
			row.AddCell().Value = res.AnalysisMethod
		}

		if err := file.Save(args[0]); err != nil {
			return eris.Wrapf(err, "write %s", args[0])
		}
		cmd.Printf("%d candidature(s) exportée(s) vers %s\n", len(cands), args[0])
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportStatus, "status", "", "only export candidatures with this status")
	rootCmd.AddCommand(exportCmd)
}
