package main

import (
	"path/filepath"
	"sort"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/asi-incubator/intake-cli/internal/pipeline"
)

var batchConcurrency int

var batchCmd = &cobra.Command{
	Use:   "batch <directory>",
	Short: "Analyze every business plan PDF in a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "process")
		if err != nil {
			return err
		}
		defer env.Close()

		pdfs, err := filepath.Glob(filepath.Join(args[0], "*.pdf"))
		if err != nil {
			return eris.Wrap(err, "glob pdf directory")
		}
		if len(pdfs) == 0 {
			return eris.Errorf("no PDF files in %s", args[0])
		}
		sort.Strings(pdfs)

		concurrency := batchConcurrency
		if concurrency <= 0 {
			concurrency = cfg.Batch.MaxConcurrent
		}

		zap.L().Info("batch: starting",
			zap.Int("files", len(pdfs)),
			zap.Int("concurrency", concurrency))

		var mu sync.Mutex
		processed, failed := 0, 0

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(concurrency)
		for _, pdf := range pdfs {
			g.Go(func() error {
				out, err := env.Pipeline.Process(gctx, pipeline.Submission{
					BusinessName: businessNameFromPath(pdf),
					PDFPath:      pdf,
				})

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					failed++
					zap.L().Error("batch: submission failed", zap.String("pdf", pdf), zap.Error(err))
					cmd.Printf("ÉCHEC   %s: %v\n", filepath.Base(pdf), err)
					return nil
				}
				processed++
				cmd.Printf("%-7s %s: %.1f/100\n", statusLabel(out.Analysis.IsEligible), filepath.Base(pdf), out.Analysis.TotalScore)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		cmd.Printf("\n%d analysés, %d en échec\n", processed, failed)
		return nil
	},
}

func statusLabel(eligible bool) string {
	if eligible {
		return "ACCEPTÉ"
	}
	return "REFUSÉ"
}

func init() {
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "parallel analyses (default from config)")
	rootCmd.AddCommand(batchCmd)
}
