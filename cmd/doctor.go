package main

import (
	"net"
	"os/exec"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/asi-incubator/intake-cli/internal/store"
	"github.com/asi-incubator/intake-cli/pkg/ollama"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the pipeline dependencies are available",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		check := func(name string, ok bool, detail string) {
			mark := "ok"
			if !ok {
				mark = "FAIL"
			}
			cmd.Printf("%-12s %-4s %s\n", name, mark, detail)
		}

		// pdftotext binary
		if path, err := exec.LookPath(cfg.Extract.PdfToTextPath); err == nil {
			check("pdftotext", true, path)
		} else {
			check("pdftotext", false, "binary not found, install poppler-utils")
		}

		// database
		if st, err := store.NewSQLite(cfg.Store.Path); err == nil {
			if err := st.Migrate(ctx); err == nil {
				check("database", true, cfg.Store.Path)
			} else {
				check("database", false, err.Error())
			}
			_ = st.Close()
		} else {
			check("database", false, err.Error())
		}

		// local model
		if cfg.Ollama.Enabled {
			llm := ollama.NewClient(ollama.WithBaseURL(cfg.Ollama.BaseURL))
			if llm.Available(ctx) {
				model, err := llm.PickModel(ctx)
				if err != nil {
					check("ollama", false, err.Error())
				} else {
					check("ollama", true, cfg.Ollama.BaseURL+" ("+model+")")
				}
			} else {
				check("ollama", false, cfg.Ollama.BaseURL+" unreachable, rule-based engine will be used")
			}
		} else {
			check("ollama", true, "disabled")
		}

		// smtp reachability
		addr := net.JoinHostPort(cfg.SMTP.Host, strconv.Itoa(cfg.SMTP.Port))
		conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
		if err == nil {
			_ = conn.Close()
			check("smtp", true, addr)
		} else {
			check("smtp", false, addr+" unreachable")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
