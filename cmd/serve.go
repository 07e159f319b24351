package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/asi-incubator/intake-cli/internal/model"
	"github.com/asi-incubator/intake-cli/internal/pipeline"
	"github.com/asi-incubator/intake-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP intake server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx, "serve")
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(env, cfg.Report.Dir),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

// newRouter builds the HTTP API.
func newRouter(env *intakeEnv, reportDir string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/webhook/analyze", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			BusinessName string `json:"business_name"`
			ContactName  string `json:"contact_name"`
			ContactEmail string `json:"contact_email"`
			PDFPath      string `json:"pdf_path"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if body.PDFPath == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "pdf_path is required"})
			return
		}
		if body.BusinessName == "" {
			body.BusinessName = businessNameFromPath(body.PDFPath)
		}

		// Analysis can take minutes with the local model; answer now and
		// process detached from the request context.
		go func() {
			out, err := env.Pipeline.Process(context.Background(), pipeline.Submission{
				BusinessName: body.BusinessName,
				ContactName:  body.ContactName,
				ContactEmail: body.ContactEmail,
				PDFPath:      body.PDFPath,
			})
			if err != nil {
				zap.L().Error("webhook analysis failed",
					zap.String("pdf", body.PDFPath),
					zap.Error(err))
				return
			}
			zap.L().Info("webhook analysis complete",
				zap.String("candidature_id", out.Candidature.ID),
				zap.Float64("score", out.Analysis.TotalScore))
		}()

		writeJSON(w, http.StatusAccepted, map[string]string{
			"status":   "accepted",
			"business": body.BusinessName,
		})
	})

	r.Get("/candidatures", func(w http.ResponseWriter, req *http.Request) {
		cands, err := env.Store.ListCandidatures(req.Context(), store.CandidatureFilter{
			Status: model.CandidatureStatus(req.URL.Query().Get("status")),
		})
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if cands == nil {
			cands = []model.Candidature{}
		}
		writeJSON(w, http.StatusOK, cands)
	})

	r.Get("/candidatures/{id}", func(w http.ResponseWriter, req *http.Request) {
		id := chi.URLParam(req, "id")
		c, err := env.Store.GetCandidature(req.Context(), id)
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "candidature not found"})
			return
		}

		resp := struct {
			Candidature *model.Candidature    `json:"candidature"`
			Analysis    *model.AnalysisResult `json:"analysis,omitempty"`
		}{Candidature: c}
		if res, err := env.Store.GetAnalysis(req.Context(), id); err == nil {
			resp.Analysis = res
		}
		writeJSON(w, http.StatusOK, resp)
	})

	r.Get("/stats", func(w http.ResponseWriter, req *http.Request) {
		stats, err := env.Store.GetStats(req.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, stats)
	})

	// Generated PDF reports.
	r.Handle("/reports/*", http.StripPrefix("/reports/", http.FileServer(http.Dir(reportDir))))

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
