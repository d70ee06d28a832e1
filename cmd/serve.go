package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/namekart/lead-gen-deep-research/internal/discovery"
	"github.com/namekart/lead-gen-deep-research/internal/pipeline"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the lead-generation HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		norm := newNormalizer()
		r := newRouter(newFetcher(cfg, norm), newPipeline(cfg))

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// newRouter builds the HTTP surface: a full pipeline run plus direct
// discovery lookups and a health check.
func newRouter(fetcher *discovery.Fetcher, p *pipeline.Pipeline) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/leadgen/run", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			DomainName string `json:"domain_name"`
			Guidance   string `json:"guidance,omitempty"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if body.DomainName == "" {
			writeError(w, http.StatusBadRequest, "domain_name is required")
			return
		}

		result, err := p.Run(req.Context(), body.DomainName, pipeline.RunOptions{
			Guidance: body.Guidance,
		})
		if err != nil {
			zap.L().Error("serve: run failed",
				zap.String("domain", body.DomainName),
				zap.Error(err))
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"leads": result.Leads})
	})

	r.Post("/dotdb/getleads", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Keywords []string `json:"keywords"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(body.Keywords) == 0 {
			writeError(w, http.StatusBadRequest, "keywords are required")
			return
		}
		writeJSON(w, http.StatusOK, fetcher.FetchCandidates(req.Context(), body.Keywords))
	})

	r.Post("/dotdb/getleads/single", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Keyword string `json:"keyword"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if body.Keyword == "" {
			writeError(w, http.StatusBadRequest, "keyword is required")
			return
		}
		byKeyword := fetcher.FetchCandidates(req.Context(), []string{body.Keyword})
		domains := byKeyword[body.Keyword]
		if domains == nil {
			domains = []string{}
		}
		writeJSON(w, http.StatusOK, domains)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
