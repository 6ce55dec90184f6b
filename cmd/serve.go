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

	"github.com/sells-group/visibility-cli/internal/health"
	"github.com/sells-group/visibility-cli/internal/model"
	"github.com/sells-group/visibility-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for report generation",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Get("/providers/health", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, health.Check(req.Context(), env.Registry))
		})

		r.Post("/reports", func(w http.ResponseWriter, req *http.Request) {
			var biz model.BusinessProfile
			if err := json.NewDecoder(req.Body).Decode(&biz); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
				return
			}
			if biz.Name == "" || biz.Category == "" || biz.Location == "" {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name, category and location are required"})
				return
			}

			// Report generation takes minutes; run it detached from the
			// request and let the client poll by id.
			go func() {
				rep, err := env.Assembler.Generate(ctx, biz)
				if err != nil {
					zap.L().Error("async report generation failed",
						zap.String("business", biz.Name),
						zap.Error(err),
					)
					return
				}
				zap.L().Info("async report complete",
					zap.String("report_id", rep.ID),
					zap.Int("overall_score", rep.OverallScore),
				)
			}()

			writeJSON(w, http.StatusAccepted, map[string]string{
				"status":   "accepted",
				"business": biz.Name,
			})
		})

		r.Get("/reports", func(w http.ResponseWriter, req *http.Request) {
			q := req.URL.Query()
			reports, err := env.Store.ListReports(req.Context(), store.ReportFilter{
				Status:   model.ReportStatus(q.Get("status")),
				Business: q.Get("business"),
			})
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
				return
			}
			writeJSON(w, http.StatusOK, reports)
		})

		r.Get("/reports/{id}", func(w http.ResponseWriter, req *http.Request) {
			rep, err := env.Store.GetReport(req.Context(), chi.URLParam(req, "id"))
			if err != nil {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "report not found"})
				return
			}
			writeJSON(w, http.StatusOK, rep)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
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

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
