// Package server exposes the pipeline dashboard over HTTP: CRUD for deals,
// jobs, accounts and client leaders, the computed dashboard, CSV/XLSX export,
// CSV import and JSON backup/restore.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/pipeline-cli/internal/config"
	"github.com/sells-group/pipeline-cli/internal/importer"
	"github.com/sells-group/pipeline-cli/internal/service"
)

// Server holds the HTTP handler dependencies.
type Server struct {
	svc           *service.Service
	schema        *importer.Schema
	importLimiter *rate.Limiter
}

// New builds a Server. A nil schema falls back to the embedded deal schema.
func New(svc *service.Service, schema *importer.Schema, cfg config.ServerConfig) *Server {
	if schema == nil {
		schema = importer.DealSchema()
	}
	rps := cfg.ImportRPS
	if rps <= 0 {
		rps = 1
	}
	burst := cfg.ImportBurst
	if burst <= 0 {
		burst = 3
	}
	return &Server{
		svc:           svc,
		schema:        schema,
		importLimiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Router assembles the chi router with logging, recovery and CORS.
func (s *Server) Router(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/deals", func(r chi.Router) {
			r.Get("/", s.handleListDeals)
			r.Post("/", s.handleCreateDeal)
			r.Get("/{id}", s.handleGetDeal)
			r.Put("/{id}", s.handleUpdateDeal)
			r.Delete("/{id}", s.handleDeleteDeal)
		})
		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", s.handleListJobs)
			r.Post("/", s.handleCreateJob)
			r.Get("/overview", s.handleJobsOverview)
			r.Get("/{id}", s.handleGetJob)
			r.Put("/{id}", s.handleUpdateJob)
			r.Delete("/{id}", s.handleDeleteJob)
		})
		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", s.handleListAccounts)
			r.Post("/", s.handleCreateAccount)
			r.Get("/{id}", s.handleGetAccount)
			r.Put("/{id}", s.handleUpdateAccount)
			r.Delete("/{id}", s.handleDeleteAccount)
		})
		r.Route("/leaders", func(r chi.Router) {
			r.Get("/", s.handleListLeaders)
			r.Post("/", s.handleCreateLeader)
			r.Get("/{id}", s.handleGetLeader)
			r.Put("/{id}", s.handleUpdateLeader)
			r.Delete("/{id}", s.handleDeleteLeader)
		})

		r.Get("/dashboard", s.handleDashboard)
		r.Get("/export", s.handleExport)
		r.Get("/backup", s.handleBackup)
		r.Post("/restore", s.handleRestore)
		r.Get("/snapshots", s.handleSnapshots)
		r.Post("/import", s.handleImport)
	})

	return r
}

// requestLogger logs one line per request through the global zap logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
