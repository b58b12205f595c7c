package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi"
	chimiddleware "github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/hako/durafmt"
	"github.com/ironstar-io/chizerolog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/aquaswift/aquaswift-api/api/company"
	"github.com/aquaswift/aquaswift-api/api/form"
	apiProducts "github.com/aquaswift/aquaswift-api/api/products"
	apiReport "github.com/aquaswift/aquaswift-api/api/report"
	"github.com/aquaswift/aquaswift-api/api/services"
	"github.com/aquaswift/aquaswift-api/api/testimonials"
	apiUpload "github.com/aquaswift/aquaswift-api/api/upload"
	"github.com/aquaswift/aquaswift-api/db"
	"github.com/aquaswift/aquaswift-api/db/memory"
	"github.com/aquaswift/aquaswift-api/db/mongo"
	"github.com/aquaswift/aquaswift-api/env"
	"github.com/aquaswift/aquaswift-api/middleware"
	"github.com/aquaswift/aquaswift-api/report"
	"github.com/aquaswift/aquaswift-api/report/gemini"
	"github.com/aquaswift/aquaswift-api/report/openai"
	"github.com/aquaswift/aquaswift-api/upload"
	"github.com/aquaswift/aquaswift-api/upload/imgbb"
	"github.com/aquaswift/aquaswift-api/upload/minio"
	"github.com/aquaswift/aquaswift-api/upload/s3"
)

const healthTimeout = 2 * time.Second

// APIServer is a struct that bundles together the various server-wide
// resources used at runtime that each have
// a lifecycle of initialization, connection, and disconnection
type APIServer struct {
	logger          zerolog.Logger
	dbProvider      db.Provider
	uploadProvider  upload.Provider
	reportGenerator *report.Generator
	imageRules      *form.ImageRules
	registry        *prometheus.Registry
	metrics         *middleware.Metrics
}

// NewAPIServer initializes the struct and all constituent components,
// choosing implementations from the environment
func NewAPIServer(logger zerolog.Logger) (*APIServer, error) {
	dbProvider, err := newDBProvider(env.GetEnvOrDefault("DB_PROVIDER", "mongo"))
	if err != nil {
		return nil, err
	}

	uploadProvider, err := newUploadProvider(env.GetEnvOrDefault("UPLOAD_PROVIDER", "imgbb"))
	if err != nil {
		return nil, err
	}

	model, err := newReportModel(env.GetEnvOrDefault("REPORT_PROVIDER", "gemini"))
	if err != nil {
		return nil, err
	}

	imageRules, err := form.NewImageRulesFromEnv()
	if err != nil {
		return nil, err
	}

	return newAPIServer(logger, dbProvider, uploadProvider, model, imageRules)
}

func newAPIServer(logger zerolog.Logger, dbProvider db.Provider, uploadProvider upload.Provider,
	model report.Model, imageRules *form.ImageRules) (*APIServer, error) {

	reportGenerator, err := report.NewGenerator(model)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := middleware.NewMetrics(registry)
	if err != nil {
		return nil, err
	}

	return &APIServer{
		logger:          logger,
		dbProvider:      dbProvider,
		uploadProvider:  uploadProvider,
		reportGenerator: reportGenerator,
		imageRules:      imageRules,
		registry:        registry,
		metrics:         metrics,
	}, nil
}

func newDBProvider(name string) (db.Provider, error) {
	switch strings.ToLower(name) {
	case "mongo":
		return mongo.NewProvider()
	case "memory":
		return memory.NewProvider(), nil
	default:
		return nil, fmt.Errorf("unknown DB_PROVIDER '%s' (expected 'mongo' or 'memory')", name)
	}
}

func newUploadProvider(name string) (upload.Provider, error) {
	switch strings.ToLower(name) {
	case "imgbb":
		return imgbb.NewProvider()
	case "s3":
		return s3.NewProvider()
	case "minio":
		return minio.NewProvider()
	default:
		return nil, fmt.Errorf("unknown UPLOAD_PROVIDER '%s' (expected 'imgbb', 's3' or 'minio')", name)
	}
}

func newReportModel(name string) (report.Model, error) {
	switch strings.ToLower(name) {
	case "gemini":
		return gemini.NewClientFromEnv()
	case "openai":
		return openai.NewClientFromEnv()
	default:
		return nil, fmt.Errorf("unknown REPORT_PROVIDER '%s' (expected 'gemini' or 'openai')", name)
	}
}

// Connect connects all constituent components
func (a *APIServer) Connect(ctx context.Context) error {
	a.logger.Info().Msg("initializing database provider")
	start := time.Now()
	err := a.dbProvider.Connect(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("could not connect to the database")
		return err
	}
	a.logger.Info().
		Str("elapsed", durafmt.Parse(time.Since(start)).LimitFirstN(2).String()).
		Msg("successfully connected to and pinged the database")

	return nil
}

// Disconnect disconnects all constituent components
func (a *APIServer) Disconnect(ctx context.Context) error {
	err := a.dbProvider.Disconnect(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("could not disconnect from the database")
		return err
	}
	a.logger.Info().Msg("disconnected from the database")

	return nil
}

// Serve runs the main API server until it's cancelled for some reason,
// in which case it attempts to gracefully shutdown.
// This function blocks.
func (a *APIServer) Serve(ctx context.Context, port int) {
	router := a.routes()
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Fatal().Err(err).Msg("error listening")
		}
	}()
	a.logger.Info().Int("port", port).Msg("API server started")

	<-ctx.Done()
	a.logger.Info().Msg("API server stopped")

	shutdownTimeout := 5 * time.Second
	a.logger.Info().
		Str("timeout", durafmt.Parse(shutdownTimeout).String()).
		Msg("shutting down API server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer func() {
		cancel()
	}()

	if err := server.Shutdown(ctx); err != nil {
		a.logger.Fatal().Err(err).Msg("API server shutdown failed")
	}
	a.logger.Info().Msg("API server exited properly")
}

func (a *APIServer) routes() *chi.Mux {
	// Approach from:
	// https://itnext.io/structuring-a-production-grade-rest-api-in-golang-c0229b3feedc
	// https://itnext.io/how-i-pass-around-shared-resources-databases-configuration-etc-within-golang-projects-b27af4d8e8a
	router := chi.NewRouter()
	router.Use(
		chimiddleware.Recoverer,                       // Recover from panics without crashing the server
		hlog.NewHandler(a.logger),                     // Attach a request-scoped logger
		middleware.RequestID,                          // Tag requests and their logs with an ID
		chizerolog.LoggerMiddleware(&a.logger),        // Log API request calls
		a.metrics.Handler,                             // Count requests per route
		chimiddleware.RedirectSlashes,                 // Redirect slashes to no slash URL versions
		render.SetContentType(render.ContentTypeJSON), // Set content-type headers to application/json
		chimiddleware.Compress(5),                     // Compress results, mostly gzipping assets and json
		chimiddleware.NoCache,                         // Prevent clients from caching the results
		a.corsMiddleware(),                            // Create cors middleware from go-chi/cors
	)

	router.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))

	// ==============================
	// Add all routes to the API here
	// ==============================
	router.Route("/api", func(r chi.Router) {
		// Can be used for health checks
		r.Get("/health", a.health)

		r.Mount("/products", apiProducts.Routes(a.dbProvider, a.uploadProvider, a.imageRules))
		r.Mount("/testimonials", testimonials.Routes(a.dbProvider, a.uploadProvider, a.imageRules))
		r.Mount("/company-details", company.Routes(a.dbProvider, a.uploadProvider, a.imageRules))
		r.Mount("/services", services.Routes())
		r.Mount("/report", apiReport.Routes(a.reportGenerator))
		r.Mount("/upload", apiUpload.Routes(a.uploadProvider, a.imageRules))
	})

	return router
}

func (a *APIServer) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := a.dbProvider.Ping(ctx); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("health check failed")
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *APIServer) corsMiddleware() func(http.Handler) http.Handler {
	allowedOrigins := env.GetEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")

	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{allowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
