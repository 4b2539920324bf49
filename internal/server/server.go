package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/DavidHLP/DoubanTV-Insight/internal/server/api"
	"github.com/DavidHLP/DoubanTV-Insight/internal/server/storage"
	"github.com/DavidHLP/DoubanTV-Insight/internal/store"
)

// RunServer starts the HTTP server with graceful shutdown support.
// It sets up routes, middleware, and handles OS signals for clean termination.
func RunServer(st *store.Store, listenAddr string, corsOrigins []string, logger zerolog.Logger) error {
	// Add service identifier to the logger
	logger = logger.With().Str("service", "doubantv-api").Logger()

	showRepo := storage.NewRepository(st)
	showsHandler := api.NewShowsHandler(showRepo)
	imageProxy := api.NewImageProxy(nil)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", showsHandler.Root)
	mux.HandleFunc("GET /api/douban/hot-tv", showsHandler.HotTV)
	mux.HandleFunc("GET /api/douban/rate-stats", showsHandler.RateStats)
	mux.HandleFunc("GET /api/douban/category-stats", showsHandler.CategoryStats)
	mux.HandleFunc("GET /api/douban/area-stats", showsHandler.AreaStats)
	mux.HandleFunc("GET /api/douban/year-stats", showsHandler.YearStats)
	mux.HandleFunc("GET /api/douban/tv-detail", showsHandler.TVDetail)
	mux.HandleFunc("GET /api/proxy/image", imageProxy.Proxy)
	mux.HandleFunc("GET /health", healthCheckHandler(st))

	// Set up middleware chain for logging and request tracking
	h := hlog.NewHandler(logger)(mux)
	h = hlog.MethodHandler("method")(h)
	h = hlog.URLHandler("url")(h)
	h = hlog.RemoteAddrHandler("remote_addr")(h)
	h = hlog.UserAgentHandler("user_agent")(h)
	h = hlog.RequestIDHandler("req_id", "Request-Id")(h)
	h = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		idReq, _ := hlog.IDFromRequest(r)

		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Str("req_id", idReq.String()).
			Msg("HTTP Request")
	})(h)

	// The dashboard runs on a different origin, so browsers preflight every call.
	h = cors.New(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(h)
	logger.Info().Strs("origins", corsOrigins).Msg("CORS enabled")

	httpServer := &http.Server{
		Addr:              listenAddr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("address", listenAddr).Msg("API Server starting")
		err := httpServer.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Fatal().Err(err).Msg("Server failed to start")

	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("HTTP server shutdown error")
			if err := httpServer.Close(); err != nil {
				logger.Error().Err(err).Msg("HTTP server force close error")
			}
		} else {
			logger.Info().Msg("HTTP server shutdown complete.")
		}
		if err := <-serverErr; err != nil {
			logger.Error().Err(err).Msg("ListenAndServe error during shutdown")
		}
	}

	logger.Info().Msg("Server exiting.")
	return nil
}

// healthCheckHandler responds to health check requests, verifying the snapshot
// store is reachable. Monitoring systems use this to check the service.
func healthCheckHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := hlog.FromRequest(r)
		log.Debug().Msg("Health check request received")

		pingCtx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := st.Ping(pingCtx); err != nil {
			log.Error().Err(err).Msg("Health check store ping failed")
			http.Error(w, "store unreachable", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error().Err(err).Msg("Error writing health check response")
		}
	}
}
