package httpapi

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/fx"

	"github.com/studystack/materials/internal/logger"
	"github.com/studystack/materials/internal/metrics"
)

// NewRouter assembles the route table. The /api subtree passes the rate
// limiter; /healthz does not, so orchestrator probes are never throttled.
func NewRouter(h *Handler, m *metrics.Metrics, log *logger.Logger) http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("POST /api/materials", h.CreateMaterial)
	api.HandleFunc("POST /api/materials/{id}/process", h.RequestProcessing)
	api.HandleFunc("GET /api/materials/search", h.SearchMaterials)
	api.HandleFunc("GET /api/materials/{id}", h.GetMaterial)
	api.HandleFunc("DELETE /api/materials/{id}", h.DeleteMaterial)

	root := http.NewServeMux()
	root.Handle("/api/", h.RateLimit(m, api))
	root.HandleFunc("GET /healthz", h.Healthz)

	return Logging(log, m, root)
}

// NewServer builds the API http.Server.
func NewServer(cfg Config, router http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// FXModule wires the HTTP layer into Fx.
var FXModule = fx.Module("httpapi",
	fx.Provide(
		NewConfig,
		NewHandler,
		NewRouter,
		NewServer,
	),
	fx.Invoke(RegisterServerLifecycle),
)

// RegisterServerLifecycle starts the API server in the background and
// shuts it down gracefully.
func RegisterServerLifecycle(lc fx.Lifecycle, server *http.Server, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("starting API server", nil, map[string]interface{}{"address": server.Addr})
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("API server stopped unexpectedly", err, nil)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down API server", nil, nil)
			return server.Shutdown(ctx)
		},
	})
}
