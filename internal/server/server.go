package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/PKA-OpenDynamics/CityLens-sub002/internal/config"
	"github.com/PKA-OpenDynamics/CityLens-sub002/internal/observability"
)

// Routes assembles the chi router: health and metrics at the root, the API
// under cfg.BasePath + /v1.
func Routes(cfg config.Config, log zerolog.Logger, h *Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(Recover(log))
	r.Use(RequestID())
	r.Use(AccessLog(log))
	r.Use(CORS())

	r.Get("/healthz", h.Healthz)
	r.Get("/readyz", h.Readyz)
	r.Method(http.MethodGet, "/metrics", observability.Handler())

	api := func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Get("/distance", h.Distance)
			r.Get("/regions", h.ListRegions)
			r.Get("/regions/{name}", h.GetRegion)
			r.Get("/regions/{name}/contains", h.RegionContains)
			r.Get("/locate", h.Locate)
			r.Post("/geometry/bbox", h.GeometryBounds)
			r.Post("/geometry/centroid", h.GeometryCentroid)
			r.Post("/convert/wkt", h.ConvertWKT)
			r.Post("/convert/geojson", h.ConvertGeoJSON)
		})
	}
	if cfg.BasePath != "" {
		r.Route(cfg.BasePath, api)
	} else {
		api(r)
	}
	return r
}

// Run serves until the context is canceled, then drains connections for at
// most cfg.ShutdownTimeout. A listener failure is returned immediately.
func Run(ctx context.Context, cfg config.Config, log zerolog.Logger, h *Handlers) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           Routes(cfg, log, h),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("http listen")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("shutdown did not drain cleanly")
		}
		return nil
	case err := <-errCh:
		return err
	}
}
