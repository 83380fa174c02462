package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Jeroenbekkers/modelbank-card-matching/internal/config"
	matchHnd "github.com/Jeroenbekkers/modelbank-card-matching/internal/matching/handler"
	"github.com/Jeroenbekkers/modelbank-card-matching/internal/middleware"
	"github.com/Jeroenbekkers/modelbank-card-matching/server/http/handlers"
)

func NewRouter(cfg config.Config, profiles map[string]config.RetailerProfile, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// order matters: recover -> requestID -> logging -> cors -> limit -> throttle
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))
	r.Use(middleware.Throttle(cfg.RatePerIP))

	// health-check
	r.Get("/health", handlers.Health)

	// main endpoint
	r.Post("/match", matchHnd.Match(cfg, profiles, logger))

	return r
}
