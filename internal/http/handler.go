package httpapp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/cesargomez89/leaktracker/internal/http/dto"
	"github.com/cesargomez89/leaktracker/internal/logger"
	"github.com/cesargomez89/leaktracker/internal/tracker"
)

type Handler struct {
	Service   *tracker.Service
	Validator *dto.Validator
	Logger    *logger.Logger
}

func NewHandler(svc *tracker.Service, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Default()
	}
	return &Handler{
		Service:   svc,
		Validator: dto.NewValidator(),
		Logger:    log.WithComponent("http"),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/tracker", h.GetTracker)
		r.Get("/trackers", h.ListTrackers)
		r.Get("/trackers/{docID}", h.GetCachedTracker)
		r.Delete("/trackers/{docID}", h.ForgetTracker)
		r.Get("/trackers/{docID}/search", h.SearchTracker)
		r.Get("/trackers/{docID}/history", h.TrackerHistory)
		r.Get("/cache", h.ListCache)
		r.Delete("/cache/{docID}", h.InvalidateCache)
		r.Delete("/cache", h.ClearCache)
	})
}

// NewRouter builds the application router with the standard middleware stack.
func NewRouter(h *Handler, corsOrigins []string, timeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if timeout > 0 {
		r.Use(middleware.Timeout(timeout))
	}
	if len(corsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}
	h.RegisterRoutes(r)
	return r
}
