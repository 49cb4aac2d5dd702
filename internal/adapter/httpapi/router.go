package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog"
)

type RouterConfig struct {
	ServiceName string
	AccessLog   bool
	JSONLogs    bool
}

func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if cfg.AccessLog {
		accessLog := httplog.NewLogger(cfg.ServiceName, httplog.Options{
			JSON:    cfg.JSONLogs,
			Concise: true,
		})
		r.Use(httplog.RequestLogger(accessLog))
	}
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
			http.MethodDelete, http.MethodOptions, http.MethodHead,
		},
		AllowedHeaders: []string{"*"},
		MaxAge:         int((12 * time.Hour).Seconds()),
	}))

	r.Post("/start-scraping/", h.StartScraping)
	r.Post("/start-scraping", h.StartScraping)
	r.Get("/task-status/{task_id}", h.TaskStatus)
	r.Get("/healthz", h.Health)

	return r
}
