package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging, h.withMetrics)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/session", h.openSession)
		r.Get("/api/version", h.getServerVersion)
		r.Get("/api/info", h.getServerInfo)
		if h.metrics != nil {
			r.Method(http.MethodGet, "/metrics", h.metrics.Handler())
		}
	})

	// blob routes, scoped to the token subject
	router.Group(func(r chi.Router) {
		r.Use(h.auth, withGZip)

		r.Get("/api/blobs", h.listBlobs)
		r.With(h.verifyChecksum).Put("/api/blobs/{id}", h.putBlob)
		r.Get("/api/blobs/{id}", h.getBlob)
		r.Head("/api/blobs/{id}", h.headBlob)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
