package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/zaidnet/tagihan/internal/http/bill"
	"github.com/zaidnet/tagihan/internal/http/catalog"
	"github.com/zaidnet/tagihan/internal/http/export"
	"github.com/zaidnet/tagihan/internal/http/imports"
)

func New(
	billsV1 *bill.Handler,
	importV1 *imports.Handler,
	catalogV1 *catalog.Handler,
	exportV1 *export.Handler,
	timeout time.Duration,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	if timeout > 0 {
		router.Use(middleware.Timeout(timeout))
	}

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/bills", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			billsV1.Routes(r)
		})

		r.Route("/selection", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			billsV1.SelectionRoutes(r)
		})

		r.Get("/stats", billsV1.Stats)

		r.Route("/import", importV1.Routes)

		r.Route("/packages", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			catalogV1.Routes(r)
		})

		r.Route("/export", exportV1.Routes)
	})

	return router
}
