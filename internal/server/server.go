// Package server assembles the HTTP router and server.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/navidved/storefront/internal/apperror"
	appMiddleware "github.com/navidved/storefront/internal/middleware"
	"github.com/navidved/storefront/internal/response"
)

// Routes collects the handlers mounted on the router.
type Routes struct {
	Products http.Handler
	Blogs    http.Handler
	Enquiry  http.HandlerFunc
	Sitemap  http.Handler
	// Uploads serves local media under /uploads. Nil when media lives in a remote store.
	Uploads http.Handler
	// Ping reports datastore health for /health.
	Ping func(ctx context.Context) error
}

// NewRouter builds the chi router with the shared middleware stack.
func NewRouter(rt Routes) http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "route not found")
	})

	r.Get("/health", health(rt.Ping))

	// Swagger UI at /swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/products", rt.Products)
		r.Mount("/blogs", rt.Blogs)
		r.Post("/enquiry", rt.Enquiry)
	})

	r.Method(http.MethodGet, "/sitemap.xml", rt.Sitemap)
	if rt.Uploads != nil {
		r.Handle("/uploads/*", http.StripPrefix("/uploads", rt.Uploads))
	}
	return r
}

func health(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				response.FromError(w, apperror.Unavailable("database unavailable", err), false)
				return
			}
		}
		response.OK(w, map[string]string{"status": "ok"})
	}
}

// New returns an http.Server for h. Write timeout leaves room for a full
// create budget plus image uploads.
func New(port string, h http.Handler, saveTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:         ":" + port,
		Handler:      h,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: saveTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
