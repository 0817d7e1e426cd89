package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// RouterOptions configures the cross-cutting parts of the router.
type RouterOptions struct {
	AllowedOrigins []string
	// Middlewares wrap every request, outermost first.
	Middlewares []mux.MiddlewareFunc
	// Auth, when set, protects the API routes.
	Auth mux.MiddlewareFunc
}

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(alignmentHandler *AlignmentHandler, opts RouterOptions) http.Handler {
	router := mux.NewRouter()
	for _, mw := range opts.Middlewares {
		router.Use(mw)
	}

	// Health check endpoint (no auth required)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok","service":"bilingual-reader"}`))
	}).Methods("GET")

	// API routes sit on the root router so a method mismatch answers 405.
	protected := func(h http.HandlerFunc) http.Handler {
		if opts.Auth != nil {
			return opts.Auth(h)
		}
		return h
	}

	router.Handle("/api/v1/alignments", protected(alignmentHandler.Align)).Methods("POST")
	router.Handle("/api/v1/structure", protected(alignmentHandler.AnalyzeStructure)).Methods("POST")

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-ID",
		},
		ExposedHeaders: []string{
			"X-Request-ID",
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}
