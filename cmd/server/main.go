package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bilingual-reader/internal/config"
	"bilingual-reader/internal/handler"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}
	// Wiring
	container := config.NewContainer()
	cfg := container.GetConfig()

	// Handlers
	alignmentHandler := handler.NewAlignmentHandler(
		container.AlignmentService,
		handler.AlignmentHandlerOptions{
			MaxFileSize: cfg.GetMaxFileSize(),
			DefaultMode: cfg.GetDefaultAlignmentMode(),
		},
		container.Logger,
	)

	perSecond, burst := cfg.GetRateLimit()
	opts := handler.RouterOptions{
		AllowedOrigins: cfg.GetAllowedOrigins(),
		Middlewares: []mux.MiddlewareFunc{
			handler.RequestLogger(container.Logger),
			handler.NewRateLimiter(perSecond, burst, container.Logger).Middleware,
		},
	}
	if cfg.GetRequireAuth() {
		if container.AuthService == nil {
			container.Logger.Error("Authentication required but Supabase is not configured", nil)
			os.Exit(1)
		}
		opts.Auth = handler.NewAuthMiddleware(container.AuthService, container.Logger).Middleware
	}

	// Router
	router := handler.NewRouter(alignmentHandler, opts)

	// start server
	server := &http.Server{
		Addr:              ":" + cfg.GetServerPort(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      10 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	// Run server
	go func() {
		container.Logger.Info("Server listening", "address", server.Addr, "auth", opts.Auth != nil)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			container.Logger.Error("Server failed to start", err)
			os.Exit(1)
		}
	}()
	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	container.Logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		container.Logger.Error("Server forced to shutdown", err)
	}

	container.Logger.Info("Server exited")
}
