package app

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/finsolve-tech/finsight/internal/api/handlers"
	appMiddleware "github.com/finsolve-tech/finsight/internal/api/middlewares"
	"github.com/finsolve-tech/finsight/internal/config"
	"github.com/finsolve-tech/finsight/internal/services"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, auth *services.AuthService, tokens *services.TokenService, perms *services.PermissionService, answers *services.AnswerService, memory *services.MemoryService) *Server {
	tokenTTL := time.Duration(cfg.TokenTTLMins) * time.Minute
	authHandler := handlers.NewAuthHandler(auth, tokens, perms, tokenTTL)
	chatHandler := handlers.NewChatHandler(answers, memory)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8501"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/health", handlers.Health)

	r.Route("/api", func(api chi.Router) {
		// public endpoints
		api.Post("/login", authHandler.Login)

		// protected endpoints
		api.Group(func(protected chi.Router) {
			protected.Use(appMiddleware.JWT(tokens))
			protected.Post("/users", authHandler.AddUser)
			protected.Get("/me/departments", authHandler.AccessibleDepartments)
			protected.Post("/chat/query", chatHandler.Query)
			protected.Delete("/chat/memory", chatHandler.ClearMemory)
		})
	})

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	return &Server{httpServer: httpSrv}
}

// Start runs the HTTP server.
func (s *Server) Start() {
	log.Printf("HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}
