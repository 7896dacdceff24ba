// internal/server/server.go
// HTTP server setup with dependency injection

package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"fllc-scheduler/internal/api"
	"fllc-scheduler/internal/database"
	"fllc-scheduler/internal/fllconfig"
	"fllc-scheduler/internal/middleware"
	"fllc-scheduler/internal/repositories"
	"fllc-scheduler/internal/services"
	"fllc-scheduler/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Server represents the HTTP server.
type Server struct {
	config   *fllconfig.Config
	router   *gin.Engine
	services *services.Container
	logger   *log.Logger
	server   *http.Server
}

// New creates a new server with all dependencies wired together: repository
// container, service container, and — if enabled — the websocket hub, with
// the hub set as the trainer's Broadcaster only after both exist (see
// services.Broadcaster's doc comment for why this can't happen earlier).
func New(cfg *fllconfig.Config, db *database.Connections, logger *log.Logger) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	repoContainer := repositories.NewContainer(db)
	serviceContainer := services.NewContainer(repoContainer, db.Redis, cfg, logger)

	router := setupRouter(cfg, serviceContainer, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		config:   cfg,
		router:   router,
		services: serviceContainer,
		logger:   logger,
		server:   srv,
	}
}

// setupRouter configures all routes and middleware.
func setupRouter(cfg *fllconfig.Config, svc *services.Container, logger *log.Logger) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimiter(svc.Cache))

	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * 3600,
	}))

	if cfg.Features.MaintenanceMode {
		router.Use(middleware.MaintenanceMode())
	}

	router.GET("/health", api.HealthCheck(cfg))

	v1 := router.Group("/api/v1")
	{
		api.RegisterAuthRoutes(v1, svc)
		api.RegisterRunRoutes(v1, svc)
	}

	if cfg.Features.EnableWebSocket {
		hub := websocket.NewHub(svc, logger)
		go hub.Run()
		svc.Trainer.SetBroadcaster(hub)
		router.GET("/ws", middleware.OptionalAuth(svc.Auth), websocket.HandleConnection(hub))
	}

	return router
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Println("shutting down server...")
	return s.server.Shutdown(ctx)
}
