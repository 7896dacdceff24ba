// internal/api/routes.go
// Central route registration for all API endpoints

package api

import (
	"fllc-scheduler/internal/middleware"
	"fllc-scheduler/internal/services"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers authentication-related routes.
func RegisterAuthRoutes(router *gin.RouterGroup, svc *services.Container) {
	auth := router.Group("/auth")
	{
		auth.POST("/login", HandleLogin(svc.Auth))
	}
}

// RegisterRunRoutes registers run-related routes. Every run-scoped route
// besides creation passes through RequireRunAccess so a request against an
// unknown id 404s before reaching the handler.
func RegisterRunRoutes(router *gin.RouterGroup, svc *services.Container) {
	runs := router.Group("/runs")
	runs.Use(middleware.RequireAuth(svc.Auth))
	{
		runs.POST("", HandleCreateRun(svc.Trainer))

		scoped := runs.Group("/:id")
		scoped.Use(middleware.RequireRunAccess(svc))
		{
			scoped.GET("", HandleGetRun(svc.Trainer))
			scoped.POST("/stop", HandleStopRun(svc.Trainer))
			scoped.GET("/schedule.csv", HandleDownloadSchedule(svc.Trainer))
			scoped.GET("/qtable.csv", HandleDownloadQTable(svc.Trainer))
		}
	}
}
