package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"alcyxob/trainer-scheduler/internal/domain"
	"alcyxob/trainer-scheduler/internal/service"
)

// Services bundles what the HTTP layer calls into. Sweeps may be nil.
type Services struct {
	Auth     service.AuthService
	Sessions service.SessionService
	Admin    service.AdminService
	Export   service.ExportService
	Sweeps   SweepTasks
}

func SetupRoutes(router *gin.Engine, jwtSecret string, logger *zap.Logger, svc Services) {
	authHandler := NewAuthHandler(svc.Auth, svc.Sweeps, logger)
	sessionHandler := NewSessionHandler(svc.Sessions, svc.Export, logger)
	adminHandler := NewAdminHandler(svc.Admin, logger)

	authMiddleware := AuthMiddleware(jwtSecret)

	ping := func(c *gin.Context) {
		respondOK(c, http.StatusOK, gin.H{"message": "pong"})
	}
	router.GET("/ping", ping)

	apiV1 := router.Group("/api/v1")
	apiV1.GET("/ping", ping)
	apiV1.POST("/auth/login", authHandler.Login)

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", authHandler.Me)
		protected.POST("/auth/logout", authHandler.Logout)

		trainerGroup := protected.Group("/trainer")
		trainerGroup.Use(RoleMiddleware(domain.RoleTrainer))
		{
			trainerGroup.POST("/sessions", sessionHandler.CreateSessions)
			trainerGroup.GET("/sessions", sessionHandler.ListSessions)
			trainerGroup.POST("/sessions/export", sessionHandler.Export)
			trainerGroup.DELETE("/sessions/:id", sessionHandler.DeleteSession)
			trainerGroup.POST("/sessions/:id/start", sessionHandler.StartSession)
			trainerGroup.POST("/sessions/:id/end", sessionHandler.EndSession)
			trainerGroup.GET("/calendar", sessionHandler.Calendar)
			trainerGroup.GET("/stats", sessionHandler.Stats)
		}

		adminGroup := protected.Group("/admin")
		adminGroup.Use(RoleMiddleware(domain.RoleAdmin))
		{
			adminGroup.GET("/trainers", adminHandler.ListTrainers)
			adminGroup.GET("/trainers/:id/sessions", adminHandler.TrainerSessions)
			adminGroup.GET("/trainers/:id/calendar", adminHandler.TrainerCalendar)
			adminGroup.GET("/trainers/:id/stats", adminHandler.TrainerStats)
		}
	}
}
