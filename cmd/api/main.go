package main

import (
	"context"

	_ "packtrack/api/swagger" // swagger docs
	"packtrack/internal/config"
	"packtrack/internal/database"
	"packtrack/internal/handler"
	"packtrack/internal/middleware"
	"packtrack/internal/remote"
	"packtrack/internal/service"
	"packtrack/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           PackTrack Dashboard API
// @version         1.0
// @description     Backend-for-frontend for the package tracking dashboard, fronting the hosted auth, row and function endpoints.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	db, err := database.NewConnection(cfg.DatabaseDSN)
	if err != nil {
		logrus.Fatalf("Database connection failed: %v", err)
	}
	logrus.Println("Connected to PostgreSQL successfully.")

	// Remote backend client — one instance serves all four API surfaces.
	client := remote.NewClient(cfg.RemoteURL, cfg.FunctionsURL, cfg.APIKey)

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (remote client -> services -> handlers)
	sessionService := service.NewSessionService(client, cfg.InitialRefreshToken)
	go sessionService.Initialize(context.Background())

	staffService := service.NewStaffService(sessionService, client, client)
	packageService := service.NewPackageService(sessionService, client, client, client, cfg.SearchDebounce)
	notifyService := service.NewNotifyService(wsHub)
	defer notifyService.Close()
	auditService := service.NewAuditService(db)

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(sessionService, staffService, auditService)
	packageHandler := handler.NewPackageHandler(packageService, sessionService, notifyService, auditService, wsHub)
	staffHandler := handler.NewStaffHandler(staffService, sessionService, auditService)
	notifyHandler := handler.NewNotifyHandler(notifyService)
	auditHandler := handler.NewAuditHandler(auditService, staffService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// Login page placeholder — the gate redirects unauthenticated
	// navigation here.
	router.GET(middleware.LoginRoute, func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Please sign in via POST /login"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, []byte(cfg.JWTSecret))
	})

	// Session endpoints stay reachable before the gate resolves.
	authHandler.RegisterRoutes(router.Group(""))

	// Everything else suspends on the session gate, then proves its own
	// provider token.
	gated := router.Group("", middleware.RequireGate(sessionService), middleware.RequireAuth([]byte(cfg.JWTSecret)))
	packageHandler.RegisterRoutes(gated)
	staffHandler.RegisterRoutes(gated)
	notifyHandler.RegisterRoutes(gated)
	auditHandler.RegisterRoutes(gated)

	logrus.Printf("Server listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logrus.Fatalf("Server failed: %v", err)
	}
}
