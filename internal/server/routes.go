package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"fintrack/internal/auth"
	"fintrack/internal/transactions"
)

// RegisterRoutes builds the gin engine with all application routes.
func (s *Server) RegisterRoutes() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	tokens := auth.NewTokenManager(s.cfg.JWTSecret, s.cfg.TokenTTL)
	userRepo := auth.NewRepository(s.db)
	authService := auth.NewService(userRepo, tokens, s.log)
	authHandler := auth.NewHandler(authService, s.log)

	txnRepo := transactions.NewRepository(s.db)
	txnService := transactions.NewService(txnRepo, s.cfg.RedisAddr, s.cfg.RedisPassword, s.log)
	var exporter *transactions.Exporter
	if s.storage != nil {
		exporter = transactions.NewExporter(txnService, s.storage, s.log)
	}
	txnHandler := transactions.NewHandler(txnService, exporter, s.log)

	requireAuth := auth.RequireAuth(tokens, userRepo)

	r.GET("/health", s.healthHandler)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)

		profile := authGroup.Group("")
		profile.Use(requireAuth)
		{
			profile.GET("/profile", authHandler.GetProfile)
			profile.PUT("/profile", authHandler.UpdateProfile)
			profile.DELETE("/profile", authHandler.DeleteAccount)
			profile.PUT("/password", authHandler.ChangePassword)
		}
	}

	txnGroup := r.Group("/transactions")
	txnGroup.Use(requireAuth)
	{
		txnGroup.GET("", txnHandler.List)
		txnGroup.POST("", txnHandler.Create)
		txnGroup.GET("/stats", txnHandler.GetStats)
		txnGroup.GET("/export", txnHandler.Export)

		owned := txnGroup.Group("")
		owned.Use(transactions.RequireOwnership(txnService))
		{
			owned.GET("/:id", txnHandler.Get)
			owned.PUT("/:id", txnHandler.Update)
			owned.DELETE("/:id", txnHandler.Delete)
		}
	}

	return r
}

// healthHandler reports readiness of the database and optional storage.
func (s *Server) healthHandler(c *gin.Context) {
	if err := s.db.Health(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "unhealthy",
			"error":  "database unreachable",
		})
		return
	}

	status := gin.H{"status": "healthy"}
	if s.storage != nil {
		if err := s.storage.Health(c.Request.Context()); err != nil {
			status["storage"] = "unreachable"
		} else {
			status["storage"] = "healthy"
		}
	}

	c.JSON(http.StatusOK, status)
}
