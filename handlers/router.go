package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salesdash/api/metrics"
	"salesdash/api/middleware"
)

type RouterConfig struct {
	Auth        *AuthHandlers
	Dashboard   *DashboardHandlers
	Ingest      *IngestHandlers // nil when the order source is read-only
	FEOrigin    string
	AuthDefault string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), metrics.Middleware(), middleware.CORSMiddleware(cfg.FEOrigin))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	{
		api.POST("/signup", cfg.Auth.Signup)
		api.POST("/login", cfg.Auth.Login)
		api.POST("/logout", cfg.Auth.Logout)

		protected := api.Group("/")
		protected.Use(middleware.AuthRequired(cfg.AuthDefault))
		{
			protected.GET("/dashboard", cfg.Dashboard.GetDashboard)
			protected.GET("/dashboard/range", cfg.Dashboard.GetRange)

			stats := protected.Group("/stats")
			{
				stats.GET("/revenue-by-state", cfg.Dashboard.GetRevenueByState)
				stats.GET("/revenue-by-city", cfg.Dashboard.GetRevenueByCity)
				stats.GET("/categories", cfg.Dashboard.GetCategoryPerformance)
				stats.GET("/rfm", cfg.Dashboard.GetRFM)
				stats.GET("/rfm/segments", cfg.Dashboard.GetRFMSegments)
			}

			if cfg.Ingest != nil {
				protected.POST("/orders", cfg.Ingest.IngestOrders)
			}
		}
	}
	return r
}
