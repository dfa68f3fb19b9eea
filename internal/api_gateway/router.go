package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-ledger/internal/api_gateway/handler"
	"github.com/portfolio-ledger/internal/api_gateway/middleware"
)

// setupRouter configures API routes and middleware. reportHandler may be nil,
// in which case the /reports routes are not registered.
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	transactionHandler *handler.TransactionHandler,
	userHandler *handler.UserHandler,
	reportHandler *handler.ReportHandler,
) {
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))

	v1 := r.Group("/api/v1")
	{
		transactions := v1.Group("/transactions")
		{
			transactions.POST("", transactionHandler.Create)
			transactions.GET("", transactionHandler.List)
			transactions.GET("/summary", transactionHandler.Summary)
			transactions.GET("/:id", transactionHandler.GetByID)
			transactions.DELETE("/:id", transactionHandler.Delete)
		}

		v1.GET("/budget", userHandler.GetBudget)
		v1.GET("/user", userHandler.GetProfile)
		v1.PUT("/user", userHandler.UpdateProfile)

		if reportHandler != nil {
			reports := v1.Group("/reports")
			{
				reports.GET("/transactions", reportHandler.ListTransactions)
				reports.GET("/budget", reportHandler.LatestSnapshot)
			}
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
