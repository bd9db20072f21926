package api

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/bocspot/internal/middleware"
)

// RequestTimeout bounds every API request.
const RequestTimeout = 10 * time.Second

// NewRouter creates the gin engine for serve mode.
//
// Middlewares, in order: RequestID, RequestLogger, RecoveryMiddleware,
// ErrorHandler, RateLimiter, Timeout.
//
// Health probes are registered by the caller (see app.InitializeApp).
func NewRouter(handler *Handler) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		middleware.RateLimiter(),
		middleware.Timeout(RequestTimeout),
	)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")
	{
		quotes := v1.Group("/quotes")
		quotes.GET("", handler.ListQuotes)
		quotes.GET("/latest", handler.LatestQuote)
		quotes.GET("/chart.png", handler.Chart)
		quotes.POST("/fetch", handler.FetchQuote)
	}

	return router
}
