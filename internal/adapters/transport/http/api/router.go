package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	httpmw "github.com/Miraines/MoonyAndStarry/account-service/internal/adapters/transport/http/middleware"
	"github.com/Miraines/MoonyAndStarry/account-service/internal/app/account/authn"
	customErrors "github.com/Miraines/MoonyAndStarry/account-service/internal/domain/account/errors"
)

type HealthChecker interface {
	Check(ctx context.Context) error
}

type RouterConfig struct {
	AllowedOrigins   []string
	AllowCredentials bool
}

// recoverWithEnvelope отвечает на панику тем же конвертом, что и на
// необработанную ошибку.
func recoverWithEnvelope(log *zap.Logger) gin.RecoveryFunc {
	return func(c *gin.Context, recovered any) {
		log.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.Stack("stack"),
		)
		env := customErrors.ToEnvelope(fmt.Errorf("panic: %v", recovered))
		observe(unknownOperation, env.Code)
		c.AbortWithStatusJSON(env.Code, Response{
			Data:   map[string]any{},
			Errors: []customErrors.Envelope{env},
		})
	}
}

func NewRouter(
	log *zap.Logger,
	resolver *authn.Resolver,
	handler *Handler,
	health HealthChecker,
	cfg RouterConfig,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.CustomRecovery(recoverWithEnvelope(log)))
	router.Use(httpmw.RequestLogger(log))

	// без списка origin'ов CORS не включаем
	if len(cfg.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins: cfg.AllowedOrigins,
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{
				"Origin", "Content-Type", "Accept",
				"Authorization",
				"X-Requested-With",
				httpmw.RequestIDHeader,
			},
			ExposeHeaders:    []string{"Content-Length", httpmw.RequestIDHeader},
			AllowCredentials: cfg.AllowCredentials,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.POST("/query", httpmw.AuthContext(resolver), handler.Query)

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := health.Check(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "time": time.Now().Unix()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
