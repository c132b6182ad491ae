// Package api monta o roteador HTTP do serviço de contratos.
package api

import (
	"net/http"

	"contratos-service/internal/api/handlers"
	"contratos-service/internal/api/middleware"
	"contratos-service/internal/api/responses"
	"contratos-service/internal/config"
	"contratos-service/internal/core/contracts"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter registra as rotas e middlewares sobre o serviço informado.
func NewRouter(cfg *config.Config, service contracts.Service, log *zap.Logger) *gin.Engine {
	responses.SetLogger(log)
	contractsHandler := handlers.NewContractsHandler(service, cfg.Defaults)

	router := gin.New()
	router.MaxMultipartMemory = cfg.Server.MaxUploadMB << 20
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(log))

	apiV1 := router.Group("/api/v1")
	apiV1.Use(
		middleware.BodyLimit(cfg.Server.MaxUploadMB<<20),
		middleware.ConcurrencyLimit(cfg.Server.MaxConcurrentRequests),
	)
	{
		apiV1.POST("/contratos/processar", contractsHandler.HandleProcessContracts)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "service": "contratos-service"})
	})

	return router
}
