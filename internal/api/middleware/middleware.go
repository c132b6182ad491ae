package middleware

import (
	"net/http"
	"time"

	"contratos-service/internal/api/responses"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// RequestIDHeader é o cabeçalho que carrega o id da requisição.
const RequestIDHeader = "X-Request-ID"

// RequestID reaproveita o id enviado pelo gateway ou gera um novo.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// Logger registra método, rota, status e duração de cada requisição.
func Logger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", c.GetString("request_id")))
	}
}

// ConcurrencyLimit recusa com 429 quando já há max processamentos em andamento.
func ConcurrencyLimit(max int64) gin.HandlerFunc {
	sem := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		if !sem.TryAcquire(1) {
			responses.Error(c, http.StatusTooManyRequests, "Servidor ocupado processando outros arquivos, tente novamente em instantes")
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}

// BodyLimit limita o tamanho do corpo da requisição.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
