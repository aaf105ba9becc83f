package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/annel0/mine-game/internal/logging"
)

// TraceIDKey - ключ gin.Context с идентификатором запроса
const TraceIDKey = "trace_id"

// RequestLogger пишет по строке на запрос и проставляет заголовок X-Trace-ID.
// Проверки /health уходят в DEBUG, чтобы не засорять лог.
type RequestLogger struct {
	logger *logging.Logger
	quiet  map[string]bool
}

func NewRequestLogger(logger *logging.Logger) *RequestLogger {
	return &RequestLogger{logger: logger, quiet: map[string]bool{"/health": true, metricsPath: true}}
}

func (rl *RequestLogger) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := requestTraceID(c)
		c.Set(TraceIDKey, traceID)
		c.Header("X-Trace-ID", traceID)

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()
		took := time.Since(start).Round(time.Microsecond)

		switch {
		case status >= 500:
			rl.logger.Error("[HTTP] %s %s -> %d за %s trace=%s: %s", c.Request.Method, route, status, took, traceID, c.Errors.String())
		case rl.quiet[route]:
			rl.logger.Debug("[HTTP] %s %s -> %d за %s", c.Request.Method, route, status, took)
		default:
			rl.logger.Info("[HTTP] %s %s -> %d за %s ip=%s trace=%s", c.Request.Method, route, status, took, c.ClientIP(), traceID)
		}
	}
}

// requestTraceID берёт trace-ID из span OpenTelemetry, без span генерирует UUID
func requestTraceID(c *gin.Context) string {
	if sc := trace.SpanFromContext(c.Request.Context()).SpanContext(); sc.IsValid() {
		return sc.TraceID().String()
	}
	return uuid.NewString()
}
