package tracing

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/propertydesk/internal/observability/context"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const httpTracerName = "github.com/smallbiznis/propertydesk/internal/server"

// probes are scraped on a timer and never traced.
var probes = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// GinMiddleware opens one server span per back-office request.
func GinMiddleware() gin.HandlerFunc {
	tracer := otel.Tracer(httpTracerName)
	return func(c *gin.Context) {
		if _, ok := probes[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		ctx := extractRequest(c.Request)
		requestID := obscontext.RequestIDFromContext(ctx)
		if requestID != "" {
			ctx = withRequestID(ctx, requestID)
		}

		ctx, span := tracer.Start(ctx, spanName(c.Request.Method, ""), trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		start := time.Now()
		c.Next()

		route := c.FullPath()
		span.SetName(spanName(c.Request.Method, route))
		attrs := requestAttributes(c, route, time.Since(start))
		if requestID != "" {
			attrs = append(attrs, attribute.String("propertydesk.request_id", requestID))
		}
		span.SetAttributes(SafeAttributes(attrs...)...)

		if c.Writer.Status() >= http.StatusInternalServerError {
			if lastErr := c.Errors.Last(); lastErr != nil {
				span.RecordError(SafeError(lastErr.Err))
			}
			span.SetStatus(codes.Error, http.StatusText(c.Writer.Status()))
		}
	}
}

func spanName(method, route string) string {
	method = strings.ToUpper(method)
	if route == "" {
		return method
	}
	return method + " " + route
}

func requestAttributes(c *gin.Context, route string, elapsed time.Duration) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("http.request.method", c.Request.Method),
		attribute.Int("http.response.status_code", c.Writer.Status()),
		attribute.Int64("http.server.duration_ms", elapsed.Milliseconds()),
	}
	if route != "" {
		attrs = append(attrs,
			attribute.String("http.route", route),
			attribute.String("propertydesk.resource", resourceOf(route)),
		)
	}
	if id := c.Param("id"); id != "" {
		attrs = append(attrs, attribute.String("propertydesk.record_id", id))
	}
	if batchID := strings.TrimSpace(c.GetString("batch_id")); batchID != "" {
		attrs = append(attrs, attribute.String("propertydesk.batch_id", batchID))
	}
	return attrs
}

// resourceOf names the back-office resource behind a route, so
// /api/water/readings/:id becomes water.readings.
func resourceOf(route string) string {
	var parts []string
	for _, part := range strings.Split(strings.TrimPrefix(route, "/api"), "/") {
		if part == "" || strings.HasPrefix(part, ":") {
			continue
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ".")
}
