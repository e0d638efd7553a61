// Package middleware provides HTTP middleware for the supply chain API.
package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// MaxRequestIDLength caps request IDs taken from headers.
const MaxRequestIDLength = 128

// Tracing instruments each request with otelgin and tags the server
// span with the request ID so traces and logs correlate. The caller
// decides whether telemetry is on; this middleware always records.
func Tracing(serviceName string) gin.HandlerFunc {
	otel := otelgin.Middleware(serviceName)

	return func(c *gin.Context) {
		otel(c)

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		if requestID := requestIDFromContext(c); requestID != "" {
			span.SetAttributes(attribute.String("request_id", requestID))
		}
	}
}

// requestIDFromContext prefers the ID set by the RequestID middleware
// and falls back to the inbound header, truncated to a sane length.
func requestIDFromContext(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	headerID := c.GetHeader("X-Request-ID")
	if len(headerID) > MaxRequestIDLength {
		headerID = headerID[:MaxRequestIDLength]
	}
	return headerID
}
