// Package ginmw exposes the engine's inbound instrumentation as gin
// middleware, for hosts that want request and latency metrics recorded
// as a side effect of handling traffic.
package ginmw

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RequestRecorder counts one request per method label.
type RequestRecorder interface {
	RecordRequest(method string)
}

// LatencyObserver accumulates a handler duration in milliseconds.
type LatencyObserver interface {
	Observe(category string, durationMs float64)
}

// RequestTracker counts every request under its method label. Recording
// is a plain in-memory increment and never blocks the handler.
func RequestTracker(rec RequestRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec.RecordRequest(c.Request.Method)
		c.Next()
	}
}

// Latency observes the wall time of each request into the named
// latency category.
func Latency(obs LatencyObserver, category string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		obs.Observe(category, float64(time.Since(start))/float64(time.Millisecond))
	}
}
