package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis command failures by command name.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "flock_redis_errors_total",
	Help: "Number of Redis command errors",
}, []string{"command"})

// NotificationsDelivered counts inbox notifications written, by delivery kind.
var NotificationsDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "flock_notifications_delivered_total",
	Help: "Number of notifications appended to user inboxes",
}, []string{"kind"})

// ActiveWebSockets tracks currently open notification stream connections.
var ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "flock_active_websockets",
	Help: "Number of open WebSocket connections",
})

// InitMetrics creates the Prometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the request-tracking middleware handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
