package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_http_requests_total",
		Help: "Total HTTP requests by method, path and status code",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rental_http_request_duration_seconds",
		Help:    "HTTP request latency by method and path",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	CheckInsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_checkins_total",
		Help: "Contracts opened",
	})

	CheckOutsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_checkouts_total",
		Help: "Contracts closed",
	})

	MaintenanceRaisedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_maintenance_records_total",
		Help: "Maintenance records raised at check-out",
	})

	NotificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_notification_failures_total",
		Help: "Post-checkout notification deliveries that failed",
	})
)
