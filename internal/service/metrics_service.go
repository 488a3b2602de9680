package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	verdictTotal    *prometheus.CounterVec
	checkinDistance prometheus.Histogram
	casLatency      prometheus.Observer
	wechatLatency   prometheus.Observer
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	verdictTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_verdicts_total",
		Help: "Attendance verdicts issued, by resolved status",
	}, []string{"status"})

	checkinDistance := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkin_distance_meters",
		Help:    "Distance between the reporter and the session building at check-in",
		Buckets: []float64{10, 25, 50, 100, 200, 500, 1000, 5000},
	})

	casLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cas_validate_duration_seconds",
		Help:    "Latency of CAS serviceValidate calls",
		Buckets: prometheus.DefBuckets,
	})

	wechatLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "wechat_api_duration_seconds",
		Help:    "Latency of WeChat Work API calls",
		Buckets: prometheus.DefBuckets,
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, verdictTotal, checkinDistance, casLatency, wechatLatency, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		verdictTotal:    verdictTotal,
		checkinDistance: checkinDistance,
		casLatency:      casLatency,
		wechatLatency:   wechatLatency,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records per-route request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordVerdict counts a resolved attendance verdict by status.
func (m *MetricsService) RecordVerdict(status string) {
	if m == nil {
		return
	}
	m.verdictTotal.WithLabelValues(status).Inc()
}

// ObserveCheckInDistance tracks the reporter-to-building distance distribution.
func (m *MetricsService) ObserveCheckInDistance(meters float64) {
	if m == nil {
		return
	}
	m.checkinDistance.Observe(meters)
}

// ObserveCASValidate records CAS round-trip timing.
func (m *MetricsService) ObserveCASValidate(duration time.Duration) {
	if m == nil || m.casLatency == nil {
		return
	}
	m.casLatency.Observe(duration.Seconds())
}

// ObserveWeChatCall records WeChat Work API round-trip timing.
func (m *MetricsService) ObserveWeChatCall(duration time.Duration) {
	if m == nil || m.wechatLatency == nil {
		return
	}
	m.wechatLatency.Observe(duration.Seconds())
}
