package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "nexus"

// PrometheusRecorder exports metrics through a private registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	usersRegistered    prometheus.Counter
	logins             *prometheus.CounterVec
	requestsCreated    prometheus.Counter
	requestsResponded  *prometheus.CounterVec
	messagesSent       prometheus.Counter
	connectionsCreated prometheus.Counter
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	activityProcessed  *prometheus.CounterVec
	activityDepth      prometheus.Gauge
}

// NewPrometheus registers all collectors on a fresh registry, including the
// Go runtime and process collectors.
func NewPrometheus() *PrometheusRecorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &PrometheusRecorder{
		registry: reg,
		usersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_registered_total",
			Help:      "Accounts created through registration or seeding.",
		}),
		logins: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		requestsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collaboration_requests_created_total",
			Help:      "Collaboration requests sent.",
		}),
		requestsResponded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collaboration_requests_responded_total",
			Help:      "Collaboration request status changes by new status.",
		}, []string{"status"}),
		messagesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_sent_total",
			Help:      "Direct messages sent.",
		}),
		connectionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_created_total",
			Help:      "Connections established.",
		}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests served.",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		activityProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "activity",
			Name:      "events_processed_total",
			Help:      "Activity stream entries handled by the feed worker, by result.",
		}, []string{"result"}),
		activityDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "activity",
			Name:      "queue_depth",
			Help:      "Pending plus unread entries for the feed consumer group.",
		}),
	}
}

// Registry returns the underlying registry.
func (p *PrometheusRecorder) Registry() *prometheus.Registry {
	return p.registry
}

// Handler serves the registry in Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

func (p *PrometheusRecorder) IncUserRegistered() { p.usersRegistered.Inc() }

func (p *PrometheusRecorder) IncLogin(success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	p.logins.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncRequestCreated() { p.requestsCreated.Inc() }

func (p *PrometheusRecorder) IncRequestResponded(status string) {
	p.requestsResponded.WithLabelValues(status).Inc()
}

func (p *PrometheusRecorder) IncMessageSent() { p.messagesSent.Inc() }

func (p *PrometheusRecorder) IncConnectionCreated() { p.connectionsCreated.Inc() }

func (p *PrometheusRecorder) IncActivityProcessed(result string) {
	p.activityProcessed.WithLabelValues(result).Inc()
}

func (p *PrometheusRecorder) SetActivityQueueDepth(depth int64) {
	p.activityDepth.Set(float64(depth))
}

func (p *PrometheusRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
