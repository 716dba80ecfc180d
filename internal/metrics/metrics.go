package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

// Metrics holds the service collectors on a private registry.
type Metrics struct {
	reg *prometheus.Registry

	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	checkouts      *prometheus.CounterVec
	submissions    *prometheus.CounterVec
	submissionTime *prometheus.HistogramVec
	chatRequests   *prometheus.CounterVec
	chatDuration   prometheus.Histogram
	activeSessions prometheus.GaugeFunc
}

// New registers all collectors. sessions reports the live session count.
func New(sessions func() int) *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total",
			Help: "HTTP requests by route pattern, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "checkouts_total",
			Help: "Checkout attempts by result (placed, empty_cart, invalid_details, invalid_payment).",
		}, []string{"result"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "sink_submissions_total",
			Help: "Finished order record submissions by sink and status.",
		}, []string{"sink", "status"}),
		submissionTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "sink_submission_duration_seconds",
			Help:    "Time spent submitting one order record.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10, 30},
		}, []string{"sink"}),
		chatRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "chat_requests_total",
			Help: "Assistant requests by outcome (ok, empty, error).",
		}, []string{"outcome"}),
		chatDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "chat_request_duration_seconds",
			Help:    "Assistant model call latency.",
			Buckets: []float64{.25, .5, 1, 2, 5, 10, 30},
		}),
	}
	m.activeSessions = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace, Name: "active_sessions",
		Help: "Browsing sessions currently held in memory.",
	}, func() float64 {
		if sessions == nil {
			return 0
		}
		return float64(sessions())
	})

	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests, m.httpDuration,
		m.checkouts,
		m.submissions, m.submissionTime,
		m.chatRequests, m.chatDuration,
		m.activeSessions,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

func (m *Metrics) Checkout(result string) {
	m.checkouts.WithLabelValues(result).Inc()
}

func (m *Metrics) Submission(sink, status string, d time.Duration) {
	m.submissions.WithLabelValues(sink, status).Inc()
	m.submissionTime.WithLabelValues(sink).Observe(d.Seconds())
}

func (m *Metrics) Chat(outcome string, d time.Duration) {
	m.chatRequests.WithLabelValues(outcome).Inc()
	m.chatDuration.Observe(d.Seconds())
}

// Middleware records every request under its chi route pattern, so ids in
// paths do not explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		m.httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(sw.status)).Inc()
		m.httpDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
