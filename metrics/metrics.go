package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hireloop"

type Metrics struct {
	ConversationsCreated   prometheus.Counter
	MessagesAppended       *prometheus.CounterVec
	ReadAcks               *prometheus.CounterVec
	InterviewStatusChanges *prometheus.CounterVec
	InvitationsSent        *prometheus.CounterVec
	HTTPDuration           *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New registers the collectors on reg.
// reg must also be a [prometheus.Gatherer] for [Metrics.Handler] to serve them.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ConversationsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversations_created_total",
			Help:      "Conversations created on first contact.",
		}),
		MessagesAppended: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_appended_total",
			Help:      "Messages appended by kind.",
		}, []string{"kind"}),
		ReadAcks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "read_acks_total",
			Help:      "Read acknowledgments by source and whether they changed state.",
		}, []string{"source", "updated"}),
		InterviewStatusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interview_status_changes_total",
			Help:      "Interview status updates by new status.",
		}, []string{"status"}),
		InvitationsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interview_invitations_total",
			Help:      "Interview invitation mails by result.",
		}, []string{"result"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "code"}),
	}

	reg.MustRegister(
		m.ConversationsCreated,
		m.MessagesAppended,
		m.ReadAcks,
		m.InterviewStatusChanges,
		m.InvitationsSent,
		m.HTTPDuration,
	)

	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	}

	return m
}

func (m *Metrics) Handler() http.Handler {
	if m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRead(source string, updated bool) {
	m.ReadAcks.WithLabelValues(source, strconv.FormatBool(updated)).Inc()
}

func (m *Metrics) ObserveHTTP(method, route string, code int, d time.Duration) {
	m.HTTPDuration.WithLabelValues(method, route, strconv.Itoa(code)).Observe(d.Seconds())
}
