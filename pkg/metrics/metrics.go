package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission results
const (
	ResultSuccess    = "success"
	ResultInvalid    = "validation_failed"
	ResultSendFailed = "send_failed"
	ResultLimited    = "rate_limited"
)

// Metrics holds the relay's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry    *prometheus.Registry
	submissions *prometheus.CounterVec
	messages    *prometheus.CounterVec
}

// New registers the relay collectors, plus process and runtime collectors,
// on reg. A fresh registry is created when reg is nil.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		registry: reg,
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contact_relay",
			Name:      "submissions_total",
			Help:      "Contact form submissions by outcome.",
		}, []string{"result"}),
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contact_relay",
			Name:      "messages_total",
			Help:      "Outbound provider messages by recipient, channel and outcome.",
		}, []string{"recipient", "channel", "result"}),
	}

	for _, c := range []prometheus.Collector{
		m.submissions,
		m.messages,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	} {
		register(reg, c)
	}
	return m
}

func register(reg prometheus.Registerer, c prometheus.Collector) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return
		}
		panic(err)
	}
}

// Submission counts one handled submission.
func (m *Metrics) Submission(result string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(result).Inc()
}

// Message counts one provider call. sent is false when the call failed.
func (m *Metrics) Message(recipient, channel string, sent bool) {
	if m == nil {
		return
	}
	result := "sent"
	if !sent {
		result = "failed"
	}
	m.messages.WithLabelValues(recipient, channel, result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
