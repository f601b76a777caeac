package metrics

import "github.com/prometheus/client_golang/prometheus"

func (m *Metrics) SubmissionCounter(result string) prometheus.Counter {
	return m.submissions.WithLabelValues(result)
}

func (m *Metrics) MessageCounter(recipient, channel, result string) prometheus.Counter {
	return m.messages.WithLabelValues(recipient, channel, result)
}
