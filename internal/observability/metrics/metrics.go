package metrics

import "github.com/prometheus/client_golang/prometheus"

// BotMetrics exposes counters/histograms for the conversation flows.
type BotMetrics struct {
	inboundTotal    *prometheus.CounterVec
	outboundTotal   *prometheus.CounterVec
	leadsSavedTotal *prometheus.CounterVec
	answerLatency   prometheus.Histogram
}

func NewBotMetrics(reg prometheus.Registerer) *BotMetrics {
	m := &BotMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "loanbot",
			Subsystem: "messaging",
			Name:      "inbound_total",
			Help:      "Total inbound messages by kind",
		}, []string{"kind", "status"}),
		outboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "loanbot",
			Subsystem: "messaging",
			Name:      "outbound_total",
			Help:      "Total outbound sends by action kind",
		}, []string{"kind", "status"}),
		leadsSavedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "loanbot",
			Subsystem: "leads",
			Name:      "saved_total",
			Help:      "Total leads handed to the persistence store",
		}, []string{"status"}),
		answerLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "loanbot",
			Subsystem: "ai",
			Name:      "answer_latency_seconds",
			Help:      "Latency of answering-service calls",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.outboundTotal, m.leadsSavedTotal, m.answerLatency)
	return m
}

func (m *BotMetrics) ObserveInbound(kind, status string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(kind, status).Inc()
}

func (m *BotMetrics) ObserveOutbound(kind, status string) {
	if m == nil {
		return
	}
	m.outboundTotal.WithLabelValues(kind, status).Inc()
}

func (m *BotMetrics) ObserveLeadSaved(status string) {
	if m == nil {
		return
	}
	m.leadsSavedTotal.WithLabelValues(status).Inc()
}

func (m *BotMetrics) ObserveAnswerLatency(seconds float64) {
	if m == nil {
		return
	}
	m.answerLatency.Observe(seconds)
}
