// Package telemetry defines the interviewd counter set and provider
// decorators. Metrics register on the prometheus registerer the server
// passes in and are served by its /metrics endpoint.
package telemetry

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mohammad-safakhou/interviewd/internal/provider"
)

// Metrics holds the service counters.
type Metrics struct {
	SessionsCreated prometheus.Counter
	SessionsEnded   prometheus.Counter
	QuestionsAsked  prometheus.Counter
	GuardrailTrips  prometheus.Counter
	ProviderCalls   *prometheus.CounterVec
	ProviderLatency *prometheus.HistogramVec
}

// New registers the counter set on reg. Pass prometheus.DefaultRegisterer in
// the server and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SessionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "interviewd",
			Name:      "sessions_created_total",
			Help:      "Interview sessions created from uploaded documents.",
		}),
		SessionsEnded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "interviewd",
			Name:      "sessions_ended_total",
			Help:      "Interview sessions deleted by the client.",
		}),
		QuestionsAsked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "interviewd",
			Name:      "questions_asked_total",
			Help:      "Interview questions shown to candidates.",
		}),
		GuardrailTrips: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "interviewd",
			Name:      "guardrail_trips_total",
			Help:      "Turns answered with the insufficient-context message.",
		}),
		ProviderCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "interviewd",
			Name:      "provider_requests_total",
			Help:      "Model provider calls by operation and outcome.",
		}, []string{"op", "outcome"}),
		ProviderLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "interviewd",
			Name:      "provider_request_seconds",
			Help:      "Model provider call latency by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
}

func (m *Metrics) observeProvider(op string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.ProviderCalls.WithLabelValues(op, outcome).Inc()
	m.ProviderLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// InstrumentedEmbedder counts and times every embedding call.
type InstrumentedEmbedder struct {
	Next    provider.Embedder
	Metrics *Metrics
}

func (e InstrumentedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	start := time.Now()
	vectors, err := e.Next.Embed(ctx, texts)
	e.Metrics.observeProvider("embed", start, err)
	return vectors, err
}

// InstrumentedGenerator counts and times every generation call.
type InstrumentedGenerator struct {
	Next    provider.Generator
	Metrics *Metrics
}

func (g InstrumentedGenerator) Generate(ctx context.Context, msgs []provider.Message, opts provider.Options) (string, error) {
	start := time.Now()
	out, err := g.Next.Generate(ctx, msgs, opts)
	g.Metrics.observeProvider("generate", start, err)
	return out, err
}

var (
	_ provider.Embedder  = InstrumentedEmbedder{}
	_ provider.Generator = InstrumentedGenerator{}
)
