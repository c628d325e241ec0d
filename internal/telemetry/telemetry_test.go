package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mohammad-safakhou/interviewd/internal/provider"
)

type flakyEmbedder struct {
	err error
}

func (f flakyEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1}
	}
	return out, nil
}

type flakyGenerator struct {
	err error
}

func (f flakyGenerator) Generate(context.Context, []provider.Message, provider.Options) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "ok", nil
}

func TestCountersRegister(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.SessionsCreated.Inc()
	m.SessionsCreated.Inc()
	m.QuestionsAsked.Inc()
	m.GuardrailTrips.Inc()

	if got := testutil.ToFloat64(m.SessionsCreated); got != 2 {
		t.Fatalf("sessions created = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.QuestionsAsked); got != 1 {
		t.Fatalf("questions asked = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.SessionsEnded); got != 0 {
		t.Fatalf("sessions ended = %v, want 0", got)
	}
}

func TestInstrumentedEmbedder(t *testing.T) {
	t.Parallel()
	m := New(prometheus.NewRegistry())

	emb := InstrumentedEmbedder{Next: flakyEmbedder{}, Metrics: m}
	if _, err := emb.Embed(context.Background(), []string{"a", "b"}); err != nil {
		t.Fatalf("embed: %v", err)
	}

	failing := InstrumentedEmbedder{Next: flakyEmbedder{err: errors.New("down")}, Metrics: m}
	if _, err := failing.Embed(context.Background(), []string{"a"}); err == nil {
		t.Fatal("expected error")
	}

	if got := testutil.ToFloat64(m.ProviderCalls.WithLabelValues("embed", "ok")); got != 1 {
		t.Fatalf("ok calls = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ProviderCalls.WithLabelValues("embed", "error")); got != 1 {
		t.Fatalf("error calls = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.ProviderLatency); got != 1 {
		t.Fatalf("latency series = %d, want 1", got)
	}
}

func TestInstrumentedGenerator(t *testing.T) {
	t.Parallel()
	m := New(prometheus.NewRegistry())

	gen := InstrumentedGenerator{Next: flakyGenerator{}, Metrics: m}
	out, err := gen.Generate(context.Background(), nil, provider.Options{})
	if err != nil || out != "ok" {
		t.Fatalf("generate: %q, %v", out, err)
	}
	if got := testutil.ToFloat64(m.ProviderCalls.WithLabelValues("generate", "ok")); got != 1 {
		t.Fatalf("ok calls = %v, want 1", got)
	}
}
