// Package observe provides observability primitives for Clarion:
// OpenTelemetry metrics with a Prometheus exporter bridge so the voice loop
// can be scraped via the standard /metrics endpoint.
//
// A package-level default [Metrics] instance ([Default]) is provided for
// convenience; tests should use [NewMetrics] with a custom
// [metric.MeterProvider] to avoid cross-test pollution.
package observe

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all Clarion metrics.
const meterName = "github.com/clarionvoice/clarion"

// Metrics holds all OpenTelemetry metric instruments for the voice loop.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms per loop stage ---

	// HotwordWaitDuration tracks how long each hotword wait lasted,
	// including timeouts.
	HotwordWaitDuration metric.Float64Histogram

	// STTDuration tracks speech-to-text transcription latency.
	STTDuration metric.Float64Histogram

	// SkillDuration tracks skill execution latency. Use with attribute:
	//   attribute.String("skill", ...)
	SkillDuration metric.Float64Histogram

	// TTSDuration tracks text-to-speech synthesis latency.
	TTSDuration metric.Float64Histogram

	// --- Counters ---

	// Utterances counts handled utterances. Use with attributes:
	//   attribute.String("intent", ...), attribute.String("status", ...)
	// where status is one of "ok", "failed", "no_intent", "no_speech".
	Utterances metric.Int64Counter

	// SkillErrors counts skill execution failures. Use with attribute:
	//   attribute.String("skill", ...)
	SkillErrors metric.Int64Counter

	// ProviderErrors counts provider errors. Use with attributes:
	//   attribute.String("kind", ...), attribute.String("provider", ...)
	ProviderErrors metric.Int64Counter
}

// latencyBuckets defines histogram bucket boundaries (in seconds) sized for
// voice interaction latencies.
var latencyBuckets = []float64{
	0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.HotwordWaitDuration, err = m.Float64Histogram("clarion.hotword.wait.duration",
		metric.WithDescription("Duration of each hotword wait, including timeouts."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.STTDuration, err = m.Float64Histogram("clarion.stt.duration",
		metric.WithDescription("Latency of speech-to-text transcription."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.SkillDuration, err = m.Float64Histogram("clarion.skill.duration",
		metric.WithDescription("Latency of skill execution."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.TTSDuration, err = m.Float64Histogram("clarion.tts.duration",
		metric.WithDescription("Latency of text-to-speech synthesis."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.Utterances, err = m.Int64Counter("clarion.utterances.total",
		metric.WithDescription("Number of handled utterances."),
	); err != nil {
		return nil, err
	}
	if met.SkillErrors, err = m.Int64Counter("clarion.skill.errors.total",
		metric.WithDescription("Number of skill execution failures."),
	); err != nil {
		return nil, err
	}
	if met.ProviderErrors, err = m.Int64Counter("clarion.provider.errors.total",
		metric.WithDescription("Number of provider errors."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
	defaultErr     error
)

// Default returns the process-wide [Metrics] built from the global OTel
// meter provider. The first call wins; call [InitProvider] before using it.
func Default() (*Metrics, error) {
	defaultOnce.Do(func() {
		defaultMetrics, defaultErr = NewMetrics(otel.GetMeterProvider())
	})
	return defaultMetrics, defaultErr
}
