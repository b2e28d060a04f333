// Package telemetry wraps the OpenTelemetry metric API for the engine's
// instrumentation points: chunks generated and host-loaded, generation
// latency, nodes expanded, segments emitted, and search duration. Cache
// hit/miss counters are defined too, but the chunk cache does not report
// to them. It defaults to the global no-op meter
// provider, so the engine carries zero overhead until a host wires in a
// real one via SetMeterProvider.
package telemetry

import (
	"context"
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "netherpath"

// Metrics bundles the instruments the search driver and terrain generator
// report to. A nil *Metrics is safe to call methods on (all become no-ops),
// mirroring the teacher's nil-receiver-safe NavigatorMetrics pattern.
type Metrics struct {
	chunksGenerated   metric.Int64Counter
	chunksHostLoaded  metric.Int64Counter
	cacheHits         metric.Int64Counter
	cacheMisses       metric.Int64Counter
	nodesExpanded     metric.Int64Counter
	segmentsEmitted   metric.Int64Counter
	searchDuration    metric.Float64Histogram
	generationLatency metric.Float64Histogram
}

var (
	mu       sync.Mutex
	override metric.MeterProvider
)

// SetMeterProvider installs the MeterProvider used by New, overriding the
// globally registered otel provider. Call before constructing an
// engine.Context to have its metrics flow to a real backend instead of the
// default no-op provider.
func SetMeterProvider(provider metric.MeterProvider) {
	mu.Lock()
	override = provider
	mu.Unlock()
}

func meterProvider() metric.MeterProvider {
	mu.Lock()
	defer mu.Unlock()
	if override != nil {
		return override
	}
	return otel.GetMeterProvider()
}

// New builds a Metrics bundle from the currently installed MeterProvider
// (the global otel provider by default, which is a no-op until a host
// registers a real one via otel.SetMeterProvider or telemetry.SetMeterProvider).
func New() *Metrics {
	meter := meterProvider().Meter(meterName)

	m := &Metrics{}
	var err error
	if m.chunksGenerated, err = meter.Int64Counter("netherpath.chunks.generated"); err != nil {
		log.Printf("telemetry: create chunks.generated counter: %v", err)
	}
	if m.chunksHostLoaded, err = meter.Int64Counter("netherpath.chunks.host_loaded"); err != nil {
		log.Printf("telemetry: create chunks.host_loaded counter: %v", err)
	}
	if m.cacheHits, err = meter.Int64Counter("netherpath.cache.hits"); err != nil {
		log.Printf("telemetry: create cache.hits counter: %v", err)
	}
	if m.cacheMisses, err = meter.Int64Counter("netherpath.cache.misses"); err != nil {
		log.Printf("telemetry: create cache.misses counter: %v", err)
	}
	if m.nodesExpanded, err = meter.Int64Counter("netherpath.search.nodes_expanded"); err != nil {
		log.Printf("telemetry: create search.nodes_expanded counter: %v", err)
	}
	if m.segmentsEmitted, err = meter.Int64Counter("netherpath.search.segments_emitted"); err != nil {
		log.Printf("telemetry: create search.segments_emitted counter: %v", err)
	}
	if m.searchDuration, err = meter.Float64Histogram("netherpath.search.duration_ms"); err != nil {
		log.Printf("telemetry: create search.duration_ms histogram: %v", err)
	}
	if m.generationLatency, err = meter.Float64Histogram("netherpath.terrain.generation_ms"); err != nil {
		log.Printf("telemetry: create terrain.generation_ms histogram: %v", err)
	}
	return m
}

func (m *Metrics) ChunkGenerated(ctx context.Context) {
	if m == nil || m.chunksGenerated == nil {
		return
	}
	m.chunksGenerated.Add(ctx, 1)
}

func (m *Metrics) ChunkHostLoaded(ctx context.Context) {
	if m == nil || m.chunksHostLoaded == nil {
		return
	}
	m.chunksHostLoaded.Add(ctx, 1)
}

func (m *Metrics) CacheHit(ctx context.Context) {
	if m == nil || m.cacheHits == nil {
		return
	}
	m.cacheHits.Add(ctx, 1)
}

func (m *Metrics) CacheMiss(ctx context.Context) {
	if m == nil || m.cacheMisses == nil {
		return
	}
	m.cacheMisses.Add(ctx, 1)
}

func (m *Metrics) NodeExpanded(ctx context.Context) {
	if m == nil || m.nodesExpanded == nil {
		return
	}
	m.nodesExpanded.Add(ctx, 1)
}

func (m *Metrics) SegmentEmitted(ctx context.Context) {
	if m == nil || m.segmentsEmitted == nil {
		return
	}
	m.segmentsEmitted.Add(ctx, 1)
}

func (m *Metrics) SearchDuration(ctx context.Context, ms float64) {
	if m == nil || m.searchDuration == nil {
		return
	}
	m.searchDuration.Record(ctx, ms)
}

func (m *Metrics) GenerationLatency(ctx context.Context, ms float64) {
	if m == nil || m.generationLatency == nil {
		return
	}
	m.generationLatency.Record(ctx, ms)
}
