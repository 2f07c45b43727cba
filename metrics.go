// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package routemap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"rivaas.dev/routemap/semconv"
)

// Metric names recorded when a meter provider is configured.
const (
	MetricMatches        = "routemap.matches"
	MetricMatchDuration  = "routemap.match.duration"
	MetricCacheHits      = "routemap.result_cache.hits"
	MetricCacheMisses    = "routemap.result_cache.misses"
	MetricCacheEvictions = "routemap.result_cache.evictions"
)

// matchMetrics holds the router instruments. Methods are no-ops on nil.
type matchMetrics struct {
	matches   metric.Int64Counter
	duration  metric.Float64Histogram
	hits      metric.Int64Counter
	misses    metric.Int64Counter
	evictions metric.Int64Counter
}

func newMatchMetrics(meter metric.Meter) (*matchMetrics, error) {
	m := &matchMetrics{}
	var err error

	if m.matches, err = meter.Int64Counter(MetricMatches,
		metric.WithDescription("Number of match attempts by outcome"),
	); err != nil {
		return nil, fmt.Errorf("failed to create %s counter: %w", MetricMatches, err)
	}
	if m.duration, err = meter.Float64Histogram(MetricMatchDuration,
		metric.WithDescription("Time spent resolving a request path"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create %s histogram: %w", MetricMatchDuration, err)
	}
	if m.hits, err = meter.Int64Counter(MetricCacheHits,
		metric.WithDescription("Matches served from the result cache"),
	); err != nil {
		return nil, fmt.Errorf("failed to create %s counter: %w", MetricCacheHits, err)
	}
	if m.misses, err = meter.Int64Counter(MetricCacheMisses,
		metric.WithDescription("Matches not found in the result cache"),
	); err != nil {
		return nil, fmt.Errorf("failed to create %s counter: %w", MetricCacheMisses, err)
	}
	if m.evictions, err = meter.Int64Counter(MetricCacheEvictions,
		metric.WithDescription("Entries dropped from the result cache"),
	); err != nil {
		return nil, fmt.Errorf("failed to create %s counter: %w", MetricCacheEvictions, err)
	}

	return m, nil
}

func (m *matchMetrics) recordMatch(ctx context.Context, outcome string, lookup cacheLookup, elapsed time.Duration) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String(semconv.MetricOutcome, outcome))
	m.matches.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)

	switch lookup {
	case cacheHit:
		m.hits.Add(ctx, 1)
	case cacheMiss:
		m.misses.Add(ctx, 1)
	case cacheDisabled:
	}
}

func (m *matchMetrics) recordEvictions(ctx context.Context, n int) {
	if m == nil {
		return
	}
	m.evictions.Add(ctx, int64(n))
}

// NewPrometheusMeterProvider creates a meter provider backed by a private
// Prometheus registry, and the HTTP handler that exposes it.
//
// Example:
//
//	provider, handler, err := routemap.NewPrometheusMeterProvider()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Shutdown(context.Background())
//	r := routemap.MustNew(routemap.WithMeterProvider(provider))
//	http.Handle("/metrics", handler)
func NewPrometheusMeterProvider() (*sdkmetric.MeterProvider, http.Handler, error) {
	registry := promclient.NewRegistry()

	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return provider, handler, nil
}
