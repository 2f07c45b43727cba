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

//go:build !integration

package routemap

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}

	return out
}

func sumByOutcome(t *testing.T, m metricdata.Metrics) map[string]int64 {
	t.Helper()

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)

	out := make(map[string]int64)
	for _, dp := range sum.DataPoints {
		outcome, _ := dp.Attributes.Value("outcome")
		out[outcome.AsString()] += dp.Value
	}

	return out
}

func TestMetrics_RecordsMatchOutcomes(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	r := MustNew(WithMeterProvider(provider), WithResultCache(4))
	require.NoError(t, r.Handle("u", "/users/[id]", nil, "GET"))

	_, _ = r.Match("GET", "/users/1")
	_, _ = r.Match("GET", "/users/1")
	_, _ = r.Match("POST", "/users/1")
	_, _ = r.Match("GET", "/missing")

	metrics := collect(t, reader)

	require.Contains(t, metrics, MetricMatches)
	assert.Equal(t, map[string]int64{
		"matched":            2,
		"method_not_allowed": 1,
		"not_found":          1,
	}, sumByOutcome(t, metrics[MetricMatches]))

	require.Contains(t, metrics, MetricMatchDuration)
	hist, ok := metrics[MetricMatchDuration].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(4), count)

	hits := metrics[MetricCacheHits].Data.(metricdata.Sum[int64])
	require.Len(t, hits.DataPoints, 1)
	assert.Equal(t, int64(1), hits.DataPoints[0].Value)

	misses := metrics[MetricCacheMisses].Data.(metricdata.Sum[int64])
	require.Len(t, misses.DataPoints, 1)
	assert.Equal(t, int64(3), misses.DataPoints[0].Value)
}

func TestMetrics_RecordsEvictions(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	r := MustNew(WithMeterProvider(provider), WithResultCache(2))
	require.NoError(t, r.Handle("u", "/users/[id]", nil))
	for _, p := range []string{"/users/1", "/users/2", "/users/3"} {
		_, err := r.Match("GET", p)
		require.NoError(t, err)
	}

	metrics := collect(t, reader)
	evictions := metrics[MetricCacheEvictions].Data.(metricdata.Sum[int64])
	require.Len(t, evictions.DataPoints, 1)
	assert.Equal(t, int64(1), evictions.DataPoints[0].Value)
}

func TestTracing_MatchSpan(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	r := MustNew(WithTracerProvider(provider))
	require.NoError(t, r.Handle("users.show", "/users/[id]", nil, "GET"))

	ctx, parent := provider.Tracer("test").Start(context.Background(), "request")
	_, err := r.MatchContext(ctx, "get", "/users/7")
	require.NoError(t, err)
	_, err = r.MatchContext(ctx, "DELETE", "/users/7")
	require.ErrorIs(t, err, ErrMethodNotAllowed)
	parent.End()

	var spans []sdktrace.ReadOnlySpan
	for _, s := range recorder.Ended() {
		if s.Name() == "routemap.match" {
			spans = append(spans, s)
		}
	}
	require.Len(t, spans, 2)

	attrs := func(s sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
		out := make(map[attribute.Key]attribute.Value)
		for _, kv := range s.Attributes() {
			out[kv.Key] = kv.Value
		}
		return out
	}

	matched := attrs(spans[0])
	assert.Equal(t, "GET", matched["http.request.method"].AsString())
	assert.Equal(t, "/users/7", matched["url.path"].AsString())
	assert.Equal(t, "/users/[id]", matched["http.route"].AsString())
	assert.Equal(t, "users.show", matched["routemap.route.name"].AsString())
	assert.Equal(t, "matched", matched["routemap.outcome"].AsString())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Equal(t, parent.SpanContext().SpanID(), spans[0].Parent().SpanID())

	rejected := attrs(spans[1])
	assert.Equal(t, "method_not_allowed", rejected["routemap.outcome"].AsString())
	_, hasRoute := rejected["http.route"]
	assert.False(t, hasRoute)
}

func TestNewPrometheusMeterProvider(t *testing.T) {
	t.Parallel()

	provider, handler, err := NewPrometheusMeterProvider()
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	r := MustNew(WithMeterProvider(provider))
	require.NoError(t, r.Handle("home", "/", nil))
	_, err = r.Match("GET", "/")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "routemap_matches_total")
	assert.Contains(t, string(body), `outcome="matched"`)
}
