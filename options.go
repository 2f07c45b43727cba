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
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/routemap/compiler"
	"rivaas.dev/routemap/route"
)

// Option configures a [Router].
type Option func(*Router)

// WithDelimiters sets the placeholder delimiter pair. The default is "[" and "]".
//
// Example:
//
//	r := routemap.MustNew(routemap.WithDelimiters("{", "}"))
//	_ = r.Handle("users.show", "/users/{id}", showUser, "GET")
func WithDelimiters(open, close string) Option {
	return func(r *Router) {
		r.delimOpen, r.delimClose = open, close
	}
}

// WithPatterns adds or replaces named placeholder patterns. The built-in
// table stays in place for names not listed.
func WithPatterns(patterns compiler.Patterns) Option {
	return func(r *Router) {
		r.patterns = r.patterns.Merge(patterns)
	}
}

// WithStore sets the storage strategy for the route collection.
func WithStore(store route.Store) Option {
	return func(r *Router) {
		r.store = store
	}
}

// WithLogger sets the logger for registration, snapshot and cache events.
// Without it the router logs nothing.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithDiagnostics sets a diagnostic handler for the router.
func WithDiagnostics(handler DiagnosticHandler) Option {
	return func(r *Router) {
		r.diagnostics = handler
	}
}

// WithResultCache memoizes successful matches for up to capacity distinct
// (method, path) pairs. When full, the least recently used half is dropped
// in one batch. The cache is purged whenever routes change.
//
// Example:
//
//	r := routemap.MustNew(routemap.WithResultCache(4096))
func WithResultCache(capacity int) Option {
	return func(r *Router) {
		r.resultCacheEnabled = true
		r.resultCacheCapacity = capacity
	}
}

// WithBloomFilter configures the bloom pre-check used for static paths of a
// loaded snapshot.
func WithBloomFilter(size uint64, hashFunctions int) Option {
	return func(r *Router) {
		r.bloomSize = size
		r.bloomHashFunctions = hashFunctions
	}
}

// WithIndexThreshold sets the number of dynamic snapshot routes from which
// a first-segment index is built. Zero disables the index.
func WithIndexThreshold(n int) Option {
	return func(r *Router) {
		r.indexThreshold = n
	}
}

// WithMeterProvider records match metrics with the given provider.
//
// Example:
//
//	provider, handler, err := routemap.NewPrometheusMeterProvider()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r := routemap.MustNew(routemap.WithMeterProvider(provider))
//	http.Handle("/metrics", handler)
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(r *Router) {
		r.meterProvider = provider
	}
}

// WithTracerProvider creates a span for every [Router.MatchContext] call.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(r *Router) {
		r.tracerProvider = provider
	}
}
