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
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/routemap/cache"
	"rivaas.dev/routemap/compiler"
	routeerrors "rivaas.dev/routemap/errors"
	"rivaas.dev/routemap/route"
	"rivaas.dev/routemap/semconv"
)

// noopLogger is used when no logger is configured.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

const (
	// DefaultResultCacheCapacity is the result cache size used when the
	// cache is enabled through configuration without a capacity.
	DefaultResultCacheCapacity = 1024

	// instrumentationName is the meter and tracer name.
	instrumentationName = "rivaas.dev/routemap"
)

// Router matches requests against a route collection and generates URLs
// from route names.
//
// Routes are registered on a live collection. A precompiled [cache.Snapshot]
// can be loaded with [Router.LoadSnapshot]; routes registered afterwards are
// runtime routes layered over it. They win name lookups and replace snapshot
// routes of the same name, and are tried after snapshot routes when matching
// paths.
//
// Matching and generation are safe for concurrent use. Registration is
// expected during setup; call [Router.Freeze] before serving.
type Router struct {
	delimOpen           string
	delimClose          string
	patterns            compiler.Patterns
	store               route.Store
	logger              *slog.Logger
	diagnostics         DiagnosticHandler
	resultCacheEnabled  bool
	resultCacheCapacity int
	bloomSize           uint64
	bloomHashFunctions  int
	indexThreshold      int
	meterProvider       metric.MeterProvider
	tracerProvider      trace.TracerProvider

	compiler *compiler.Compiler
	routes   *route.Collection
	state    atomic.Pointer[snapshotState]
	results  *resultCache
	metrics  *matchMetrics
	tracer   trace.Tracer

	// live is the live collection as of its last change.
	live atomic.Pointer[[]route.Entry]

	// mu serializes change handling and snapshot loading; it guards known.
	mu    sync.Mutex
	known map[string]struct{}
}

// snapshotState is the loaded snapshot plus the names of its routes that
// runtime routes replace. It is swapped as a whole.
type snapshotState struct {
	table      *cache.Table
	overridden map[string]struct{}
}

// New creates a router with optional configuration.
// Returns an error if the configuration is invalid.
//
// Example:
//
//	r, err := routemap.New(
//	    routemap.WithPatterns(compiler.Patterns{"sku": `[A-Z]{3}-\d{4}`}),
//	    routemap.WithResultCache(4096),
//	)
//	if err != nil {
//	    log.Fatalf("Invalid router configuration: %v", err)
//	}
//	_ = r.Handle("products.show", "/products/[sku]", showProduct, "GET")
func New(opts ...Option) (*Router, error) {
	r := &Router{
		delimOpen:           compiler.DefaultOpen,
		delimClose:          compiler.DefaultClose,
		logger:              noopLogger,
		resultCacheCapacity: DefaultResultCacheCapacity,
		bloomSize:           cache.DefaultBloomSize,
		bloomHashFunctions:  cache.DefaultBloomHashFunctions,
		indexThreshold:      cache.DefaultIndexThreshold,
		known:               make(map[string]struct{}),
	}

	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = noopLogger
	}

	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("router configuration validation failed: %w", err)
	}

	r.compiler = compiler.New(
		compiler.WithDelimiters(r.delimOpen, r.delimClose),
		compiler.WithPatterns(r.patterns),
	)

	var collectionOpts []route.Option
	if r.store != nil {
		collectionOpts = append(collectionOpts, route.WithStore(r.store))
	}
	r.routes = route.NewCollection(r.compiler, collectionOpts...)
	r.routes.OnChange(r.routesChanged)

	if r.meterProvider != nil {
		m, err := newMatchMetrics(r.meterProvider.Meter(instrumentationName))
		if err != nil {
			return nil, fmt.Errorf("router metrics: %w", err)
		}
		r.metrics = m
	}
	if r.tracerProvider != nil {
		r.tracer = r.tracerProvider.Tracer(instrumentationName)
	}
	if r.resultCacheEnabled {
		rc, err := newResultCache(r.resultCacheCapacity, r.resultsEvicted)
		if err != nil {
			return nil, fmt.Errorf("router result cache: %w", err)
		}
		r.results = rc
	}

	return r, nil
}

// MustNew creates a new Router and panics if configuration is invalid.
func MustNew(opts ...Option) *Router {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("routemap.MustNew: %v", err))
	}

	return r
}

// validate checks the router configuration. Routes are validated when they
// are registered.
func (r *Router) validate() error {
	if r.delimOpen == "" || r.delimClose == "" || r.delimOpen == r.delimClose ||
		strings.Contains(r.delimOpen+r.delimClose, "/") {
		return fmt.Errorf("%w: %q %q", ErrDelimitersInvalid, r.delimOpen, r.delimClose)
	}
	if r.bloomSize == 0 {
		return ErrBloomFilterSizeZero
	}
	if r.bloomHashFunctions <= 0 {
		return fmt.Errorf("%w: got %d", ErrBloomHashFunctionsInvalid, r.bloomHashFunctions)
	}
	if r.indexThreshold < 0 {
		return fmt.Errorf("%w: got %d", ErrIndexThresholdInvalid, r.indexThreshold)
	}
	if r.resultCacheEnabled && r.resultCacheCapacity < 2 {
		return fmt.Errorf("%w: got %d", ErrResultCacheCapacityInvalid, r.resultCacheCapacity)
	}
	for name, expr := range r.patterns {
		if _, err := regexp.Compile(expr); err != nil {
			return &routeerrors.MalformedPatternError{Pattern: expr, Reason: "named pattern " + name, Err: err}
		}
	}

	return nil
}

// Compiler returns the pattern compiler shared by all routes.
func (r *Router) Compiler() *compiler.Compiler {
	return r.compiler
}

// Collection returns the live route collection. After a snapshot is loaded
// it holds only the runtime routes.
func (r *Router) Collection() *route.Collection {
	return r.routes
}

// Add registers a route. Malformed patterns and duplicate names are
// reported here, never at match time.
func (r *Router) Add(rt route.Route) error {
	return r.routes.Add(rt)
}

// MustAdd is like Add but panics on error.
func (r *Router) MustAdd(rt route.Route) {
	if err := r.Add(rt); err != nil {
		panic(fmt.Sprintf("routemap.MustAdd: %v", err))
	}
}

// Handle registers handler for path under name. No methods means any method.
func (r *Router) Handle(name, path string, handler route.Handler, methods ...string) error {
	return r.routes.Handle(name, path, handler, methods...)
}

// Group creates a named route group with a shared path prefix.
func (r *Router) Group(name, prefix string) (*route.Group, error) {
	return r.routes.Group(name, prefix)
}

// Apply registers the routes and groups of a declarative document.
func (r *Router) Apply(doc route.Document, resolve route.Resolver) error {
	return r.routes.Apply(doc, resolve)
}

// Remove deletes a runtime route and reports whether it existed. Snapshot
// routes cannot be removed; load a new snapshot instead.
func (r *Router) Remove(name string) (bool, error) {
	return r.routes.Remove(name)
}

// Freeze rejects further registration and snapshot loading with
// [ErrRouterFrozen].
func (r *Router) Freeze() {
	r.routes.Freeze()
}

// Frozen reports whether [Router.Freeze] was called.
func (r *Router) Frozen() bool {
	return r.routes.Frozen()
}

// Route returns the named route. Runtime routes win over snapshot routes.
func (r *Router) Route(name string) (route.Route, bool) {
	if rt, ok := r.routes.Route(name); ok {
		return rt, true
	}
	if st := r.state.Load(); st != nil {
		if rec, ok := st.table.Named(name); ok {
			return rec.Route, true
		}
	}

	return route.Route{}, false
}

// Routes returns every effective route in matching order: snapshot routes
// that are not replaced, then runtime routes.
func (r *Router) Routes() []route.Route {
	var out []route.Route
	if st := r.state.Load(); st != nil {
		for _, rec := range st.table.Records() {
			if _, replaced := st.overridden[rec.Route.Name()]; !replaced {
				out = append(out, rec.Route)
			}
		}
	}

	return append(out, r.routes.Routes()...)
}

// Snapshot builds a snapshot of the effective routes. Without a loaded
// snapshot this is the live collection. With one, the runtime routes are
// layered over it with [cache.Layer]; opts apply to the runtime routes.
func (r *Router) Snapshot(opts ...cache.BuildOption) *cache.Snapshot {
	runtime := cache.Build(r.routes, opts...)
	if st := r.state.Load(); st != nil {
		return cache.Layer(st.table.Snapshot(), runtime)
	}

	return runtime
}

// LoadSnapshot installs snap as the precompiled route set, replacing any
// snapshot loaded before. Live routes already registered become runtime
// routes layered over it.
func (r *Router) LoadSnapshot(snap *cache.Snapshot) error {
	if r.Frozen() {
		return ErrRouterFrozen
	}

	table, err := cache.Load(snap, r.compiler,
		cache.WithBloomFilter(r.bloomSize, r.bloomHashFunctions),
		cache.WithIndexThreshold(r.indexThreshold),
	)
	if err != nil {
		return err
	}

	r.mu.Lock()
	overridden := r.overriddenLocked(table, r.liveEntries(), true)
	r.state.Store(&snapshotState{table: table, overridden: overridden})
	r.mu.Unlock()

	r.results.purge()
	r.logger.Debug("route snapshot loaded",
		semconv.SnapshotStatic, len(snap.Static),
		semconv.SnapshotDynamic, len(snap.Dynamic),
		semconv.SnapshotIndexed, table.Indexed(),
		semconv.SnapshotBloom, table.BloomEnabled(),
	)

	return nil
}

// routesChanged runs with the collection locked after every mutation.
func (r *Router) routesChanged(entries []route.Entry) {
	r.results.purge()

	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{}, len(entries))
	staticPaths := make(map[string]route.Entry)
	for _, e := range entries {
		name := e.Route.Name()
		seen[name] = struct{}{}
		if e.Compiled.IsStatic() {
			if first, collides := staticPaths[e.Compiled.Path()]; collides {
				if _, reported := r.known[name]; !reported {
					r.emit(DiagStaticMethodCollision, "static routes share a path", map[string]any{
						"path":     e.Compiled.Path(),
						"route":    name,
						"methods":  e.Route.Methods(),
						"existing": first.Route.Name(),
					})
				}
			} else {
				staticPaths[e.Compiled.Path()] = e
			}
		}
		if _, ok := r.known[name]; ok {
			continue
		}
		r.logger.Debug("route registered",
			semconv.RouteName, name,
			semconv.HTTPRoute, e.Compiled.Path(),
			semconv.RouteMethods, e.Route.Methods(),
		)
		r.emit(DiagRouteRegistered, "route registered", map[string]any{
			"name":    name,
			"path":    e.Compiled.Path(),
			"methods": e.Route.Methods(),
		})
	}
	r.known = seen
	r.live.Store(&entries)

	if st := r.state.Load(); st != nil {
		overridden := r.overriddenLocked(st.table, entries, false)
		r.state.Store(&snapshotState{table: st.table, overridden: overridden})
	}
}

// overriddenLocked returns the names of table routes that entries replace
// and reports the ones not reported before. With fresh set the table is
// newly loaded and every override is reported.
func (r *Router) overriddenLocked(table *cache.Table, entries []route.Entry, fresh bool) map[string]struct{} {
	var previous map[string]struct{}
	if st := r.state.Load(); st != nil && !fresh {
		previous = st.overridden
	}

	out := make(map[string]struct{})
	for _, e := range entries {
		name := e.Route.Name()
		rec, ok := table.Named(name)
		if !ok {
			continue
		}
		out[name] = struct{}{}
		if _, already := previous[name]; already {
			continue
		}
		r.logger.Warn("runtime route overrides snapshot route",
			semconv.RouteName, name,
			semconv.HTTPRoute, e.Compiled.Path(),
			semconv.SnapshotPath, rec.Compiled.Path(),
		)
		r.emit(DiagRuntimeOverride, "runtime route overrides snapshot route", map[string]any{
			"name":          name,
			"path":          e.Compiled.Path(),
			"snapshot_path": rec.Compiled.Path(),
		})
	}

	return out
}

func (r *Router) liveEntries() []route.Entry {
	if p := r.live.Load(); p != nil {
		return *p
	}

	return nil
}
