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
	"errors"
	"maps"
	"net/url"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/routemap/compiler"
	routeerrors "rivaas.dev/routemap/errors"
	"rivaas.dev/routemap/route"
	"rivaas.dev/routemap/semconv"
)

// Match is the result of a successful match.
type Match struct {
	// Route is the matched route.
	Route route.Route
	// Pattern is the normalized pattern of the route.
	Pattern string
	// Path is the decoded, normalized request path.
	Path string
	// Params holds the extracted, coerced parameters.
	Params Params
}

func (m *Match) clone() *Match {
	cp := *m
	cp.Params = maps.Clone(m.Params)

	return &cp
}

// Match resolves a request method and path. See [Router.MatchContext].
func (r *Router) Match(method, path string) (*Match, error) {
	return r.MatchContext(context.Background(), method, path)
}

// MatchContext resolves a request method and path to a route.
//
// The path is percent-decoded and normalized once. Snapshot routes are
// tried first, static before dynamic, then runtime routes, each in
// registration order; the first route whose pattern matches and whose
// methods allow the request wins. When the path matches but no route allows
// the method, the error is a [routeerrors.MethodNotAllowedError] listing
// the union of the allowed methods. When nothing matches it is a
// [routeerrors.NotFoundError].
//
// ctx carries the parent span and metric context; matching never blocks.
func (r *Router) MatchContext(ctx context.Context, method, path string) (*Match, error) {
	start := time.Now()
	method = strings.ToUpper(strings.TrimSpace(method))
	normalized := normalizeRequestPath(path)

	var span trace.Span
	if r.tracer != nil {
		ctx, span = r.tracer.Start(ctx, "routemap.match",
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(
				attribute.String(semconv.HTTPMethod, method),
				attribute.String(semconv.URLPath, normalized),
			),
		)
		defer span.End()
	}

	m, lookup, err := r.matchCached(method, normalized)
	r.metrics.recordMatch(ctx, outcomeOf(err), lookup, time.Since(start))

	if span != nil {
		span.SetAttributes(attribute.String(semconv.Outcome, outcomeOf(err)))
		if lookup != cacheDisabled {
			span.SetAttributes(attribute.Bool(semconv.ResultCacheHit, lookup == cacheHit))
		}
		if err == nil {
			span.SetAttributes(
				attribute.String(semconv.HTTPRoute, m.Pattern),
				attribute.String(semconv.RouteName, m.Route.Name()),
			)
			span.SetStatus(codes.Ok, "")
		}
	}

	return m, err
}

// cacheLookup is the result cache outcome of one match.
type cacheLookup int

const (
	cacheDisabled cacheLookup = iota
	cacheHit
	cacheMiss
)

func (r *Router) matchCached(method, path string) (*Match, cacheLookup, error) {
	if r.results == nil {
		m, err := r.resolve(method, path)
		return m, cacheDisabled, err
	}

	key := method + " " + path
	if m, ok := r.results.get(key); ok {
		return m.clone(), cacheHit, nil
	}
	m, err := r.resolve(method, path)
	if err != nil {
		return nil, cacheMiss, err
	}
	r.results.add(key, m)

	return m.clone(), cacheMiss, nil
}

// resolve runs the matching algorithm without the result cache.
func (r *Router) resolve(method, path string) (*Match, error) {
	var allowed methodSet

	if st := r.state.Load(); st != nil {
		if m := matchTable(st, method, path, &allowed); m != nil {
			return m, nil
		}
	}
	if m := r.matchLive(method, path, &allowed); m != nil {
		return m, nil
	}

	if len(allowed) > 0 {
		return nil, &routeerrors.MethodNotAllowedError{
			Path:    path,
			Method:  method,
			Allowed: allowed.sorted(),
		}
	}

	return nil, &routeerrors.NotFoundError{Path: path}
}

func matchTable(st *snapshotState, method, path string, allowed *methodSet) *Match {
	for _, rec := range st.table.Static(path) {
		if _, replaced := st.overridden[rec.Route.Name()]; replaced {
			continue
		}
		if m := try(rec.Route, rec.Compiled, method, path, allowed); m != nil {
			return m
		}
	}

	for rec := range st.table.Dynamic(path) {
		if _, replaced := st.overridden[rec.Route.Name()]; replaced {
			continue
		}
		if m := try(rec.Route, rec.Compiled, method, path, allowed); m != nil {
			return m
		}
	}

	return nil
}

func (r *Router) matchLive(method, path string, allowed *methodSet) *Match {
	entries := r.liveEntries()
	if len(entries) == 0 {
		return nil
	}

	// Literal group prefixes, resolved once per group and call.
	var prefixes map[string]string
	for _, e := range entries {
		if group := e.Route.Group(); group != "" {
			if prefixes == nil {
				prefixes = make(map[string]string)
			}
			prefix, seen := prefixes[group]
			if !seen {
				prefix, _ = r.routes.GroupPrefix(group)
				prefixes[group] = prefix
			}
			if prefix != "" && !hasPathPrefix(path, prefix) {
				continue
			}
		}

		if m := try(e.Route, e.Compiled, method, path, allowed); m != nil {
			return m
		}
	}

	return nil
}

// try matches one route. A route whose pattern matches but whose methods
// exclude method adds its methods to allowed and yields nil.
func try(rt route.Route, compiled *compiler.CompiledRoute, method, path string, allowed *methodSet) *Match {
	if !compiled.Match(path) {
		return nil
	}
	if !rt.AllowsMethod(method) {
		allowed.add(rt.Methods()...)
		return nil
	}

	var params map[string]any
	if compiled.IsStatic() {
		params = map[string]any{}
	} else {
		var ok bool
		if params, ok = compiled.Extract(path, rt.Defaults()); !ok {
			return nil
		}
	}

	return &Match{
		Route:   rt,
		Pattern: compiled.Path(),
		Path:    path,
		Params:  params,
	}
}

// hasPathPrefix reports whether path is prefix or lies below it.
func hasPathPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}

	return len(path) == len(prefix) || path[len(prefix)] == '/'
}

// normalizeRequestPath normalizes separators, then percent-decodes path when
// it is valid escaping. Escaped backslashes and slashes stay part of their
// segment.
func normalizeRequestPath(path string) string {
	path = compiler.NormalizePath(path)
	if strings.IndexByte(path, '%') >= 0 {
		if decoded, err := url.PathUnescape(path); err == nil {
			path = decoded
		}
	}

	return path
}

type methodSet map[string]struct{}

func (s *methodSet) add(methods ...string) {
	if *s == nil {
		*s = make(methodSet, len(methods))
	}
	for _, m := range methods {
		(*s)[m] = struct{}{}
	}
}

func (s methodSet) sorted() []string {
	out := make([]string, 0, len(s))
	for m := range s {
		out = append(out, m)
	}
	slices.Sort(out)

	return out
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return semconv.OutcomeMatched
	case errors.Is(err, routeerrors.ErrMethodNotAllowed):
		return semconv.OutcomeMethodNotAllowed
	default:
		return semconv.OutcomeNotFound
	}
}
