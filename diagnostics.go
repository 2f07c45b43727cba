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

// DiagnosticEvent represents a router diagnostic.
// These are informational events; the router behaves the same whether they
// are collected or not.
type DiagnosticEvent struct {
	Kind    DiagnosticKind
	Message string
	Fields  map[string]any // Structured context
}

// DiagnosticKind categorizes diagnostic events.
type DiagnosticKind string

const (
	// DiagRouteRegistered is emitted for every route that enters the router.
	DiagRouteRegistered DiagnosticKind = "route_registered"
	// DiagStaticMethodCollision is emitted when a static route shares its
	// literal path with an earlier one. Both stay reachable.
	DiagStaticMethodCollision DiagnosticKind = "static_method_collision"
	// DiagRuntimeOverride is emitted when a route added after a snapshot was
	// loaded replaces a snapshot route of the same name.
	DiagRuntimeOverride DiagnosticKind = "runtime_override"
	// DiagResultCacheEvicted is emitted when the result cache drops its
	// oldest entries in one batch.
	DiagResultCacheEvicted DiagnosticKind = "result_cache_evicted"
)

// DiagnosticHandler receives diagnostic events from the router.
// Implementations may log, emit metrics, trace events, or ignore them.
//
// Example with logging:
//
//	handler := routemap.DiagnosticHandlerFunc(func(e routemap.DiagnosticEvent) {
//	    slog.Info(e.Message, "kind", e.Kind, "fields", e.Fields)
//	})
//	r := routemap.MustNew(routemap.WithDiagnostics(handler))
type DiagnosticHandler interface {
	OnDiagnostic(DiagnosticEvent)
}

// DiagnosticHandlerFunc is a function adapter for DiagnosticHandler.
type DiagnosticHandlerFunc func(DiagnosticEvent)

// OnDiagnostic implements [DiagnosticHandler].
func (f DiagnosticHandlerFunc) OnDiagnostic(e DiagnosticEvent) {
	f(e)
}

func (r *Router) emit(kind DiagnosticKind, message string, fields map[string]any) {
	if r.diagnostics == nil {
		return
	}
	r.diagnostics.OnDiagnostic(DiagnosticEvent{Kind: kind, Message: message, Fields: fields})
}
