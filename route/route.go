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

package route

import (
	"maps"
	"slices"
	"strings"
)

// Handler is an opaque handler reference. The routing core never inspects
// it; it is handed back to the caller with the match result.
type Handler any

// Middleware is an opaque middleware reference, kept in declaration order.
type Middleware any

// Route is an immutable route record. Every With method returns a modified
// copy; a Route stored in a [Collection] is never changed in place.
type Route struct {
	name       string
	path       string
	handler    Handler
	methods    []string
	tokens     map[string]string
	middleware []Middleware
	defaults   map[string]any
	group      string
}

// New creates a route. An empty method list accepts any method.
//
// Example:
//
//	r := route.New("user.show", "/users/[id]", showUser, "GET", "HEAD").
//		WithDefaults(map[string]any{"format": "json"})
func New(name, path string, handler Handler, methods ...string) Route {
	return Route{
		name:    name,
		path:    path,
		handler: handler,
		methods: NormalizeMethods(methods),
	}
}

// Name returns the route name, unique within a collection.
func (r Route) Name() string { return r.name }

// Path returns the path pattern as declared.
func (r Route) Path() string { return r.path }

// Handler returns the opaque handler reference.
func (r Route) Handler() Handler { return r.handler }

// Group returns the name of the owning group, or "".
func (r Route) Group() string { return r.group }

// Methods returns the accepted methods, upper-case and sorted. An empty
// result means any method is accepted.
func (r Route) Methods() []string { return slices.Clone(r.methods) }

// AnyMethod reports whether the route accepts every method.
func (r Route) AnyMethod() bool { return len(r.methods) == 0 }

// AllowsMethod reports whether method is accepted, case-insensitively.
func (r Route) AllowsMethod(method string) bool {
	if len(r.methods) == 0 {
		return true
	}
	_, found := slices.BinarySearch(r.methods, strings.ToUpper(method))

	return found
}

// Tokens returns a copy of the per-parameter pattern overrides.
func (r Route) Tokens() map[string]string { return maps.Clone(r.tokens) }

// Middleware returns a copy of the middleware list.
func (r Route) Middleware() []Middleware { return slices.Clone(r.middleware) }

// Defaults returns a copy of the default parameter values, or nil.
func (r Route) Defaults() map[string]any { return maps.Clone(r.defaults) }

// WithName returns a copy with a new name.
func (r Route) WithName(name string) Route {
	r.name = name
	return r
}

// WithPath returns a copy with a new path pattern.
func (r Route) WithPath(path string) Route {
	r.path = path
	return r
}

// WithHandler returns a copy with a new handler.
func (r Route) WithHandler(h Handler) Route {
	r.handler = h
	return r
}

// WithMethods returns a copy accepting exactly the given methods.
func (r Route) WithMethods(methods ...string) Route {
	r.methods = NormalizeMethods(methods)
	return r
}

// WithTokens returns a copy whose pattern overrides are extended by tokens.
// Existing entries with the same name are replaced.
func (r Route) WithTokens(tokens map[string]string) Route {
	merged := make(map[string]string, len(r.tokens)+len(tokens))
	maps.Copy(merged, r.tokens)
	maps.Copy(merged, tokens)
	r.tokens = merged

	return r
}

// WithToken returns a copy overriding the pattern of a single parameter.
func (r Route) WithToken(param, pattern string) Route {
	return r.WithTokens(map[string]string{param: pattern})
}

// WithMiddleware returns a copy with middleware appended.
func (r Route) WithMiddleware(mw ...Middleware) Route {
	r.middleware = append(slices.Clone(r.middleware), mw...)
	return r
}

// WithDefaults returns a copy whose default values are extended by defaults.
func (r Route) WithDefaults(defaults map[string]any) Route {
	merged := make(map[string]any, len(r.defaults)+len(defaults))
	maps.Copy(merged, r.defaults)
	maps.Copy(merged, defaults)
	r.defaults = merged

	return r
}

// withGroup sets group membership; only groups derive grouped routes.
func (r Route) withGroup(group string) Route {
	r.group = group
	return r
}

// NormalizeMethods upper-cases, trims, deduplicates and sorts methods.
// Blank entries are dropped.
func NormalizeMethods(methods []string) []string {
	if len(methods) == 0 {
		return nil
	}

	out := make([]string, 0, len(methods))
	for _, m := range methods {
		m = strings.ToUpper(strings.TrimSpace(m))
		if m != "" {
			out = append(out, m)
		}
	}
	slices.Sort(out)
	out = slices.Compact(out)
	if len(out) == 0 {
		return nil
	}

	return out
}

// Fields is the flat form of a [Route], used to store routes outside a
// collection and to rebuild them.
type Fields struct {
	Name       string
	Path       string
	Handler    Handler
	Methods    []string
	Tokens     map[string]string
	Middleware []Middleware
	Defaults   map[string]any
	Group      string
}

// Fields returns the flat form of r. Maps and slices are copies.
func (r Route) Fields() Fields {
	return Fields{
		Name:       r.name,
		Path:       r.path,
		Handler:    r.handler,
		Methods:    r.Methods(),
		Tokens:     r.Tokens(),
		Middleware: r.Middleware(),
		Defaults:   r.Defaults(),
		Group:      r.group,
	}
}

// FromFields rebuilds a route, group membership included.
func FromFields(f Fields) Route {
	return Route{
		name:       f.Name,
		path:       f.Path,
		handler:    f.Handler,
		methods:    NormalizeMethods(f.Methods),
		tokens:     maps.Clone(f.Tokens),
		middleware: slices.Clone(f.Middleware),
		defaults:   maps.Clone(f.Defaults),
		group:      f.Group,
	}
}
