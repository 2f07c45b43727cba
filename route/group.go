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
	"fmt"
	"maps"
	"slices"

	"dario.cat/mergo"
)

// Group applies a shared path prefix, token overrides and middleware to the
// routes it owns.
//
// The group keeps every route in its original, pre-group form. Whenever the
// group configuration changes, each owned route is derived again from that
// original, never from a previously derived route, and the collection
// receives the full replacement set. Derived routes get:
//
//   - name: group name + "." + route name
//   - path: prefix + route path
//   - tokens: group tokens, overridden by route tokens
//   - middleware: group middleware followed by route middleware
//
// Nested groups inherit the effective configuration of their parent and are
// re-derived when the parent changes.
//
// Example:
//
//	api := routes.Group("api", "/api")
//	_ = api.SetTokens(map[string]string{"id": `[0-9a-f]{24}`})
//	_ = api.Add(route.New("users.show", "/users/[id]", showUser, "GET"))
//	// registered as "api.users.show" at /api/users/[id]
type Group struct {
	owner    *Collection
	parent   *Group
	children []*Group

	name       string
	prefix     string
	tokens     map[string]string
	middleware []Middleware
	originals  []Route
}

// Name returns the full group name, including parent names.
func (g *Group) Name() string {
	if g.parent == nil {
		return g.name
	}

	return g.parent.Name() + "." + g.name
}

// Prefix returns the effective path prefix, including parent prefixes.
func (g *Group) Prefix() string {
	if g.parent == nil {
		return g.prefix
	}

	return joinPath(g.parent.Prefix(), g.prefix)
}

// Tokens returns the group's own token overrides.
func (g *Group) Tokens() map[string]string {
	return maps.Clone(g.tokens)
}

// effectiveTokens layers the group's tokens over its parent's.
func (g *Group) effectiveTokens() (map[string]string, error) {
	if g.parent == nil {
		return maps.Clone(g.tokens), nil
	}
	inherited, err := g.parent.effectiveTokens()
	if err != nil {
		return nil, err
	}

	return overlay(g.tokens, inherited)
}

// Middleware returns the effective middleware, parent first.
func (g *Group) Middleware() []Middleware {
	var out []Middleware
	if g.parent != nil {
		out = g.parent.Middleware()
	}

	return append(out, g.middleware...)
}

// Routes returns the routes derived by the group, in insertion order.
func (g *Group) Routes() ([]Route, error) {
	out := make([]Route, 0, len(g.originals))
	for _, r := range g.originals {
		derived, err := g.derive(r)
		if err != nil {
			return nil, err
		}
		out = append(out, derived)
	}

	return out, nil
}

// Add derives r and registers it with the collection. On error the group is
// left unchanged.
func (g *Group) Add(r Route) error {
	g.owner.mu.Lock()
	defer g.owner.mu.Unlock()

	if err := g.owner.checkMutable(); err != nil {
		return err
	}

	prev := g.originals
	g.originals = append(slices.Clone(prev), r)
	if err := g.owner.replaceGroupLocked(g); err != nil {
		g.originals = prev
		return err
	}
	g.owner.changedLocked()

	return nil
}

// Handle is shorthand for Add(New(name, path, handler, methods...)).
func (g *Group) Handle(name, path string, handler Handler, methods ...string) error {
	return g.Add(New(name, path, handler, methods...))
}

// SetTokens replaces the group token overrides and re-derives every owned
// route, including those of nested groups.
func (g *Group) SetTokens(tokens map[string]string) error {
	return g.reconfigure(func() { g.tokens = maps.Clone(tokens) })
}

// SetMiddleware replaces the group middleware and re-derives every owned route.
func (g *Group) SetMiddleware(mw ...Middleware) error {
	return g.reconfigure(func() { g.middleware = slices.Clone(mw) })
}

// SetPrefix replaces the group path prefix and re-derives every owned route.
func (g *Group) SetPrefix(prefix string) error {
	return g.reconfigure(func() { g.prefix = prefix })
}

// Group creates a nested group. Its name and prefix are appended to the
// parent's.
func (g *Group) Group(name, prefix string) (*Group, error) {
	g.owner.mu.Lock()
	defer g.owner.mu.Unlock()

	if err := g.owner.checkMutable(); err != nil {
		return nil, err
	}

	child := &Group{owner: g.owner, parent: g, name: name, prefix: prefix}
	if err := g.owner.registerGroupLocked(child); err != nil {
		return nil, err
	}
	g.children = append(g.children, child)

	return child, nil
}

func (g *Group) reconfigure(apply func()) error {
	g.owner.mu.Lock()
	defer g.owner.mu.Unlock()

	if err := g.owner.checkMutable(); err != nil {
		return err
	}

	saved := *g
	apply()
	if err := g.refreshLocked(); err != nil {
		g.tokens, g.middleware, g.prefix = saved.tokens, saved.middleware, saved.prefix
		// Restore the previous derivation; it was valid before.
		if rerr := g.refreshLocked(); rerr != nil {
			return fmt.Errorf("%w (restore failed: %w)", err, rerr)
		}
		return err
	}
	g.owner.changedLocked()

	return nil
}

// refreshLocked re-derives the group and all nested groups.
func (g *Group) refreshLocked() error {
	if err := g.owner.replaceGroupLocked(g); err != nil {
		return err
	}
	for _, child := range g.children {
		if err := child.refreshLocked(); err != nil {
			return err
		}
	}

	return nil
}

func (g *Group) derivedName(r Route) string {
	if group := g.Name(); group != "" && r.Name() != "" {
		return group + "." + r.Name()
	}

	return r.Name()
}

func (g *Group) derive(r Route) (Route, error) {
	tokens, err := g.effectiveTokens()
	if err != nil {
		return Route{}, err
	}
	if tokens, err = overlay(r.tokens, tokens); err != nil {
		return Route{}, err
	}

	derived := r.withGroup(g.Name())
	derived.name = g.derivedName(r)
	derived.path = joinPath(g.Prefix(), r.Path())
	derived.tokens = tokens
	if groupMW := g.Middleware(); len(groupMW) > 0 {
		derived.middleware = append(groupMW, r.middleware...)
	}

	return derived, nil
}

// overlay returns own layered over base: keys present in own win.
func overlay(own, base map[string]string) (map[string]string, error) {
	out := maps.Clone(own)
	if out == nil {
		out = make(map[string]string, len(base))
	}
	// Without WithOverride mergo only fills keys missing from out.
	if err := mergo.Merge(&out, base); err != nil {
		return nil, fmt.Errorf("merge group tokens: %w", err)
	}
	if len(out) == 0 {
		return nil, nil
	}

	return out, nil
}

func joinPath(prefix, path string) string {
	switch {
	case prefix == "":
		return path
	case path == "":
		return prefix
	default:
		return prefix + "/" + path
	}
}
