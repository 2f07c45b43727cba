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
	"errors"
	"slices"
	"strings"
	"sync"

	"rivaas.dev/routemap/compiler"
	routeerrors "rivaas.dev/routemap/errors"
)

// ErrEmptyGroupName is returned when a group is created without a name.
var ErrEmptyGroupName = errors.New("route: group name must not be empty")

// Collection is an ordered set of routes keyed by name, plus the groups that
// feed it. It is the unit the matcher and the generator operate over.
//
// Route names are unique across the whole collection, grouped routes
// included. Every route is compiled when it is added, so malformed patterns
// and duplicate names are reported at registration time.
//
// Collections are safe for concurrent reads. Mutation is expected during
// setup; call [Collection.Freeze] before serving to reject later changes.
type Collection struct {
	mu        sync.RWMutex
	compiler  *compiler.Compiler
	store     Store
	groups    map[string]*Group
	version   uint64
	frozen    bool
	listeners []func([]Entry)
}

// Option configures a [Collection].
type Option func(*Collection)

// WithStore sets the storage strategy. The store must be empty.
func WithStore(s Store) Option {
	return func(c *Collection) {
		c.store = s
	}
}

// NewCollection creates an empty collection compiling with c.
// A nil compiler uses [compiler.New] defaults.
func NewCollection(c *compiler.Compiler, opts ...Option) *Collection {
	if c == nil {
		c = compiler.New()
	}
	col := &Collection{
		compiler: c,
		store:    NewOrderedStore(),
		groups:   make(map[string]*Group),
	}
	for _, opt := range opts {
		opt(col)
	}

	return col
}

// Compiler returns the compiler used for route patterns.
func (c *Collection) Compiler() *compiler.Compiler {
	return c.compiler
}

// Add compiles r and appends it. A route without a name is named after its
// methods and normalized path, for example "GET|HEAD /users".
func (c *Collection) Add(r Route) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkMutable(); err != nil {
		return err
	}

	e, err := c.compileLocked(r)
	if err != nil {
		return err
	}
	if existing, dup := c.store.Get(e.Route.Name()); dup {
		return &routeerrors.DuplicateNameError{
			Name:         e.Route.Name(),
			Path:         e.Compiled.Path(),
			ExistingPath: existing.Compiled.Path(),
		}
	}
	c.store.Put(e)
	c.changedLocked()

	return nil
}

// Handle is shorthand for Add(New(name, path, handler, methods...)).
func (c *Collection) Handle(name, path string, handler Handler, methods ...string) error {
	return c.Add(New(name, path, handler, methods...))
}

// Group creates a top-level group. Asking again for an existing group with
// the same prefix returns it unchanged; a different prefix is a
// [routeerrors.DuplicateNameError].
func (c *Collection) Group(name, prefix string) (*Group, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkMutable(); err != nil {
		return nil, err
	}
	if g, ok := c.groups[name]; ok {
		if c.compiler.Normalize(g.Prefix()) != c.compiler.Normalize(prefix) {
			return nil, &routeerrors.DuplicateNameError{Name: name, Path: prefix, ExistingPath: g.Prefix()}
		}
		return g, nil
	}

	g := &Group{owner: c, name: name, prefix: prefix}
	if err := c.registerGroupLocked(g); err != nil {
		return nil, err
	}

	return g, nil
}

// LookupGroup returns the group with the given full name.
func (c *Collection) LookupGroup(name string) (*Group, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	g, ok := c.groups[name]
	return g, ok
}

// Remove deletes the named route and reports whether it existed. A grouped
// route is also dropped from its group so later group changes do not bring
// it back.
func (c *Collection) Remove(name string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkMutable(); err != nil {
		return false, err
	}

	e, ok := c.store.Get(name)
	if !ok {
		return false, nil
	}
	if g, grouped := c.groups[e.Route.Group()]; grouped {
		c.forgetLocked(g, name)
	}
	c.store.Delete(name)
	c.changedLocked()

	return true, nil
}

// Get returns the entry for the named route.
func (c *Collection) Get(name string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.store.Get(name)
}

// Route returns the named route.
func (c *Collection) Route(name string) (Route, bool) {
	e, ok := c.Get(name)
	return e.Route, ok
}

// Entries returns every entry in registration order.
func (c *Collection) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.store.All()
}

// Routes returns every route in registration order.
func (c *Collection) Routes() []Route {
	entries := c.Entries()
	out := make([]Route, len(entries))
	for i, e := range entries {
		out[i] = e.Route
	}

	return out
}

// Len returns the number of routes.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.store.Len()
}

// Version increases on every successful mutation.
func (c *Collection) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.version
}

// OnChange registers fn to run after every successful mutation with the
// entries as they are after it. fn runs with the collection locked and must
// not call back into it.
func (c *Collection) OnChange(fn func(entries []Entry)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.listeners = append(c.listeners, fn)
}

// Freeze rejects all further mutation with [routeerrors.ErrRouterFrozen].
func (c *Collection) Freeze() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.frozen = true
}

// Frozen reports whether [Collection.Freeze] was called.
func (c *Collection) Frozen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.frozen
}

// GroupPrefix returns the normalized literal prefix of the named group, used
// by matchers to skip grouped routes early. ok is false when the group is
// unknown, has no prefix, or its prefix contains placeholders.
func (c *Collection) GroupPrefix(name string) (prefix string, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	g, found := c.groups[name]
	if !found {
		return "", false
	}
	raw := g.Prefix()
	if c.compiler.IsParametrized(raw) {
		return "", false
	}
	prefix = c.compiler.Normalize(raw)
	if prefix == "/" {
		return "", false
	}

	return prefix, true
}

func (c *Collection) checkMutable() error {
	if c.frozen {
		return routeerrors.ErrRouterFrozen
	}

	return nil
}

func (c *Collection) changedLocked() {
	c.version++
	if len(c.listeners) == 0 {
		return
	}
	entries := c.store.All()
	for _, fn := range c.listeners {
		fn(entries)
	}
}

func (c *Collection) registerGroupLocked(g *Group) error {
	if g.name == "" {
		return ErrEmptyGroupName
	}
	name := g.Name()
	if _, exists := c.groups[name]; exists {
		return &routeerrors.DuplicateNameError{Name: name, Path: g.Prefix()}
	}
	c.groups[name] = g

	return nil
}

func (c *Collection) compileLocked(r Route) (Entry, error) {
	compiled, err := c.compiler.Compile(r.Path(), r.tokens)
	if err != nil {
		return Entry{}, err
	}
	if r.Name() == "" {
		r.name = autoName(r, compiled.Path())
	}

	return Entry{Route: r, Compiled: compiled}, nil
}

// replaceGroupLocked swaps the entries derived from g for a fresh
// derivation. Nothing is written unless every derived route compiles and
// every name is free.
func (c *Collection) replaceGroupLocked(g *Group) error {
	derived, err := g.Routes()
	if err != nil {
		return err
	}

	group := g.Name()
	fresh := make([]Entry, 0, len(derived))
	names := make(map[string]string, len(derived))
	for _, r := range derived {
		e, err := c.compileLocked(r)
		if err != nil {
			return err
		}
		name := e.Route.Name()
		if path, dup := names[name]; dup {
			return &routeerrors.DuplicateNameError{Name: name, Path: e.Compiled.Path(), ExistingPath: path}
		}
		if existing, taken := c.store.Get(name); taken && existing.Route.Group() != group {
			return &routeerrors.DuplicateNameError{Name: name, Path: e.Compiled.Path(), ExistingPath: existing.Compiled.Path()}
		}
		names[name] = e.Compiled.Path()
		fresh = append(fresh, e)
	}

	for _, e := range c.store.All() {
		if e.Route.Group() != group {
			continue
		}
		if _, keep := names[e.Route.Name()]; !keep {
			c.store.Delete(e.Route.Name())
		}
	}
	for _, e := range fresh {
		c.store.Put(e)
	}

	return nil
}

// forgetLocked drops the original of g whose registered name is name.
func (c *Collection) forgetLocked(g *Group, name string) {
	g.originals = slices.DeleteFunc(g.originals, func(r Route) bool {
		derived, err := g.derive(r)
		if err != nil {
			return false
		}
		registered := derived.Name()
		if registered == "" {
			registered = autoName(derived, c.compiler.Normalize(derived.Path()))
		}

		return registered == name
	})
}

func autoName(r Route, path string) string {
	methods := "ANY"
	if !r.AnyMethod() {
		methods = strings.Join(r.methods, "|")
	}

	return methods + " " + path
}
