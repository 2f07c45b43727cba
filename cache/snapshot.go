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

package cache

import (
	"slices"

	"rivaas.dev/routemap/route"
)

// CurrentVersion is the snapshot schema version written by [Build].
const CurrentVersion = 1

// Snapshot is the serializable, precompiled form of a route collection.
// Routes without parameters are in Static and match by path equality;
// routes with parameters are in Dynamic, in registration order, and carry
// their compiled expression so loading requires no recompilation.
//
// A Snapshot is treated as immutable once built.
type Snapshot struct {
	Version int     `json:"version"`
	Static  []Entry `json:"static"`
	Dynamic []Entry `json:"dynamic"`
}

// Entry is one route in a [Snapshot].
type Entry struct {
	Name       string         `json:"name"`
	Path       string         `json:"path"`
	Methods    []string       `json:"methods"`
	Regex      string         `json:"regex,omitempty"`
	Handler    any            `json:"handler"`
	Middleware []any          `json:"middleware"`
	Group      *string        `json:"group"`
	Parameters []string       `json:"parameters"`
	Defaults   map[string]any `json:"defaults"`
}

// Len returns the number of entries in both partitions.
func (s *Snapshot) Len() int {
	return len(s.Static) + len(s.Dynamic)
}

// BuildOption configures [Build].
type BuildOption func(*buildConfig)

type buildConfig struct {
	ref func(any) any
}

// WithReferences maps handler and middleware values to serializable
// references, for example a registry key. Without it the values are stored
// as they are and must be encodable by the chosen codec.
func WithReferences(ref func(any) any) BuildOption {
	return func(c *buildConfig) {
		c.ref = ref
	}
}

// Build snapshots every route of col. Routes sharing a literal path are all
// kept, in registration order.
func Build(col *route.Collection, opts ...BuildOption) *Snapshot {
	cfg := buildConfig{ref: func(v any) any { return v }}
	for _, opt := range opts {
		opt(&cfg)
	}

	snap := &Snapshot{
		Version: CurrentVersion,
		Static:  []Entry{},
		Dynamic: []Entry{},
	}
	for _, e := range col.Entries() {
		f := e.Route.Fields()
		entry := Entry{
			Name:       f.Name,
			Path:       e.Compiled.Path(),
			Methods:    f.Methods,
			Handler:    cfg.ref(f.Handler),
			Middleware: make([]any, 0, len(f.Middleware)),
			Parameters: e.Compiled.ParamNames(),
			Defaults:   f.Defaults,
		}
		if entry.Methods == nil {
			entry.Methods = []string{}
		}
		if entry.Parameters == nil {
			entry.Parameters = []string{}
		}
		for _, mw := range f.Middleware {
			entry.Middleware = append(entry.Middleware, cfg.ref(mw))
		}
		if f.Group != "" {
			entry.Group = &f.Group
		}

		if e.Compiled.IsStatic() {
			snap.Static = append(snap.Static, entry)
			continue
		}
		entry.Regex = e.Compiled.Regex()
		snap.Dynamic = append(snap.Dynamic, entry)
	}

	return snap
}

// route rebuilds the route record of e.
func (e Entry) route() route.Route {
	f := route.Fields{
		Name:     e.Name,
		Path:     e.Path,
		Handler:  e.Handler,
		Methods:  slices.Clone(e.Methods),
		Defaults: e.Defaults,
	}
	for _, mw := range e.Middleware {
		f.Middleware = append(f.Middleware, mw)
	}
	if e.Group != nil {
		f.Group = *e.Group
	}

	return route.FromFields(f)
}

// Layer returns a snapshot holding the entries of base that top does not
// name, followed by the entries of top, per partition. Neither input is
// modified.
func Layer(base, top *Snapshot) *Snapshot {
	names := make(map[string]struct{}, top.Len())
	for _, part := range [][]Entry{top.Static, top.Dynamic} {
		for _, e := range part {
			names[e.Name] = struct{}{}
		}
	}

	keep := func(entries []Entry) []Entry {
		out := make([]Entry, 0, len(entries))
		for _, e := range entries {
			if _, replaced := names[e.Name]; !replaced {
				out = append(out, e)
			}
		}
		return out
	}

	return &Snapshot{
		Version: CurrentVersion,
		Static:  append(keep(base.Static), top.Static...),
		Dynamic: append(keep(base.Dynamic), top.Dynamic...),
	}
}
