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
	"slices"

	"rivaas.dev/routemap/compiler"
)

// Entry is a route together with its compiled form.
type Entry struct {
	Route    Route
	Compiled *compiler.CompiledRoute
}

// Store is the storage strategy behind a [Collection]. It keeps entries
// keyed by route name and must iterate them in insertion order. Replacing
// an existing name keeps its position.
//
// Stores are not safe for concurrent mutation; the collection serializes
// writes.
type Store interface {
	Put(e Entry)
	Get(name string) (Entry, bool)
	Delete(name string) bool
	All() []Entry
	Len() int
}

// OrderedStore is the default [Store]: a slice for order plus a name index.
type OrderedStore struct {
	entries []Entry
	index   map[string]int
}

// NewOrderedStore creates an empty ordered store.
func NewOrderedStore() *OrderedStore {
	return &OrderedStore{index: make(map[string]int)}
}

// Put inserts e, or replaces the entry with the same name in place.
func (s *OrderedStore) Put(e Entry) {
	if i, ok := s.index[e.Route.Name()]; ok {
		s.entries[i] = e
		return
	}
	s.index[e.Route.Name()] = len(s.entries)
	s.entries = append(s.entries, e)
}

// Get returns the entry named name.
func (s *OrderedStore) Get(name string) (Entry, bool) {
	i, ok := s.index[name]
	if !ok {
		return Entry{}, false
	}

	return s.entries[i], true
}

// Delete removes the entry named name and reports whether it existed.
func (s *OrderedStore) Delete(name string) bool {
	i, ok := s.index[name]
	if !ok {
		return false
	}

	s.entries = slices.Delete(s.entries, i, i+1)
	delete(s.index, name)
	for j := i; j < len(s.entries); j++ {
		s.index[s.entries[j].Route.Name()] = j
	}

	return true
}

// All returns the entries in insertion order.
func (s *OrderedStore) All() []Entry {
	return slices.Clone(s.entries)
}

// Len returns the number of entries.
func (s *OrderedStore) Len() int {
	return len(s.entries)
}
