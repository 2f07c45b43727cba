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
	"fmt"
	"iter"

	"rivaas.dev/routemap/compiler"
	routeerrors "rivaas.dev/routemap/errors"
	"rivaas.dev/routemap/route"
)

const (
	// DefaultBloomThreshold is the number of static paths from which the
	// bloom pre-check is used. Below it a map lookup alone is cheaper.
	DefaultBloomThreshold = 10
	// DefaultIndexThreshold is the number of dynamic entries from which the
	// first-segment index is built.
	DefaultIndexThreshold = 10
	// DefaultBloomSize is the default bloom filter size in bits.
	DefaultBloomSize = 1000
	// DefaultBloomHashFunctions is the default number of bloom hash functions.
	DefaultBloomHashFunctions = 3
)

// Record is a loaded snapshot entry: the rebuilt route and its compiled form.
type Record struct {
	Route    route.Route
	Compiled *compiler.CompiledRoute
}

// Table is a loaded [Snapshot] ready for lookups. It is immutable and safe
// for concurrent use.
//
// Static entries are grouped by path, so routes sharing a literal path with
// different methods all stay reachable. Dynamic entries keep snapshot order.
// Once there are enough of them, a first-segment index narrows the scan to
// entries whose first segment starts with the same ASCII byte as the path,
// plus entries whose first segment is a placeholder, without reordering.
type Table struct {
	snapshot *Snapshot

	static      map[string][]Record
	staticPaths int
	bloom       *bloomFilter

	dynamic []Record
	index   *[128][]int

	byName map[string]Record
}

// LoadOption configures [Load].
type LoadOption func(*loadConfig)

type loadConfig struct {
	bloomSize      uint64
	bloomHashes    int
	bloomThreshold int
	indexThreshold int
}

// WithBloomFilter sets the bloom filter size in bits and its number of hash
// functions.
func WithBloomFilter(size uint64, hashFunctions int) LoadOption {
	return func(c *loadConfig) {
		c.bloomSize = size
		c.bloomHashes = hashFunctions
	}
}

// WithBloomThreshold sets the static path count from which the bloom
// pre-check is used. Zero disables it.
func WithBloomThreshold(n int) LoadOption {
	return func(c *loadConfig) {
		c.bloomThreshold = n
	}
}

// WithIndexThreshold sets the dynamic entry count from which the
// first-segment index is built. Zero disables it.
func WithIndexThreshold(n int) LoadOption {
	return func(c *loadConfig) {
		c.indexThreshold = n
	}
}

// Load rebuilds the routes of snap with c. Dynamic entries are restored from
// their stored expressions; static paths are checked to be literal. Errors
// wrap [routeerrors.ErrInvalidSnapshot].
func Load(snap *Snapshot, c *compiler.Compiler, opts ...LoadOption) (*Table, error) {
	if snap.Version != 0 && snap.Version != CurrentVersion {
		return nil, fmt.Errorf("%w: %d", routeerrors.ErrUnsupportedSnapshotVersion, snap.Version)
	}

	cfg := loadConfig{
		bloomSize:      DefaultBloomSize,
		bloomHashes:    DefaultBloomHashFunctions,
		bloomThreshold: DefaultBloomThreshold,
		indexThreshold: DefaultIndexThreshold,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	t := &Table{
		snapshot: snap,
		static:   make(map[string][]Record, len(snap.Static)),
		dynamic:  make([]Record, 0, len(snap.Dynamic)),
		byName:   make(map[string]Record, snap.Len()),
	}

	for _, e := range snap.Static {
		compiled, err := c.Compile(e.Path, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: static entry %q: %w", routeerrors.ErrInvalidSnapshot, e.Name, err)
		}
		if !compiled.IsStatic() {
			return nil, fmt.Errorf("%w: static entry %q has parameters", routeerrors.ErrInvalidSnapshot, e.Name)
		}
		rec := Record{Route: e.route(), Compiled: compiled}
		if err = t.register(rec); err != nil {
			return nil, err
		}
		if _, seen := t.static[compiled.Path()]; !seen {
			t.staticPaths++
		}
		t.static[compiled.Path()] = append(t.static[compiled.Path()], rec)
	}

	for _, e := range snap.Dynamic {
		compiled, err := c.Restore(e.Path, e.Regex, e.Parameters)
		if err != nil {
			return nil, fmt.Errorf("%w: dynamic entry %q: %w", routeerrors.ErrInvalidSnapshot, e.Name, err)
		}
		rec := Record{Route: e.route(), Compiled: compiled}
		if err = t.register(rec); err != nil {
			return nil, err
		}
		t.dynamic = append(t.dynamic, rec)
	}

	if cfg.bloomThreshold > 0 && t.staticPaths >= cfg.bloomThreshold {
		t.bloom = newBloomFilter(cfg.bloomSize, cfg.bloomHashes)
		for path := range t.static {
			t.bloom.add(hashString(path))
		}
	}
	if cfg.indexThreshold > 0 && len(t.dynamic) >= cfg.indexThreshold {
		t.buildIndex()
	}

	return t, nil
}

func (t *Table) register(rec Record) error {
	name := rec.Route.Name()
	if existing, dup := t.byName[name]; dup {
		return fmt.Errorf("%w: %w", routeerrors.ErrInvalidSnapshot, &routeerrors.DuplicateNameError{
			Name:         name,
			Path:         rec.Compiled.Path(),
			ExistingPath: existing.Compiled.Path(),
		})
	}
	t.byName[name] = rec

	return nil
}

func (t *Table) buildIndex() {
	var index [128][]int
	for i, rec := range t.dynamic {
		segments := rec.Compiled.Segments()
		if len(segments) == 0 || segments[0].IsToken {
			for b := range index {
				index[b] = append(index[b], i)
			}
			continue
		}
		if first := segments[0].Raw[0]; first < 128 {
			index[first] = append(index[first], i)
		}
	}
	t.index = &index
}

// Snapshot returns the snapshot the table was loaded from.
func (t *Table) Snapshot() *Snapshot {
	return t.snapshot
}

// Len returns the number of loaded routes.
func (t *Table) Len() int {
	return len(t.byName)
}

// Indexed reports whether the first-segment index is in use.
func (t *Table) Indexed() bool {
	return t.index != nil
}

// BloomEnabled reports whether the static bloom pre-check is in use.
func (t *Table) BloomEnabled() bool {
	return t.bloom != nil
}

// Static returns the static records registered at the normalized path, in
// snapshot order.
func (t *Table) Static(path string) []Record {
	if len(t.static) == 0 {
		return nil
	}
	if t.bloom != nil && !t.bloom.mayContain(hashString(path)) {
		return nil
	}

	return t.static[path]
}

// Dynamic yields the dynamic records that may match the normalized path, in
// snapshot order.
func (t *Table) Dynamic(path string) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		if t.index == nil || len(path) < 2 || path[1] >= 128 {
			for _, rec := range t.dynamic {
				if !yield(rec) {
					return
				}
			}
			return
		}

		for _, i := range t.index[path[1]] {
			if !yield(t.dynamic[i]) {
				return
			}
		}
	}
}

// Named returns the record with the given route name.
func (t *Table) Named(name string) (Record, bool) {
	rec, ok := t.byName[name]
	return rec, ok
}

// Records returns every record, static entries first, each partition in
// snapshot order.
func (t *Table) Records() []Record {
	out := make([]Record, 0, len(t.byName))
	for _, e := range t.snapshot.Static {
		out = append(out, t.byName[e.Name])
	}
	out = append(out, t.dynamic...)

	return out
}
