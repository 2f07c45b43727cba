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

// FNV-1a constants for inline string hashing. Hashing the path bytes in
// place avoids the []byte conversion and interface calls of hash/fnv on the
// lookup path; the result is identical.
const (
	fnvOffsetBasis = 14695981039346656037
	fnvPrime       = 1099511628211
)

func hashString(s string) uint64 {
	h := uint64(fnvOffsetBasis)
	for i := range len(s) {
		h ^= uint64(s[i])
		h *= fnvPrime
	}

	return h
}

// bloomFilter answers "definitely absent" for static paths before the map
// lookup. False positives fall through to the map; there are no false
// negatives. It is immutable after the table is built.
type bloomFilter struct {
	bits  []uint64
	size  uint64
	seeds []uint64
}

func newBloomFilter(size uint64, hashFuncs int) *bloomFilter {
	if size == 0 {
		size = 1
	}
	if hashFuncs < 1 {
		hashFuncs = 1
	}

	bf := &bloomFilter{
		bits:  make([]uint64, (size+63)/64),
		size:  size,
		seeds: make([]uint64, hashFuncs),
	}
	for i := range hashFuncs {
		//nolint:gosec // G115: hashFuncs is small, no overflow
		bf.seeds[i] = uint64(i+1) * 0x9e3779b97f4a7c15
	}

	return bf
}

func (bf *bloomFilter) position(hash, seed uint64) uint64 {
	return (hash ^ seed) % bf.size
}

func (bf *bloomFilter) add(hash uint64) {
	for _, seed := range bf.seeds {
		pos := bf.position(hash, seed)
		bf.bits[pos/64] |= 1 << (pos % 64)
	}
}

// mayContain reports false only when hash was never added.
func (bf *bloomFilter) mayContain(hash uint64) bool {
	for _, seed := range bf.seeds {
		pos := bf.position(hash, seed)
		if bf.bits[pos/64]&(1<<(pos%64)) == 0 {
			return false
		}
	}

	return true
}
