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

package codec

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// Type identifies a wire format, for example "json" or "yaml".
type Type string

// Encoder converts Go values into encoded bytes.
// Implementations must be safe for concurrent use.
type Encoder interface {
	Encode(v any) ([]byte, error)
}

// Decoder converts encoded bytes into the value pointed to by v.
// Implementations must be safe for concurrent use.
type Decoder interface {
	Decode(data []byte, v any) error
}

// Codec is both an [Encoder] and a [Decoder].
type Codec interface {
	Encoder
	Decoder
}

type registry struct {
	mu       sync.RWMutex
	codecs   map[Type]Codec
	suffixes map[string]Type
}

var defaultRegistry = &registry{
	codecs:   make(map[Type]Codec),
	suffixes: make(map[string]Type),
}

// Register makes c available under name. Any extensions given (with or
// without the leading dot) are mapped to name for [ForFile].
// Registering the same name twice replaces the previous codec.
func Register(name Type, c Codec, extensions ...string) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()

	defaultRegistry.codecs[name] = c
	for _, ext := range extensions {
		defaultRegistry.suffixes[normalizeExt(ext)] = name
	}
}

// Get returns the codec registered under name.
func Get(name Type) (Codec, error) {
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()

	c, ok := defaultRegistry.codecs[name]
	if !ok {
		return nil, fmt.Errorf("codec not found for type: %s", name)
	}

	return c, nil
}

// ForFile resolves the codec type from the extension of path.
func ForFile(path string) (Type, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("cannot infer codec from %q: no file extension", path)
	}

	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()

	name, ok := defaultRegistry.suffixes[normalizeExt(ext)]
	if !ok {
		return "", fmt.Errorf("no codec registered for extension %q", ext)
	}

	return name, nil
}

// Types lists the registered codec names.
func Types() []Type {
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()

	out := make([]Type, 0, len(defaultRegistry.codecs))
	for name := range defaultRegistry.codecs {
		out = append(out, name)
	}

	return out
}

// Marshal encodes v with the codec registered under name.
func Marshal(name Type, v any) ([]byte, error) {
	c, err := Get(name)
	if err != nil {
		return nil, err
	}

	return c.Encode(v)
}

// Unmarshal decodes data with the codec registered under name.
func Unmarshal(name Type, data []byte, v any) error {
	c, err := Get(name)
	if err != nil {
		return err
	}

	return c.Decode(data, v)
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
