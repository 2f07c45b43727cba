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

package compiler

import "maps"

// catchAll is used for placeholders with no inline, override or named pattern.
const catchAll = `[^/]+`

// Patterns maps identifiers to regular expressions. A placeholder whose name
// (or inline pattern) is a key of the table uses the mapped expression.
type Patterns map[string]string

// DefaultPatterns returns a fresh copy of the built-in named pattern table.
func DefaultPatterns() Patterns {
	return Patterns{
		"id":      `\d+`,
		"slug":    `[a-z0-9-]+`,
		"uuid":    `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`,
		"any":     `.+`,
		"alpha":   `[a-zA-Z]+`,
		"alnum":   `[a-zA-Z0-9]+`,
		"year":    `[12]\d{3}`,
		"month":   `0[1-9]|1[0-2]`,
		"day":     `0[1-9]|[12]\d|3[01]`,
		"locale":  `[a-z]{2}(_[A-Z]{2})?`,
		"version": `v?\d+(\.\d+)*`,
		"date":    `\d{4}-\d{2}-\d{2}`,
	}
}

// Merge returns a new table with other layered over p.
func (p Patterns) Merge(other Patterns) Patterns {
	out := make(Patterns, len(p)+len(other))
	maps.Copy(out, p)
	maps.Copy(out, other)

	return out
}

// lookup expands expr through the table: a key is replaced by its
// expression, anything else is taken as a literal regular expression.
func (p Patterns) lookup(expr string) string {
	if named, ok := p[expr]; ok {
		return named
	}

	return expr
}

// resolve picks the expression for tok in priority order: inline pattern,
// route-level override, named default for the token name, catch-all.
func (p Patterns) resolve(tok Token, overrides map[string]string) string {
	if tok.HasPattern() {
		return p.lookup(tok.Pattern)
	}
	if override, ok := overrides[tok.Name]; ok && override != "" {
		return p.lookup(override)
	}
	if named, ok := p[tok.Name]; ok {
		return named
	}

	return catchAll
}
