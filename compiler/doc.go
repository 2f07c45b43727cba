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

// Package compiler turns route patterns into regular-expression matchers.
//
// A pattern is a '/'-separated path whose segments are either literal text or
// placeholders delimited by a configurable pair, "[" and "]" by default:
//
//	/users/[id]                 required, pattern from the named table ("id" → \d+)
//	/posts/[?page]              optional, may be omitted with its slash
//	/files/[name:uuid]          inline pattern naming a table entry
//	/archive/[year:\d{4}]       inline regular expression
//
// # Pattern resolution
//
// The expression for a placeholder is chosen in this order:
//
//  1. the inline pattern after the first ':'
//  2. the route-level override passed to [Compiler.Compile]
//  3. the named pattern whose key equals the parameter name
//  4. the catch-all [^/]+
//
// Inline patterns and overrides that equal a key of the named table are
// replaced by the table entry, so [name:uuid] and [path:any] work as
// shorthands. Catch-all matching across '/' is only available through an
// explicit "any" pattern.
//
// # Compiled form
//
// [Compiler.Compile] emits an anchored expression with one synthetic named
// group per placeholder (p0, p1, ...), mapped back to parameter names by
// position. Parameter names therefore need not be valid group names.
// The root path compiles to ^/$.
//
// # Extraction
//
// [CompiledRoute.Extract] returns a map of parameter values. Captured values
// and defaults are converted by [Coerce]: pure digit strings become int,
// digits with one decimal point become float64, everything else stays a
// string. Missing parameters are nil unless they are optional and have a
// default.
package compiler
