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

import "strings"

// NormalizePath normalizes a request path: backslashes become '/', repeated
// separators collapse to one, a leading '/' is enforced and a trailing '/'
// is stripped except for the root path.
func NormalizePath(path string) string {
	return normalize(path, nil)
}

// Normalize normalizes a route pattern like [NormalizePath] but leaves the
// inside of placeholders untouched, so inline patterns such as [id:\d+]
// keep their backslashes.
func (tz Tokenizer) Normalize(pattern string) string {
	return normalize(strings.TrimSpace(pattern), &tz)
}

func normalize(path string, tz *Tokenizer) string {
	if path == "" || path == "/" {
		return "/"
	}

	var sb strings.Builder
	sb.Grow(len(path) + 1)
	sb.WriteByte('/')
	last := byte('/')
	depth := 0

	for i := 0; i < len(path); {
		if tz != nil {
			if strings.HasPrefix(path[i:], tz.open) {
				depth++
				sb.WriteString(tz.open)
				i += len(tz.open)
				last = 0
				continue
			}
			if depth > 0 && strings.HasPrefix(path[i:], tz.close) {
				depth--
				sb.WriteString(tz.close)
				i += len(tz.close)
				last = 0
				continue
			}
		}

		c := path[i]
		i++
		if depth == 0 && (c == '/' || c == '\\') {
			if last != '/' {
				sb.WriteByte('/')
				last = '/'
			}
			continue
		}
		sb.WriteByte(c)
		last = c
	}

	out := sb.String()
	if len(out) > 1 && out[len(out)-1] == '/' {
		out = out[:len(out)-1]
	}

	return out
}

// splitSegments splits a normalized path into its non-empty segments.
func splitSegments(normalized string) []string {
	trimmed := strings.Trim(normalized, "/")
	if trimmed == "" {
		return nil
	}

	return strings.Split(trimmed, "/")
}
