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

import (
	"regexp"
	"slices"
	"strings"

	routeerrors "rivaas.dev/routemap/errors"
)

// CompiledRoute is the derived, immutable matching form of a route pattern.
// It is safe for concurrent use.
type CompiledRoute struct {
	path     string
	regex    string
	re       *regexp.Regexp
	params   []string
	groups   []int
	optional map[string]struct{}
	segments []Segment
}

func (r *CompiledRoute) bindGroups() {
	r.groups = make([]int, len(r.params))
	for i := range r.params {
		r.groups[i] = r.re.SubexpIndex(groupName(i))
	}
}

// Path returns the normalized pattern.
func (r *CompiledRoute) Path() string { return r.path }

// Regex returns the anchored regular expression source.
func (r *CompiledRoute) Regex() string { return r.regex }

// ParamNames returns the parameter names in declaration order.
func (r *CompiledRoute) ParamNames() []string { return slices.Clone(r.params) }

// Segments returns the parsed segments of the pattern.
func (r *CompiledRoute) Segments() []Segment { return slices.Clone(r.segments) }

// IsStatic reports whether the pattern has no placeholders.
func (r *CompiledRoute) IsStatic() bool { return len(r.params) == 0 }

// IsOptional reports whether name is an optional parameter.
func (r *CompiledRoute) IsOptional(name string) bool {
	_, ok := r.optional[name]
	return ok
}

// OptionalParams returns the optional parameter names in declaration order.
func (r *CompiledRoute) OptionalParams() []string {
	out := make([]string, 0, len(r.optional))
	for _, name := range r.params {
		if r.IsOptional(name) {
			out = append(out, name)
		}
	}

	return out
}

// Match reports whether the normalized path matches the route.
func (r *CompiledRoute) Match(path string) bool {
	return r.re.MatchString(path)
}

// Extract matches path and returns the parameter values. A parameter whose
// group did not participate, or captured an empty string, is missing: it
// takes its default when it is optional and one is declared, otherwise nil.
// Every value, defaults included, goes through [Coerce].
// The second result is false when the path does not match.
func (r *CompiledRoute) Extract(path string, defaults map[string]any) (map[string]any, bool) {
	m := r.re.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}

	params := make(map[string]any, len(r.params))
	for i, name := range r.params {
		var value string
		if idx := r.groups[i]; idx >= 0 && idx < len(m) {
			value = m[idx]
		}

		switch {
		case value != "":
			params[name] = CoerceString(value)
		case r.IsOptional(name):
			if def, ok := defaults[name]; ok && def != nil {
				params[name] = Coerce(def)
			} else {
				params[name] = nil
			}
		default:
			params[name] = nil
		}
	}

	return params, true
}

// Render builds a concrete path from already encoded values. Literal
// segments are emitted verbatim. A required placeholder without a value
// yields a [routeerrors.MissingParameterError]; an optional one is dropped
// with its separator.
func (r *CompiledRoute) Render(values map[string]string) (string, error) {
	var sb strings.Builder
	sb.Grow(len(r.path))

	for _, seg := range r.segments {
		if !seg.IsToken {
			sb.WriteByte('/')
			sb.WriteString(seg.Raw)
			continue
		}

		v, ok := values[seg.Token.Name]
		if !ok || v == "" {
			if seg.Token.Required {
				return "", &routeerrors.MissingParameterError{Param: seg.Token.Name}
			}
			continue
		}
		sb.WriteByte('/')
		sb.WriteString(v)
	}

	out := sb.String()
	if out == "" {
		return "/", nil
	}

	return strings.TrimSuffix(out, "/"), nil
}
