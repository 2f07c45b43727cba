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

//go:build !integration

package compiler

import (
	"strings"
	"testing"
)

func FuzzNormalizePath(f *testing.F) {
	for _, seed := range []string{"", "/", "//a//b/", `\a\b`, "/users/123", "a/b/c/"} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, in string) {
		out := NormalizePath(in)
		if !strings.HasPrefix(out, "/") {
			t.Fatalf("NormalizePath(%q) = %q: missing leading slash", in, out)
		}
		if out != "/" && strings.HasSuffix(out, "/") {
			t.Fatalf("NormalizePath(%q) = %q: trailing slash", in, out)
		}
		if strings.Contains(out, "//") {
			t.Fatalf("NormalizePath(%q) = %q: repeated separator", in, out)
		}
		if NormalizePath(out) != out {
			t.Fatalf("NormalizePath not idempotent for %q", in)
		}
	})
}

func FuzzCompile(f *testing.F) {
	for _, seed := range []string{
		"/users/[id]",
		"/posts/[?page]",
		`/a/[x:\d+]/[?y:[a-z]+]`,
		"/[",
		"/a/[x]/[x]",
		"/[?]",
	} {
		f.Add(seed)
	}

	c := New()
	f.Fuzz(func(t *testing.T, pattern string) {
		r, err := c.Compile(pattern, nil)
		if err != nil {
			return
		}

		values := make(map[string]string, len(r.ParamNames()))
		for _, name := range r.ParamNames() {
			values[name] = "v"
		}
		// Rendering never fails once every placeholder has a value.
		if _, err := r.Render(values); err != nil {
			t.Fatalf("Render(%q): %v", pattern, err)
		}
	})
}

func FuzzCoerceString(f *testing.F) {
	for _, seed := range []string{"1", "1.5", "abc", "", "00", "1..2"} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, s string) {
		switch v := CoerceString(s).(type) {
		case int, float64:
		case string:
			if v != s {
				t.Fatalf("CoerceString(%q) changed a string to %q", s, v)
			}
		default:
			t.Fatalf("CoerceString(%q) returned %T", s, v)
		}
	})
}
