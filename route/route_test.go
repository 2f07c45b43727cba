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

package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_NormalizesMethods(t *testing.T) {
	t.Parallel()

	r := New("users", "/users", nil, "get", " post ", "GET", "")
	assert.Equal(t, []string{"GET", "POST"}, r.Methods())
	assert.False(t, r.AnyMethod())
	assert.True(t, r.AllowsMethod("post"))
	assert.False(t, r.AllowsMethod("DELETE"))

	anyMethod := New("any", "/any", nil)
	assert.True(t, anyMethod.AnyMethod())
	assert.True(t, anyMethod.AllowsMethod("PURGE"))
	assert.Nil(t, anyMethod.Methods())
}

func TestRoute_WithIsFunctional(t *testing.T) {
	t.Parallel()

	base := New("user.show", "/users/[id]", "h1", "GET").
		WithTokens(map[string]string{"id": `\d+`}).
		WithDefaults(map[string]any{"format": "json"}).
		WithMiddleware("auth")

	changed := base.
		WithName("user.view").
		WithPath("/u/[id]").
		WithHandler("h2").
		WithMethods("PUT").
		WithToken("id", "[a-z]+").
		WithDefaults(map[string]any{"format": "xml"}).
		WithMiddleware("log")

	assert.Equal(t, "user.show", base.Name())
	assert.Equal(t, "/users/[id]", base.Path())
	assert.Equal(t, "h1", base.Handler())
	assert.Equal(t, []string{"GET"}, base.Methods())
	assert.Equal(t, map[string]string{"id": `\d+`}, base.Tokens())
	assert.Equal(t, map[string]any{"format": "json"}, base.Defaults())
	assert.Equal(t, []Middleware{"auth"}, base.Middleware())

	assert.Equal(t, "user.view", changed.Name())
	assert.Equal(t, "/u/[id]", changed.Path())
	assert.Equal(t, "h2", changed.Handler())
	assert.Equal(t, []string{"PUT"}, changed.Methods())
	assert.Equal(t, map[string]string{"id": "[a-z]+"}, changed.Tokens())
	assert.Equal(t, map[string]any{"format": "xml"}, changed.Defaults())
	assert.Equal(t, []Middleware{"auth", "log"}, changed.Middleware())
}

func TestRoute_AccessorsReturnCopies(t *testing.T) {
	t.Parallel()

	r := New("r", "/r", nil, "GET").WithTokens(map[string]string{"a": "x"})

	r.Methods()[0] = "DELETE"
	r.Tokens()["a"] = "y"

	assert.Equal(t, []string{"GET"}, r.Methods())
	assert.Equal(t, "x", r.Tokens()["a"])
}

func TestNormalizeMethods(t *testing.T) {
	t.Parallel()

	assert.Nil(t, NormalizeMethods(nil))
	assert.Nil(t, NormalizeMethods([]string{" ", ""}))
	assert.Equal(t, []string{"DELETE", "GET", "PATCH"}, NormalizeMethods([]string{"patch", "GET", "delete", "get"}))
}

func TestRoute_FieldsRoundTrip(t *testing.T) {
	t.Parallel()

	r := New("r", "/r/[id]", "h", "GET").
		WithToken("id", `\d+`).
		WithMiddleware("m").
		WithDefaults(map[string]any{"id": 1}).
		withGroup("g")

	f := r.Fields()
	assert.Equal(t, "g", f.Group)
	assert.Equal(t, r, FromFields(f))

	f.Tokens["id"] = "changed"
	assert.Equal(t, `\d+`, r.Tokens()["id"])
}
