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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/routemap/codec"
)

const yamlDocument = `
routes:
  - name: home
    path: /
    methods: [GET]
    handler: pages.home
groups:
  - name: api
    prefix: /api
    tokens:
      id: '[0-9]+'
    middleware: [auth]
    routes:
      - name: users.show
        path: /users/[id]/[?page]
        methods: GET,HEAD
        handler: users.show
        defaults:
          page: 1
    groups:
      - name: v2
        prefix: /v2
        routes:
          - name: items
            path: /items
            handler: items.index
`

func TestDecodeDocument_YAML(t *testing.T) {
	t.Parallel()

	doc, err := DecodeDocument(codec.TypeYAML, []byte(yamlDocument))
	require.NoError(t, err)

	require.Len(t, doc.Routes, 1)
	require.Len(t, doc.Groups, 1)
	users := doc.Groups[0].Routes[0]
	assert.Equal(t, []string{"GET", "HEAD"}, users.Methods)
	assert.Equal(t, "[0-9]+", doc.Groups[0].Tokens["id"])
	require.Len(t, doc.Groups[0].Groups, 1)

	c := NewCollection(nil)
	require.NoError(t, c.Apply(doc, nil))

	e, ok := c.Get("api.users.show")
	require.True(t, ok)
	assert.Equal(t, "users.show", e.Route.Handler())
	assert.Equal(t, []Middleware{"auth"}, e.Route.Middleware())
	assert.Equal(t, map[string]any{"page": 1}, e.Route.Defaults())
	assert.Equal(t, `^/api/users/(?P<p0>[0-9]+)(?:/(?P<p1>[^/]+))?/?$`, e.Compiled.Regex())

	e, ok = c.Get("api.v2.items")
	require.True(t, ok)
	assert.Equal(t, "/api/v2/items", e.Compiled.Path())
	assert.Equal(t, []Middleware{"auth"}, e.Route.Middleware())
}

func TestDecodeDocument_Formats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format codec.Type
		data   string
	}{
		{codec.TypeJSON, `{"routes":[{"name":"a","path":"/a/[id]","methods":["get"],"tokens":{"id":"\\d{3}"}}]}`},
		{codec.TypeTOML, "[[routes]]\nname = \"a\"\npath = \"/a/[id]\"\nmethods = [\"get\"]\n[routes.tokens]\nid = '\\d{3}'\n"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			t.Parallel()

			doc, err := DecodeDocument(tt.format, []byte(tt.data))
			require.NoError(t, err)

			c := NewCollection(nil)
			require.NoError(t, c.Apply(doc, nil))
			e, ok := c.Get("a")
			require.True(t, ok)
			assert.Equal(t, []string{"GET"}, e.Route.Methods())
			assert.Equal(t, `^/a/(?P<p0>\d{3})/?$`, e.Compiled.Regex())
		})
	}
}

func TestDecodeDocument_MsgpackRoundTrip(t *testing.T) {
	t.Parallel()

	in := Document{Routes: []RouteSpec{{Name: "a", Path: "/a", Methods: []string{"POST"}}}}
	data, err := codec.Marshal(codec.TypeMsgpack, in)
	require.NoError(t, err)

	out, err := DecodeDocument(codec.TypeMsgpack, data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeDocument_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{"missing path", `{"routes":[{"name":"a"}]}`},
		{"bad method", `{"routes":[{"path":"/a","methods":["G3T"]}]}`},
		{"group without name", `{"groups":[{"prefix":"/x"}]}`},
		{"unknown field", `{"routes":[{"path":"/a","verb":"GET"}]}`},
		{"not json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := DecodeDocument(codec.TypeJSON, []byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "route document")
		})
	}
}

func TestCollection_ApplyResolver(t *testing.T) {
	t.Parallel()

	handlers := map[string]any{"ok": func() string { return "ok" }}
	resolve := func(ref string) (any, error) {
		h, found := handlers[ref]
		if !found {
			return nil, errors.New("unknown reference")
		}
		return h, nil
	}

	c := NewCollection(nil)
	err := c.Apply(Document{Routes: []RouteSpec{{Name: "a", Path: "/a", Handler: "ok"}}}, resolve)
	require.NoError(t, err)
	r, _ := c.Route("a")
	assert.NotNil(t, r.Handler())

	err = c.Apply(Document{Routes: []RouteSpec{{Name: "b", Path: "/b", Handler: "missing"}}}, resolve)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown reference")
}
