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

package routemap

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/routemap/cache"
	"rivaas.dev/routemap/codec"
	routeerrors "rivaas.dev/routemap/errors"
	"rivaas.dev/routemap/route"
)

func buildSnapshot(t *testing.T) *cache.Snapshot {
	t.Helper()

	src := MustNew()
	require.NoError(t, src.Handle("home", "/", "home", "GET"))
	require.NoError(t, src.Handle("users.list", "/users", "users.list", "GET"))
	require.NoError(t, src.Handle("users.create", "/users", "users.create", "POST"))
	require.NoError(t, src.Add(route.New("users.show", "/users/[id]", "users.show", "GET").
		WithTokens(map[string]string{"id": `[0-9]{1,4}`})))
	require.NoError(t, src.Add(route.New("posts", "/posts/[?page]", "posts", "GET").
		WithDefaults(map[string]any{"page": 1})))

	return src.Snapshot()
}

func TestLoadSnapshot_MatchesLikeTheSource(t *testing.T) {
	t.Parallel()

	for _, format := range []codec.Type{codec.TypeJSON, codec.TypeYAML, codec.TypeMsgpack} {
		t.Run(string(format), func(t *testing.T) {
			t.Parallel()

			data, err := cache.Encode(format, buildSnapshot(t))
			require.NoError(t, err)
			snap, err := cache.Decode(format, data)
			require.NoError(t, err)

			r := MustNew()
			require.NoError(t, r.LoadSnapshot(snap))

			m, err := r.Match("GET", "/users/42")
			require.NoError(t, err)
			assert.Equal(t, "users.show", m.Route.Name())
			assert.Equal(t, "users.show", m.Route.Handler())
			assert.Equal(t, Params{"id": 42}, m.Params)

			// The stored expression keeps the route-level token.
			_, err = r.Match("GET", "/users/12345")
			require.ErrorIs(t, err, ErrRouteNotFound)

			m, err = r.Match("POST", "/users")
			require.NoError(t, err)
			assert.Equal(t, "users.create", m.Route.Name())

			m, err = r.Match("GET", "/posts")
			require.NoError(t, err)
			assert.Equal(t, Params{"page": 1}, m.Params)

			_, err = r.Match("PUT", "/users")
			var mna *routeerrors.MethodNotAllowedError
			require.ErrorAs(t, err, &mna)
			assert.Equal(t, []string{"GET", "POST"}, mna.Allowed)

			path, err := r.URL("users.show", map[string]any{"id": 7})
			require.NoError(t, err)
			assert.Equal(t, "/users/7", path)
		})
	}
}

func TestLoadSnapshot_RuntimeRoutes(t *testing.T) {
	t.Parallel()

	var events []DiagnosticEvent
	r := MustNew(WithDiagnostics(DiagnosticHandlerFunc(func(e DiagnosticEvent) {
		events = append(events, e)
	})))
	require.NoError(t, r.LoadSnapshot(buildSnapshot(t)))

	// A runtime route shadows the snapshot route of the same name.
	require.NoError(t, r.Handle("users.show", "/people/[id]", "runtime.show", "GET"))
	// Runtime routes are tried after snapshot routes.
	require.NoError(t, r.Handle("users.search", "/users/[query]", "runtime.search", "GET"))

	rt, ok := r.Route("users.show")
	require.True(t, ok)
	assert.Equal(t, "runtime.show", rt.Handler())

	path, err := r.URL("users.show", map[string]any{"id": 3})
	require.NoError(t, err)
	assert.Equal(t, "/people/3", path)

	m, err := r.Match("GET", "/people/3")
	require.NoError(t, err)
	assert.Equal(t, "users.show", m.Route.Name())

	// The replaced snapshot route no longer matches, so the runtime search
	// route catches the path.
	m, err = r.Match("GET", "/users/3")
	require.NoError(t, err)
	assert.Equal(t, "users.search", m.Route.Name())

	// Snapshot static routes still win over runtime routes.
	m, err = r.Match("GET", "/users")
	require.NoError(t, err)
	assert.Equal(t, "users.list", m.Route.Name())

	var overrides int
	for _, e := range events {
		if e.Kind == DiagRuntimeOverride {
			overrides++
			assert.Equal(t, "users.show", e.Fields["name"])
		}
	}
	assert.Equal(t, 1, overrides)

	names := make([]string, 0)
	for _, rt := range r.Routes() {
		names = append(names, rt.Name())
	}
	assert.Equal(t, []string{"home", "users.list", "users.create", "posts", "users.show", "users.search"}, names)
}

func TestLoadSnapshot_RoutesRegisteredBeforeLoading(t *testing.T) {
	t.Parallel()

	r := MustNew()
	require.NoError(t, r.Handle("home", "/start", "early"))
	require.NoError(t, r.LoadSnapshot(buildSnapshot(t)))

	rt, ok := r.Route("home")
	require.True(t, ok)
	assert.Equal(t, "early", rt.Handler())

	_, err := r.Match("GET", "/")
	require.ErrorIs(t, err, ErrRouteNotFound)
}

func TestRouter_SnapshotLayersRuntimeRoutes(t *testing.T) {
	t.Parallel()

	r := MustNew()
	require.NoError(t, r.LoadSnapshot(buildSnapshot(t)))
	require.NoError(t, r.Handle("posts", "/articles/[?page]", "articles", "GET"))
	require.NoError(t, r.Handle("about", "/about", "about", "GET"))

	snap := r.Snapshot()
	assert.Equal(t, 6, snap.Len())

	dynamic := make([]string, 0, len(snap.Dynamic))
	for _, e := range snap.Dynamic {
		dynamic = append(dynamic, fmt.Sprintf("%s %s", e.Name, e.Path))
	}
	assert.Equal(t, []string{"users.show /users/[id]", "posts /articles/[?page]"}, dynamic)
	assert.Equal(t, `^/users/(?P<p0>[0-9]{1,4})/?$`, snap.Dynamic[0].Regex)

	fresh := MustNew()
	require.NoError(t, fresh.LoadSnapshot(snap))
	m, err := fresh.Match("GET", "/about")
	require.NoError(t, err)
	assert.Equal(t, "about", m.Route.Name())
}

func TestLoadSnapshot_InvalidSnapshot(t *testing.T) {
	t.Parallel()

	r := MustNew()
	err := r.LoadSnapshot(&cache.Snapshot{Dynamic: []cache.Entry{{
		Name: "broken", Path: "/x/[id]", Regex: "^/x/(", Parameters: []string{"id"},
	}}})
	require.ErrorIs(t, err, ErrInvalidSnapshot)

	_, err = r.Match("GET", "/x/1")
	require.ErrorIs(t, err, ErrRouteNotFound)
}

func TestLoadSnapshot_IndexedDynamicRoutesKeepOrder(t *testing.T) {
	t.Parallel()

	src := MustNew()
	require.NoError(t, src.Handle("catch", "/[section]/[slug]", nil, "GET"))
	for i := range 12 {
		require.NoError(t, src.Handle(fmt.Sprintf("s%d", i), fmt.Sprintf("/s%d/[slug]", i), nil, "GET"))
	}

	r := MustNew(WithIndexThreshold(4))
	require.NoError(t, r.LoadSnapshot(src.Snapshot()))

	m, err := r.Match("GET", "/s3/intro")
	require.NoError(t, err)
	assert.Equal(t, "catch", m.Route.Name())
	assert.Equal(t, Params{"section": "s3", "slug": "intro"}, m.Params)

	_, err = r.Match("POST", "/s3/intro")
	var mna *routeerrors.MethodNotAllowedError
	require.ErrorAs(t, err, &mna)
	assert.Equal(t, []string{"GET"}, mna.Allowed)
}
