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

// Package routemap is a URL routing engine: it compiles declarative route
// patterns, resolves a request method and path to a route with typed
// parameters, and generates paths from route names.
//
// # Patterns
//
// A pattern is a path whose segments are literal text or placeholders:
//
//	/users/[id]                  required; "id" resolves to \d+
//	/posts/[?page]               optional; /posts matches with page nil or its default
//	/files/[name:uuid]           inline pattern naming a table entry
//	/archive/[year:\d{4}]        inline regular expression
//
// See the compiler package for resolution rules and coercion.
//
// # Matching
//
//	r := routemap.MustNew()
//	_ = r.Handle("users.show", "/users/[id]", showUser, "GET")
//
//	m, err := r.Match("GET", "/users/42")
//	// m.Route.Name() == "users.show", m.Params["id"] == 42
//
// The first registered route whose pattern matches and whose methods allow
// the request wins. A path that matches only routes for other methods
// yields a MethodNotAllowedError carrying every allowed method, so the
// caller can answer 405 with an Allow header; the errors package formats
// both failures as HTTP problem responses.
//
// # Snapshots
//
// [Router.Snapshot] turns the routes into a [cache.Snapshot] that can be
// encoded with any registered codec and loaded at startup with
// [Router.LoadSnapshot], skipping pattern compilation. Routes registered
// after loading are runtime routes: they replace snapshot routes of the same
// name and are tried after the snapshot when matching.
//
// # Result cache
//
// [WithResultCache] memoizes successful matches. When full, the least
// recently used half is evicted in one batch. Any route change purges it.
package routemap
