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

// Package route provides the route data model: immutable route records,
// groups that derive routes from shared configuration, and the ordered,
// name-keyed [Collection] that matchers and generators operate over.
//
// # Route Records
//
// A [Route] is a value. Every With method returns a modified copy, so a route
// held by a collection or a snapshot can never change underneath it:
//
//	r := route.New("user.show", "/users/[id]", showUser, "GET")
//	r2 := r.WithToken("id", `[0-9a-f]{24}`) // r is unchanged
//
// # Groups
//
// A [Group] owns routes in their original form and re-derives all of them
// whenever its prefix, tokens or middleware change. The collection receives
// the full replacement set and keeps registration order.
//
//	api, _ := routes.Group("api", "/api")
//	_ = api.Handle("users.index", "/users", listUsers, "GET")
//	_ = api.SetMiddleware(auth) // re-derives api.users.index
//
// # Storage
//
// A [Collection] stores entries through a [Store]. [OrderedStore] is the
// default; other strategies can be plugged in with [WithStore] as long as
// they preserve insertion order.
//
// # Documents
//
// Route tables can be declared in any format supported by the codec package
// and applied with [Collection.Apply].
package route
