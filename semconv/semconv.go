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

package semconv

// HTTP attribute constants.
const (
	// HTTPMethod stores the request method, upper-cased.
	HTTPMethod = "http.request.method"

	// HTTPRoute stores the matched route pattern, not the request path
	// (e.g., "/users/[id]").
	HTTPRoute = "http.route"

	// URLPath stores the decoded, normalized request path.
	URLPath = "url.path"
)

// Route attribute constants.
const (
	// RouteName stores the unique name of a route.
	RouteName = "routemap.route.name"

	// RouteMethods stores the methods a route accepts. Empty means any.
	RouteMethods = "routemap.route.methods"

	// SnapshotPath stores the pattern of a snapshot route that a runtime
	// route shadows.
	SnapshotPath = "routemap.snapshot.path"
)

// Match attribute constants.
const (
	// Outcome stores the result of a match attempt on spans. Values are
	// [OutcomeMatched], [OutcomeMethodNotAllowed] and [OutcomeNotFound].
	Outcome = "routemap.outcome"

	// ResultCacheHit is true when a match was served from the result cache.
	ResultCacheHit = "routemap.result_cache.hit"
)

// Match outcome values.
const (
	OutcomeMatched          = "matched"
	OutcomeMethodNotAllowed = "method_not_allowed"
	OutcomeNotFound         = "not_found"
)

// Metric attribute keys.
const (
	// MetricOutcome labels the match counter and duration histogram.
	MetricOutcome = "outcome"
)

// Snapshot and cache attribute constants, used in logs and diagnostics.
const (
	SnapshotStatic  = "static"
	SnapshotDynamic = "dynamic"
	SnapshotIndexed = "indexed"
	SnapshotBloom   = "bloom"
	EvictedCount    = "count"
	CacheCapacity   = "capacity"
)
