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

// Package semconv defines the attribute keys routemap uses across logs,
// metrics, spans and diagnostics.
//
// HTTP and URL keys follow OpenTelemetry semantic conventions. Keys specific
// to the routing engine live under the "routemap." prefix. Metric attribute
// keys are kept short because the Prometheus exporter turns them into label
// names.
//
// The same constants work as slog keys:
//
//	logger.Debug("route registered",
//	    semconv.RouteName, "users.show",
//	    semconv.HTTPRoute, "/users/[id]",
//	)
package semconv
