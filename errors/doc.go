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

// Package errors defines the routing error taxonomy and framework-agnostic
// formatters that turn those errors into HTTP responses.
//
// Errors fall into two families:
//
//   - Registration-time errors (ErrDuplicateRouteName, ErrMalformedPattern,
//     ErrRouterFrozen). These are returned while routes are being defined and
//     indicate a programming mistake.
//   - Request-time errors (ErrRouteNotFound, ErrMethodNotAllowed). These are
//     expected outcomes of matching and carry enough context to build a 404
//     or a 405 response with an Allow header.
//
// Generation errors (ErrMissingParameter) are programmer errors as well.
//
// Every typed error unwraps to its sentinel so callers can use errors.Is:
//
//	m, err := r.Match(req.Method, req.URL.Path)
//	switch {
//	case errors.Is(err, routeerrors.ErrMethodNotAllowed):
//		// 405
//	case errors.Is(err, routeerrors.ErrRouteNotFound):
//		// 404
//	}
//
// # Formatters
//
// RFC9457 and Simple produce a Response that can be written to any
// http.ResponseWriter. Typed errors implement ErrorType, ErrorCode,
// ErrorDetails and ErrorHeaders so the formatters pick the right status code,
// problem type and Allow header automatically:
//
//	formatter := routeerrors.NewRFC9457("https://api.example.com/problems")
//	response := formatter.Format(req, err)
//	response.Write(w)
package errors
