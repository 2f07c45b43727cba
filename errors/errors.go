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

package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrRouteNotFound indicates that no route pattern matches the request path,
	// or that a route name is unknown.
	ErrRouteNotFound = errors.New("route not found")

	// ErrMethodNotAllowed indicates that at least one route matches the path
	// but none of them accepts the request method.
	ErrMethodNotAllowed = errors.New("method not allowed")

	// ErrMissingParameter indicates that URL generation was requested without
	// a value for a required placeholder.
	ErrMissingParameter = errors.New("missing required parameter")

	// ErrDuplicateRouteName indicates that two routes share the same name.
	ErrDuplicateRouteName = errors.New("route name already registered")

	// ErrMalformedPattern indicates that a path pattern cannot be tokenized or compiled.
	ErrMalformedPattern = errors.New("malformed route pattern")

	// ErrRouterFrozen indicates that routes cannot be modified after Freeze.
	ErrRouterFrozen = errors.New("router is frozen")

	// ErrInvalidSnapshot indicates that a cache snapshot document does not
	// conform to the snapshot schema.
	ErrInvalidSnapshot = errors.New("invalid route snapshot")

	// ErrUnsupportedSnapshotVersion indicates that a snapshot was produced by an
	// incompatible schema version.
	ErrUnsupportedSnapshotVersion = errors.New("unsupported route snapshot version")
)

// NotFoundError is returned when matching or generation cannot find a route.
// Path is set for matching failures, Name for generation failures.
type NotFoundError struct {
	Path string
	Name string
}

func (e *NotFoundError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: no route named %q", ErrRouteNotFound, e.Name)
	}
	return fmt.Sprintf("%s: %s", ErrRouteNotFound, e.Path)
}

// Unwrap returns the sentinel value [ErrRouteNotFound].
func (e *NotFoundError) Unwrap() error {
	return ErrRouteNotFound
}

// HTTPStatus implements [ErrorType].
func (e *NotFoundError) HTTPStatus() int {
	return http.StatusNotFound
}

// Code implements [ErrorCode].
func (e *NotFoundError) Code() string {
	return "route_not_found"
}

// MethodNotAllowedError is returned when the path matched at least one route
// but no matching route accepts the method. Allowed holds the union of the
// methods of every route whose pattern matched the path, sorted.
type MethodNotAllowedError struct {
	Path    string
	Method  string
	Allowed []string
}

func (e *MethodNotAllowedError) Error() string {
	return fmt.Sprintf("%s: %s %s (allowed: %s)", ErrMethodNotAllowed, e.Method, e.Path, strings.Join(e.Allowed, ", "))
}

// Unwrap returns the sentinel value [ErrMethodNotAllowed].
func (e *MethodNotAllowedError) Unwrap() error {
	return ErrMethodNotAllowed
}

// HTTPStatus implements [ErrorType].
func (e *MethodNotAllowedError) HTTPStatus() int {
	return http.StatusMethodNotAllowed
}

// Code implements [ErrorCode].
func (e *MethodNotAllowedError) Code() string {
	return "method_not_allowed"
}

// Details implements [ErrorDetails].
func (e *MethodNotAllowedError) Details() any {
	return map[string]any{"allowed": e.Allowed}
}

// Headers implements [ErrorHeaders] and exposes the Allow header.
func (e *MethodNotAllowedError) Headers() http.Header {
	h := make(http.Header, 1)
	h.Set("Allow", strings.Join(e.Allowed, ", "))
	return h
}

// MissingParameterError is returned when a required placeholder has no value
// during URL generation.
type MissingParameterError struct {
	Route string
	Param string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("%s %q for route %q", ErrMissingParameter, e.Param, e.Route)
}

// Unwrap returns the sentinel value [ErrMissingParameter].
func (e *MissingParameterError) Unwrap() error {
	return ErrMissingParameter
}

// Code implements [ErrorCode].
func (e *MissingParameterError) Code() string {
	return "missing_parameter"
}

// DuplicateNameError is returned when a route is registered under a name that
// is already taken in the collection.
type DuplicateNameError struct {
	Name         string
	Path         string
	ExistingPath string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s: %q (%s) conflicts with route at %s", ErrDuplicateRouteName, e.Name, e.Path, e.ExistingPath)
}

// Unwrap returns the sentinel value [ErrDuplicateRouteName].
func (e *DuplicateNameError) Unwrap() error {
	return ErrDuplicateRouteName
}

// Code implements [ErrorCode].
func (e *DuplicateNameError) Code() string {
	return "duplicate_route_name"
}

// MalformedPatternError is returned when a path pattern cannot be parsed.
// Segment is the offending segment when one can be identified.
type MalformedPatternError struct {
	Pattern string
	Segment string
	Reason  string
	Err     error
}

func (e *MalformedPatternError) Error() string {
	var sb strings.Builder
	sb.WriteString(ErrMalformedPattern.Error())
	sb.WriteString(": ")
	sb.WriteString(e.Pattern)
	if e.Segment != "" {
		sb.WriteString(" (segment ")
		sb.WriteString(e.Segment)
		sb.WriteByte(')')
	}
	if e.Reason != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Reason)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap returns the sentinel value [ErrMalformedPattern] along with the
// underlying cause, if any.
func (e *MalformedPatternError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrMalformedPattern, e.Err}
	}
	return []error{ErrMalformedPattern}
}

// Code implements [ErrorCode].
func (e *MalformedPatternError) Code() string {
	return "malformed_pattern"
}
