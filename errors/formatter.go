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
	"encoding/json"
	"errors"
	"net/http"
)

// Formatter turns a routing error into the parts of an HTTP response.
// Implementations do not write anything themselves; see [Response.Write].
type Formatter interface {
	// Format converts err into a response. req supplies the instance URI
	// for formats that carry one.
	Format(req *http.Request, err error) Response
}

// Response is a formatted error ready to be written.
type Response struct {
	// Status is the HTTP status code.
	Status int

	// ContentType is the Content-Type header value.
	ContentType string

	// Body is marshaled to JSON by [Response.Write].
	Body any

	// Headers holds extra headers such as Allow for 405 responses.
	Headers http.Header
}

// Write sends the response to w: extra headers first, then the status line
// and the JSON-encoded body.
func (r Response) Write(w http.ResponseWriter) error {
	h := w.Header()
	for k, vs := range r.Headers {
		for _, v := range vs {
			h.Add(k, v)
		}
	}
	if r.ContentType != "" {
		h.Set("Content-Type", r.ContentType)
	}
	w.WriteHeader(r.Status)
	if r.Body == nil {
		return nil
	}

	return json.NewEncoder(w).Encode(r.Body)
}

// ErrorType allows errors to declare their own HTTP status code.
//
//	func (e *MethodNotAllowedError) HTTPStatus() int {
//		return http.StatusMethodNotAllowed
//	}
type ErrorType interface {
	error
	// HTTPStatus returns the HTTP status code for this error.
	HTTPStatus() int
}

// ErrorDetails allows errors to provide additional structured information,
// rendered as the "errors" member of a problem detail.
type ErrorDetails interface {
	error
	// Details returns structured information about the error.
	Details() any
}

// ErrorCode allows errors to provide a machine-readable code.
type ErrorCode interface {
	error
	// Code returns a machine-readable error code.
	Code() string
}

// ErrorHeaders allows errors to contribute response headers.
// [MethodNotAllowedError] uses it to publish the Allow header.
type ErrorHeaders interface {
	error
	// Headers returns headers to add to the response.
	Headers() http.Header
}

// NewRFC9457 creates a problem-details formatter. baseURL is prepended to the
// error code to build the problem type URI.
//
//	formatter := errors.NewRFC9457("https://api.example.com/problems")
//	_ = formatter.Format(req, err).Write(w)
func NewRFC9457(baseURL string) *RFC9457 {
	return &RFC9457{
		BaseURL: baseURL,
	}
}

// NewSimple creates a formatter producing {"error": ..., "code": ...} bodies.
func NewSimple() *Simple {
	return &Simple{}
}

// WithStatus wraps an error with an explicit HTTP status code.
// If err is nil, the status text for the code is used as the message.
//
//	return errors.WithStatus(err, http.StatusGone)
func WithStatus(err error, status int) error {
	return &statusError{err: err, status: status}
}

type statusError struct {
	err    error
	status int
}

func (e *statusError) Error() string {
	if e.err == nil {
		return http.StatusText(e.status)
	}
	return e.err.Error()
}

func (e *statusError) Unwrap() error {
	return e.err
}

func (e *statusError) HTTPStatus() int {
	return e.status
}

// collectHeaders returns the headers contributed by err, or nil.
func collectHeaders(err error) http.Header {
	var withHeaders ErrorHeaders
	if errors.As(err, &withHeaders) {
		return withHeaders.Headers()
	}
	return nil
}
