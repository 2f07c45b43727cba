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

package routemap

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cast"

	"rivaas.dev/routemap/compiler"
	routeerrors "rivaas.dev/routemap/errors"
)

// URL generates the path of the named route from params.
//
// Values are converted to strings and percent-encoded per path segment.
// A required placeholder without a value, or with a nil or empty one, fails
// with a [routeerrors.MissingParameterError]; an optional one is left out
// together with its separator. Params not named by the route are ignored.
//
// Example:
//
//	path, err := r.URL("users.show", map[string]any{"id": 42})
//	// path == "/users/42"
func (r *Router) URL(name string, params map[string]any) (string, error) {
	compiled, ok := r.compiled(name)
	if !ok {
		return "", &routeerrors.NotFoundError{Name: name}
	}

	values := make(map[string]string, len(params))
	for _, param := range compiled.ParamNames() {
		v, ok := params[param]
		if !ok || v == nil {
			continue
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			return "", fmt.Errorf("%w: %s (%w)", ErrParamInvalid, param, err)
		}
		values[param] = escapePathValue(s)
	}

	path, err := compiled.Render(values)
	if err != nil {
		var missing *routeerrors.MissingParameterError
		if errors.As(err, &missing) {
			missing.Route = name
		}
		return "", err
	}

	return path, nil
}

// URLWithQuery generates the path of the named route and appends query,
// encoded and sorted by key. An empty query adds nothing.
func (r *Router) URLWithQuery(name string, params map[string]any, query url.Values) (string, error) {
	path, err := r.URL(name, params)
	if err != nil {
		return "", err
	}
	if len(query) == 0 {
		return path, nil
	}

	return path + "?" + query.Encode(), nil
}

// MustURL is like URL but panics on error.
func (r *Router) MustURL(name string, params map[string]any) string {
	path, err := r.URL(name, params)
	if err != nil {
		panic(fmt.Sprintf("routemap.MustURL: %v", err))
	}

	return path
}

// compiled finds the compiled form of a route, runtime routes first.
func (r *Router) compiled(name string) (*compiler.CompiledRoute, bool) {
	if e, ok := r.routes.Get(name); ok {
		return e.Compiled, true
	}
	if st := r.state.Load(); st != nil {
		if rec, ok := st.table.Named(name); ok {
			return rec.Compiled, true
		}
	}

	return nil, false
}

// escapePathValue escapes each '/'-separated part of s, so catch-all values
// keep their separators readable.
func escapePathValue(s string) string {
	if !strings.Contains(s, "/") {
		return url.PathEscape(s)
	}

	parts := strings.Split(s, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}

	return strings.Join(parts, "/")
}
