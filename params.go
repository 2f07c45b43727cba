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
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cast"
)

// Params holds the parameters extracted by a match. Values are int,
// float64, string, a default of another type, or nil for a missing
// parameter.
type Params map[string]any

// Get returns the value of a present, non-nil parameter.
func (p Params) Get(name string) (any, bool) {
	v, ok := p[name]
	if !ok || v == nil {
		return nil, false
	}

	return v, true
}

// Has reports whether the parameter is present and non-nil.
func (p Params) Has(name string) bool {
	_, ok := p.Get(name)
	return ok
}

// String returns the parameter in string form. Numbers are formatted back,
// so an id captured as 42 reads "42".
func (p Params) String(name string) (string, error) {
	v, ok := p.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrParamMissing, name)
	}

	s, err := cast.ToStringE(v)
	if err != nil {
		return "", fmt.Errorf("%w: %s (%w)", ErrParamInvalid, name, err)
	}

	return s, nil
}

// Int returns the parameter as an int. Floats with a fractional part are
// rejected.
func (p Params) Int(name string) (int, error) {
	v, err := p.Int64(name)
	if err != nil {
		return 0, err
	}
	if v < math.MinInt || v > math.MaxInt {
		return 0, fmt.Errorf("%w: %s (out of range)", ErrParamInvalid, name)
	}

	return int(v), nil
}

// Int64 returns the parameter as an int64.
func (p Params) Int64(name string) (int64, error) {
	v, ok := p.Get(name)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrParamMissing, name)
	}

	switch x := v.(type) {
	case int:
		return int64(x), nil
	case string:
		n, err := strconv.ParseInt(x, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s (%w)", ErrParamInvalid, name, err)
		}
		return n, nil
	case float64:
		if x != math.Trunc(x) || x < math.MinInt64 || x >= math.MaxInt64 {
			return 0, fmt.Errorf("%w: %s (not an integer)", ErrParamInvalid, name)
		}
		return int64(x), nil
	default:
		n, err := cast.ToInt64E(v)
		if err != nil {
			return 0, fmt.Errorf("%w: %s (%w)", ErrParamInvalid, name, err)
		}
		return n, nil
	}
}

// Float64 returns the parameter as a float64. Integers are widened.
func (p Params) Float64(name string) (float64, error) {
	v, ok := p.Get(name)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrParamMissing, name)
	}

	switch x := v.(type) {
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s (%w)", ErrParamInvalid, name, err)
		}
		return f, nil
	default:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return 0, fmt.Errorf("%w: %s (%w)", ErrParamInvalid, name, err)
		}
		return f, nil
	}
}
