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

	routeerrors "rivaas.dev/routemap/errors"
)

// Request-time and registration-time errors are defined in the errors
// package and re-exported here for convenience.
var (
	ErrRouteNotFound              = routeerrors.ErrRouteNotFound
	ErrMethodNotAllowed           = routeerrors.ErrMethodNotAllowed
	ErrMissingParameter           = routeerrors.ErrMissingParameter
	ErrDuplicateRouteName         = routeerrors.ErrDuplicateRouteName
	ErrMalformedPattern           = routeerrors.ErrMalformedPattern
	ErrRouterFrozen               = routeerrors.ErrRouterFrozen
	ErrInvalidSnapshot            = routeerrors.ErrInvalidSnapshot
	ErrUnsupportedSnapshotVersion = routeerrors.ErrUnsupportedSnapshotVersion
)

var (
	// ErrDelimitersInvalid indicates that the placeholder delimiters are empty
	// or identical.
	ErrDelimitersInvalid = errors.New("placeholder delimiters must be non-empty and distinct")

	// ErrBloomFilterSizeZero indicates that the bloom filter size must be greater than zero.
	ErrBloomFilterSizeZero = errors.New("bloom filter size must be non-zero")

	// ErrBloomHashFunctionsInvalid indicates that the number of bloom hash functions must be positive.
	ErrBloomHashFunctionsInvalid = errors.New("bloom hash functions must be positive")

	// ErrIndexThresholdInvalid indicates a negative first-segment index threshold.
	ErrIndexThresholdInvalid = errors.New("index threshold must not be negative")

	// ErrResultCacheCapacityInvalid indicates a result cache capacity below two.
	ErrResultCacheCapacityInvalid = errors.New("result cache capacity must be at least 2")

	// ErrParamMissing is returned when a parameter is absent or null.
	ErrParamMissing = errors.New("parameter not found")

	// ErrParamInvalid is returned when a parameter cannot be converted.
	ErrParamInvalid = errors.New("invalid parameter value")
)

// ConfigError describes a configuration problem with its source and the
// field involved.
type ConfigError struct {
	Source    string // file name or "options"
	Field     string // dotted field path, empty when not field specific
	Operation string // "decode", "merge" or "validate"
	Err       error
}

// Error implements error.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("routemap config %s: %s: field %s: %v", e.Source, e.Operation, e.Field, e.Err)
	}

	return fmt.Sprintf("routemap config %s: %s: %v", e.Source, e.Operation, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}
