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

package compiler

import "strconv"

// Coerce applies [CoerceString] to string values and returns anything else
// unchanged.
func Coerce(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}

	return CoerceString(s)
}

// CoerceString converts numeric-looking strings: a run of ASCII digits
// becomes an int, digits with a single decimal point between digit runs
// become a float64. Digit runs that overflow int stay strings. Everything
// else is returned unchanged.
func CoerceString(s string) any {
	switch numericShape(s) {
	case shapeInt:
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	case shapeFloat:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}

	return s
}

type shape int

const (
	shapeNone shape = iota
	shapeInt
	shapeFloat
)

func numericShape(s string) shape {
	if s == "" {
		return shapeNone
	}

	dot := -1
	for i := range len(s) {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c == '.' && dot < 0:
			dot = i
		default:
			return shapeNone
		}
	}

	switch {
	case dot < 0:
		return shapeInt
	case dot == 0 || dot == len(s)-1:
		return shapeNone
	default:
		return shapeFloat
	}
}
