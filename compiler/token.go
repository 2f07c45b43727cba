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

import (
	"strings"

	routeerrors "rivaas.dev/routemap/errors"
)

const (
	// DefaultOpen is the default opening placeholder delimiter.
	DefaultOpen = "["
	// DefaultClose is the default closing placeholder delimiter.
	DefaultClose = "]"

	optionalMarker   = "?"
	patternSeparator = ":"
)

// Token is a parsed placeholder segment such as [id], [?slug] or [id:\d+].
type Token struct {
	// Name is the parameter name.
	Name string
	// Pattern is the inline regular expression, empty when none was given.
	Pattern string
	// Required is false for [?name] placeholders.
	Required bool
}

// HasPattern reports whether the token carries an inline pattern.
func (t Token) HasPattern() bool {
	return t.Pattern != ""
}

// Tokenizer recognizes placeholder segments delimited by a configurable pair.
// The zero value is not usable; create one with [NewTokenizer].
type Tokenizer struct {
	open  string
	close string
}

// NewTokenizer returns a tokenizer for the given delimiter pair.
// Empty delimiters fall back to the defaults.
func NewTokenizer(open, close string) Tokenizer {
	if open == "" {
		open = DefaultOpen
	}
	if close == "" {
		close = DefaultClose
	}

	return Tokenizer{open: open, close: close}
}

// Delimiters returns the opening and closing delimiters.
func (tz Tokenizer) Delimiters() (open, close string) {
	return tz.open, tz.close
}

// IsToken reports whether the whole segment is wrapped in the delimiter pair.
func (tz Tokenizer) IsToken(segment string) bool {
	return len(segment) >= len(tz.open)+len(tz.close) &&
		strings.HasPrefix(segment, tz.open) &&
		strings.HasSuffix(segment, tz.close)
}

// IsRequired reports whether a token segment is required. Segments that are
// not tokens are reported as required.
func (tz Tokenizer) IsRequired(segment string) bool {
	if !tz.IsToken(segment) {
		return true
	}

	return !strings.HasPrefix(tz.inner(segment), optionalMarker)
}

// ParseToken parses a placeholder segment. The inline pattern starts after
// the first ':' following the optional marker, so patterns may themselves
// contain ':' or the delimiter characters.
func (tz Tokenizer) ParseToken(segment string) (Token, error) {
	if !tz.IsToken(segment) {
		return Token{}, &routeerrors.MalformedPatternError{Segment: segment, Reason: "not a placeholder"}
	}

	inner := tz.inner(segment)
	tok := Token{Required: true}
	if rest, ok := strings.CutPrefix(inner, optionalMarker); ok {
		tok.Required = false
		inner = rest
	}

	name, pattern, hasPattern := strings.Cut(inner, patternSeparator)
	if hasPattern && pattern == "" {
		return Token{}, &routeerrors.MalformedPatternError{Segment: segment, Reason: "empty inline pattern"}
	}
	if err := tz.validateName(name); err != "" {
		return Token{}, &routeerrors.MalformedPatternError{Segment: segment, Reason: err}
	}

	tok.Name = name
	tok.Pattern = pattern

	return tok, nil
}

func (tz Tokenizer) inner(segment string) string {
	return segment[len(tz.open) : len(segment)-len(tz.close)]
}

func (tz Tokenizer) validateName(name string) string {
	switch {
	case name == "":
		return "empty parameter name"
	case strings.Contains(name, tz.open), strings.Contains(name, tz.close):
		return "parameter name contains a delimiter"
	case strings.Contains(name, optionalMarker):
		return "misplaced optional marker"
	case strings.ContainsAny(name, " \t/\\"):
		return "parameter name contains whitespace or a separator"
	}

	return ""
}

// hasDelimiter reports whether a segment that is not a token still contains
// a delimiter, which indicates an unbalanced or embedded placeholder.
func (tz Tokenizer) hasDelimiter(segment string) bool {
	return strings.Contains(segment, tz.open) || strings.Contains(segment, tz.close)
}
