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
	"errors"
	"regexp"
	"strconv"
	"strings"

	routeerrors "rivaas.dev/routemap/errors"
)

// rootRegex is the expression for "/" and "". It has no capture groups.
const rootRegex = `^/$`

// Segment is one '/'-separated piece of a route pattern.
type Segment struct {
	// Raw is the segment text as written in the pattern.
	Raw string
	// IsToken reports whether the segment is a placeholder.
	IsToken bool
	// Token is the parsed placeholder; zero for literal segments.
	Token Token
}

// Compiler turns route patterns into [CompiledRoute] values.
// A Compiler is immutable after construction and safe for concurrent use.
type Compiler struct {
	tokenizer Tokenizer
	patterns  Patterns
}

// Option configures a [Compiler].
type Option func(*Compiler)

// WithDelimiters sets the placeholder delimiter pair.
func WithDelimiters(open, close string) Option {
	return func(c *Compiler) {
		c.tokenizer = NewTokenizer(open, close)
	}
}

// WithPatterns layers extra named patterns over the defaults. Entries with
// the same name replace the built-in expression.
func WithPatterns(p Patterns) Option {
	return func(c *Compiler) {
		c.patterns = c.patterns.Merge(p)
	}
}

// New creates a compiler with the default delimiters and named patterns.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		tokenizer: NewTokenizer(DefaultOpen, DefaultClose),
		patterns:  DefaultPatterns(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Tokenizer returns the tokenizer used by the compiler.
func (c *Compiler) Tokenizer() Tokenizer {
	return c.tokenizer
}

// Patterns returns a copy of the named pattern table.
func (c *Compiler) Patterns() Patterns {
	return c.patterns.Merge(nil)
}

// Normalize normalizes a route pattern with the compiler's delimiters.
func (c *Compiler) Normalize(pattern string) string {
	return c.tokenizer.Normalize(pattern)
}

// IsParametrized reports whether pattern contains at least one placeholder.
// It does not validate the pattern.
func (c *Compiler) IsParametrized(pattern string) bool {
	if !strings.Contains(pattern, c.tokenizer.open) {
		return false
	}
	for _, seg := range splitSegments(c.tokenizer.Normalize(pattern)) {
		if c.tokenizer.IsToken(seg) {
			return true
		}
	}

	return false
}

// Parse normalizes pattern and splits it into segments. It rejects embedded
// or unbalanced delimiters, invalid placeholder names and parameter names
// that occur more than once.
func (c *Compiler) Parse(pattern string) ([]Segment, error) {
	normalized := c.tokenizer.Normalize(pattern)
	raw := splitSegments(normalized)
	segments := make([]Segment, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for _, s := range raw {
		if !c.tokenizer.IsToken(s) {
			if c.tokenizer.hasDelimiter(s) {
				return nil, &routeerrors.MalformedPatternError{
					Pattern: pattern,
					Segment: s,
					Reason:  "unbalanced or embedded placeholder delimiter",
				}
			}
			segments = append(segments, Segment{Raw: s})
			continue
		}

		tok, err := c.tokenizer.ParseToken(s)
		if err != nil {
			var malformed *routeerrors.MalformedPatternError
			if errors.As(err, &malformed) {
				malformed.Pattern = pattern
			}
			return nil, err
		}
		if _, dup := seen[tok.Name]; dup {
			return nil, &routeerrors.MalformedPatternError{
				Pattern: pattern,
				Segment: s,
				Reason:  "duplicate parameter name " + strconv.Quote(tok.Name),
			}
		}
		seen[tok.Name] = struct{}{}
		segments = append(segments, Segment{Raw: s, IsToken: true, Token: tok})
	}

	return segments, nil
}

// Compile compiles pattern into a matchable route. tokens holds route-level
// pattern overrides keyed by parameter name; it may be nil.
//
// Required placeholders compile to "/(?P<pN>expr)". Optional placeholders
// wrap the preceding separator and the group together, "(?:/(?P<pN>expr))?",
// so an omitted trailing parameter takes its slash with it. The expression
// is anchored and accepts one trailing slash.
func (c *Compiler) Compile(pattern string, tokens map[string]string) (*CompiledRoute, error) {
	segments, err := c.Parse(pattern)
	if err != nil {
		return nil, err
	}

	r := &CompiledRoute{
		path:     joinSegments(segments),
		segments: segments,
		optional: make(map[string]struct{}),
	}

	if len(segments) == 0 {
		r.regex = rootRegex
		r.re = regexp.MustCompile(rootRegex)
		return r, nil
	}

	var sb strings.Builder
	sb.WriteByte('^')
	for _, seg := range segments {
		if !seg.IsToken {
			sb.WriteByte('/')
			sb.WriteString(regexp.QuoteMeta(seg.Raw))
			continue
		}

		expr := stripAnchors(c.patterns.resolve(seg.Token, tokens))
		if _, err := regexp.Compile(expr); err != nil {
			return nil, &routeerrors.MalformedPatternError{Pattern: pattern, Segment: seg.Raw, Err: err}
		}

		group := groupName(len(r.params))
		if seg.Token.Required {
			sb.WriteString("/(?P<" + group + ">" + expr + ")")
		} else {
			sb.WriteString("(?:/(?P<" + group + ">" + expr + "))?")
			r.optional[seg.Token.Name] = struct{}{}
		}
		r.params = append(r.params, seg.Token.Name)
	}
	sb.WriteString("/?$")

	r.regex = sb.String()
	re, err := regexp.Compile(r.regex)
	if err != nil {
		return nil, &routeerrors.MalformedPatternError{Pattern: pattern, Err: err}
	}
	r.re = re
	r.bindGroups()

	return r, nil
}

// Restore rebuilds a compiled route from a stored expression without
// deriving it again. path supplies the segment layout and the optional
// parameter set; params must list the placeholders of path in order and
// regex must define a pN group for each of them.
func (c *Compiler) Restore(path, regex string, params []string) (*CompiledRoute, error) {
	segments, err := c.Parse(path)
	if err != nil {
		return nil, err
	}

	re, err := regexp.Compile(regex)
	if err != nil {
		return nil, &routeerrors.MalformedPatternError{Pattern: path, Reason: "stored expression", Err: err}
	}

	r := &CompiledRoute{
		path:     joinSegments(segments),
		regex:    regex,
		re:       re,
		segments: segments,
		optional: make(map[string]struct{}),
	}
	for _, seg := range segments {
		if !seg.IsToken {
			continue
		}
		r.params = append(r.params, seg.Token.Name)
		if !seg.Token.Required {
			r.optional[seg.Token.Name] = struct{}{}
		}
	}

	if len(r.params) != len(params) {
		return nil, &routeerrors.MalformedPatternError{Pattern: path, Reason: "stored parameters do not match placeholders"}
	}
	for i, name := range params {
		if r.params[i] != name {
			return nil, &routeerrors.MalformedPatternError{Pattern: path, Reason: "stored parameter " + strconv.Quote(name) + " out of order"}
		}
	}
	r.bindGroups()
	for _, idx := range r.groups {
		if idx < 0 {
			return nil, &routeerrors.MalformedPatternError{Pattern: path, Reason: "stored expression lacks a parameter group"}
		}
	}

	return r, nil
}

func groupName(i int) string {
	return "p" + strconv.Itoa(i)
}

// stripAnchors removes a leading '^' and trailing '$' so user expressions
// can be embedded in the middle of the route expression.
func stripAnchors(expr string) string {
	expr = strings.TrimPrefix(expr, "^")
	if strings.HasSuffix(expr, "$") && !strings.HasSuffix(expr, `\$`) {
		expr = expr[:len(expr)-1]
	}

	return expr
}

func joinSegments(segments []Segment) string {
	if len(segments) == 0 {
		return "/"
	}

	var sb strings.Builder
	for _, seg := range segments {
		sb.WriteByte('/')
		sb.WriteString(seg.Raw)
	}

	return sb.String()
}
