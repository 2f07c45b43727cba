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

package route

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"

	"rivaas.dev/routemap/codec"
)

// Document is a declarative route table, usually loaded from a YAML, JSON,
// TOML or MessagePack file:
//
//	routes:
//	  - name: home
//	    path: /
//	    methods: [GET]
//	    handler: pages.home
//	groups:
//	  - name: api
//	    prefix: /api
//	    tokens: {id: '[0-9a-f]{24}'}
//	    routes:
//	      - name: users.show
//	        path: /users/[id]
//	        methods: GET,HEAD
//	        handler: users.show
type Document struct {
	Routes []RouteSpec `json:"routes,omitempty" validate:"dive"`
	Groups []GroupSpec `json:"groups,omitempty" validate:"dive"`
}

// RouteSpec declares one route. Handler and middleware are references that
// a [Resolver] turns into values.
type RouteSpec struct {
	Name       string            `json:"name,omitempty"`
	Path       string            `json:"path" validate:"required"`
	Methods    []string          `json:"methods,omitempty" validate:"dive,required,alpha"`
	Handler    string            `json:"handler,omitempty"`
	Tokens     map[string]string `json:"tokens,omitempty" validate:"dive,keys,required,endkeys,required"`
	Middleware []string          `json:"middleware,omitempty" validate:"dive,required"`
	Defaults   map[string]any    `json:"defaults,omitempty"`
}

// GroupSpec declares a group with its routes and nested groups.
type GroupSpec struct {
	Name       string            `json:"name" validate:"required"`
	Prefix     string            `json:"prefix,omitempty"`
	Tokens     map[string]string `json:"tokens,omitempty" validate:"dive,keys,required,endkeys,required"`
	Middleware []string          `json:"middleware,omitempty" validate:"dive,required"`
	Routes     []RouteSpec       `json:"routes,omitempty" validate:"dive"`
	Groups     []GroupSpec       `json:"groups,omitempty" validate:"dive"`
}

// Resolver maps a handler or middleware reference from a document to the
// value stored on the route.
type Resolver func(ref string) (any, error)

var documentValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return v
})

// DecodeDocument decodes data in the given format and validates it.
// Methods may be given as a list or as a comma-separated string.
func DecodeDocument(format codec.Type, data []byte) (Document, error) {
	var raw map[string]any
	if err := codec.Unmarshal(format, data, &raw); err != nil {
		return Document{}, fmt.Errorf("route document: %w", err)
	}

	return DocumentFromMap(raw)
}

// DocumentFromMap decodes an already parsed document and validates it.
func DocumentFromMap(raw map[string]any) (Document, error) {
	var doc Document
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		Result:           &doc,
	})
	if err != nil {
		return Document{}, fmt.Errorf("route document: failed to create decoder: %w", err)
	}
	if err = decoder.Decode(raw); err != nil {
		return Document{}, fmt.Errorf("route document: %w", err)
	}
	if err = doc.Validate(); err != nil {
		return Document{}, err
	}

	return doc, nil
}

// Validate checks required fields and method names.
func (d Document) Validate() error {
	if err := documentValidator().Struct(d); err != nil {
		return fmt.Errorf("route document: %w", err)
	}

	return nil
}

// Apply registers every route and group of doc, top-level routes first.
// resolve may be nil, in which case references are stored as strings.
// Apply stops at the first error; routes registered before it remain.
func (c *Collection) Apply(doc Document, resolve Resolver) error {
	if resolve == nil {
		resolve = func(ref string) (any, error) { return ref, nil }
	}

	for _, def := range doc.Routes {
		r, err := def.build(resolve)
		if err != nil {
			return err
		}
		if err = c.Add(r); err != nil {
			return err
		}
	}
	for _, def := range doc.Groups {
		g, err := c.Group(def.Name, def.Prefix)
		if err != nil {
			return err
		}
		if err = def.apply(g, resolve); err != nil {
			return err
		}
	}

	return nil
}

func (s GroupSpec) apply(g *Group, resolve Resolver) error {
	if len(s.Tokens) > 0 {
		if err := g.SetTokens(s.Tokens); err != nil {
			return err
		}
	}
	if len(s.Middleware) > 0 {
		mw, err := resolveAll(s.Middleware, resolve)
		if err != nil {
			return err
		}
		if err = g.SetMiddleware(mw...); err != nil {
			return err
		}
	}
	for _, def := range s.Routes {
		r, err := def.build(resolve)
		if err != nil {
			return err
		}
		if err = g.Add(r); err != nil {
			return err
		}
	}
	for _, def := range s.Groups {
		child, err := g.Group(def.Name, def.Prefix)
		if err != nil {
			return err
		}
		if err = def.apply(child, resolve); err != nil {
			return err
		}
	}

	return nil
}

func (s RouteSpec) build(resolve Resolver) (Route, error) {
	var handler any
	if s.Handler != "" {
		h, err := resolve(s.Handler)
		if err != nil {
			return Route{}, fmt.Errorf("route %q: handler %q: %w", s.Name, s.Handler, err)
		}
		handler = h
	}

	r := New(s.Name, s.Path, handler, s.Methods...)
	if len(s.Tokens) > 0 {
		r = r.WithTokens(s.Tokens)
	}
	if len(s.Middleware) > 0 {
		mw, err := resolveAll(s.Middleware, resolve)
		if err != nil {
			return Route{}, fmt.Errorf("route %q: %w", s.Name, err)
		}
		r = r.WithMiddleware(mw...)
	}
	if len(s.Defaults) > 0 {
		r = r.WithDefaults(normalizeDefaults(s.Defaults))
	}

	return r, nil
}

func resolveAll(refs []string, resolve Resolver) ([]Middleware, error) {
	out := make([]Middleware, 0, len(refs))
	for _, ref := range refs {
		mw, err := resolve(ref)
		if err != nil {
			return nil, fmt.Errorf("middleware %q: %w", ref, err)
		}
		out = append(out, mw)
	}

	return out, nil
}

// normalizeDefaults folds the integer types produced by the various
// decoders into int so defaults compare equal to coerced captures.
func normalizeDefaults(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		switch v.(type) {
		case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			if n, err := cast.ToIntE(v); err == nil {
				out[k] = n
				continue
			}
		case float32:
			out[k] = cast.ToFloat64(v)
			continue
		}
		out[k] = v
	}

	return out
}
