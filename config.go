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
	"os"
	"reflect"
	"strings"
	"sync"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"

	"rivaas.dev/routemap/cache"
	"rivaas.dev/routemap/codec"
	"rivaas.dev/routemap/compiler"
)

// Config is the file form of the router options:
//
//	delimiters:
//	  open: "{"
//	  close: "}"
//	patterns:
//	  sku: '[A-Z]{3}-\d{4}'
//	result_cache:
//	  enabled: true
//	  capacity: 4096
//	index_threshold: 16
//	bloom:
//	  size: 2000
//	  hash_functions: 4
//
// Fields left out take the values of [DefaultConfig].
type Config struct {
	Delimiters     DelimitersConfig  `json:"delimiters"`
	Patterns       map[string]string `json:"patterns,omitempty" validate:"dive,keys,required,endkeys,required"`
	ResultCache    ResultCacheConfig `json:"result_cache"`
	IndexThreshold *int              `json:"index_threshold,omitempty" validate:"omitempty,min=0"`
	Bloom          BloomConfig       `json:"bloom"`
}

// DelimitersConfig is the placeholder delimiter pair.
type DelimitersConfig struct {
	Open  string `json:"open" validate:"required,excludes=/"`
	Close string `json:"close" validate:"required,excludes=/,nefield=Open"`
}

// ResultCacheConfig configures the result cache.
type ResultCacheConfig struct {
	Enabled  bool `json:"enabled"`
	Capacity int  `json:"capacity" validate:"min=2"`
}

// BloomConfig configures the static path bloom pre-check.
type BloomConfig struct {
	Size          uint64 `json:"size" validate:"min=1"`
	HashFunctions int    `json:"hash_functions" validate:"min=1"`
}

// DefaultConfig returns the configuration [New] uses without options.
func DefaultConfig() Config {
	threshold := cache.DefaultIndexThreshold

	return Config{
		Delimiters: DelimitersConfig{
			Open:  compiler.DefaultOpen,
			Close: compiler.DefaultClose,
		},
		ResultCache: ResultCacheConfig{
			Capacity: DefaultResultCacheCapacity,
		},
		IndexThreshold: &threshold,
		Bloom: BloomConfig{
			Size:          cache.DefaultBloomSize,
			HashFunctions: cache.DefaultBloomHashFunctions,
		},
	}
}

var configValidator = sync.OnceValue(func() *validator.Validate {
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

// LoadConfig reads a configuration file. The format follows the file
// extension: .json, .yaml, .yml, .toml, .msgpack or .mpk.
func LoadConfig(path string) (Config, error) {
	format, err := codec.ForFile(path)
	if err != nil {
		return Config{}, &ConfigError{Source: path, Operation: "decode", Err: err}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &ConfigError{Source: path, Operation: "read", Err: err}
	}

	return parseConfig(path, format, data)
}

// ParseConfig decodes configuration bytes in the given format, fills in
// defaults and validates the result.
func ParseConfig(format codec.Type, data []byte) (Config, error) {
	return parseConfig(string(format), format, data)
}

func parseConfig(source string, format codec.Type, data []byte) (Config, error) {
	var raw map[string]any
	if err := codec.Unmarshal(format, data, &raw); err != nil {
		return Config{}, &ConfigError{Source: source, Operation: "decode", Err: err}
	}

	return configFromMap(source, raw)
}

// ConfigFromMap decodes configuration from an already parsed map, for
// example a section of a larger application config.
func ConfigFromMap(raw map[string]any) (Config, error) {
	return configFromMap("map", raw)
}

func configFromMap(source string, raw map[string]any) (Config, error) {
	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &cfg,
	})
	if err != nil {
		return Config{}, &ConfigError{Source: source, Operation: "decode", Err: err}
	}
	if err = decoder.Decode(raw); err != nil {
		return Config{}, &ConfigError{Source: source, Operation: "decode", Err: err}
	}

	// Without dereferencing, an explicit index_threshold of 0 stays 0.
	if err = mergo.Merge(&cfg, DefaultConfig(), mergo.WithoutDereference); err != nil {
		return Config{}, &ConfigError{Source: source, Operation: "merge", Err: err}
	}

	if err = cfg.validate(source); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the configuration.
func (c Config) Validate() error {
	return c.validate("config")
}

func (c Config) validate(source string) error {
	err := configValidator().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		_, field, _ := strings.Cut(first.Namespace(), ".")
		return &ConfigError{
			Source:    source,
			Field:     field,
			Operation: "validate",
			Err:       fmt.Errorf("failed on %q rule", first.Tag()),
		}
	}

	return &ConfigError{Source: source, Operation: "validate", Err: err}
}

// Options converts the configuration into router options.
func (c Config) Options() []Option {
	opts := []Option{
		WithDelimiters(c.Delimiters.Open, c.Delimiters.Close),
		WithBloomFilter(c.Bloom.Size, c.Bloom.HashFunctions),
	}
	if len(c.Patterns) > 0 {
		opts = append(opts, WithPatterns(compiler.Patterns(c.Patterns)))
	}
	if c.IndexThreshold != nil {
		opts = append(opts, WithIndexThreshold(*c.IndexThreshold))
	}
	if c.ResultCache.Enabled {
		opts = append(opts, WithResultCache(c.ResultCache.Capacity))
	}

	return opts
}
