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

package codec

import "github.com/goccy/go-yaml"

// TypeYAML identifies the YAML format.
const TypeYAML Type = "yaml"

func init() {
	Register(TypeYAML, YAMLCodec{}, "yaml", "yml")
}

// YAMLCodec encodes and decodes YAML with two-space indentation and
// indented sequences. Multi-line strings use the literal block style.
// Struct targets reject unknown keys.
type YAMLCodec struct{}

// Encode converts v into YAML.
func (YAMLCodec) Encode(v any) ([]byte, error) {
	return yaml.MarshalWithOptions(v,
		yaml.Indent(2),
		yaml.IndentSequence(true),
		yaml.UseLiteralStyleIfMultiline(true),
	)
}

// Decode unmarshals YAML data into v.
func (YAMLCodec) Decode(data []byte, v any) error {
	return yaml.UnmarshalWithOptions(data, v, yaml.Strict())
}
