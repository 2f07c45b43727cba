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

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
)

// TypeTOML identifies the TOML format.
const TypeTOML Type = "toml"

func init() {
	Register(TypeTOML, TOMLCodec{}, "toml")
}

// TOMLCodec encodes and decodes TOML. Nested tables are written without
// indentation. When decoding into a struct, keys that match no field are an
// error. Map and interface targets accept any key.
type TOMLCodec struct{}

// Encode converts v into TOML.
func (TOMLCodec) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decode unmarshals TOML data into v.
func (TOMLCodec) Decode(data []byte, v any) error {
	meta, err := toml.Decode(string(data), v)
	if err != nil {
		return err
	}

	if reflect.Indirect(reflect.ValueOf(v)).Kind() != reflect.Struct {
		return nil
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("toml: unknown keys: %s", strings.Join(keys, ", "))
	}

	return nil
}
