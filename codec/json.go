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
	"encoding/json"
	"errors"
	"io"
)

// TypeJSON identifies the JSON format.
const TypeJSON Type = "json"

func init() {
	Register(TypeJSON, JSONCodec{}, "json")
}

// errTrailingData is returned when a JSON document is followed by more data.
var errTrailingData = errors.New("json: unexpected data after top-level value")

// JSONCodec encodes and decodes JSON.
//
// Output leaves '<', '>' and '&' unescaped, so route expressions such as
// (?P<p0>\d+) read as written. Decoding rejects object keys that match no
// field of a struct target, and anything after the first value.
type JSONCodec struct {
	// Indent pretty-prints output with this string per nesting level.
	Indent string
}

// Encode converts v into JSON without a trailing newline.
func (c JSONCodec) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if c.Indent != "" {
		enc.SetIndent("", c.Indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Decode unmarshals a single JSON value into v.
func (JSONCodec) Decode(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errTrailingData
	}

	return nil
}
