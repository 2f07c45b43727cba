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

//go:build !integration

package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type sample struct {
	Name    string   `json:"name" yaml:"name" toml:"name"`
	Path    string   `json:"path" yaml:"path" toml:"path"`
	Methods []string `json:"methods,omitempty" yaml:"methods,omitempty" toml:"methods,omitempty"`
	Weight  int      `json:"weight" yaml:"weight" toml:"weight"`
}

// CodecTestSuite exercises every built-in codec with the same fixtures.
type CodecTestSuite struct {
	suite.Suite
	types []Type
}

func (s *CodecTestSuite) SetupTest() {
	s.types = []Type{TypeJSON, TypeYAML, TypeTOML, TypeMsgpack}
}

func TestCodecTestSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(CodecTestSuite))
}

func (s *CodecTestSuite) TestRoundTrip() {
	in := sample{Name: "user.show", Path: "/users/[id:\\d+]", Methods: []string{"GET", "HEAD"}, Weight: 3}

	for _, typ := range s.types {
		data, err := Marshal(typ, in)
		s.Require().NoError(err, typ)

		var out sample
		s.Require().NoError(Unmarshal(typ, data, &out), typ)
		s.Equal(in, out, typ)
	}
}

func (s *CodecTestSuite) TestDecode_Invalid() {
	var out sample
	s.Error(Unmarshal(TypeJSON, []byte(`{"name":`), &out))
	s.Error(Unmarshal(TypeYAML, []byte("name: [unterminated"), &out))
	s.Error(Unmarshal(TypeTOML, []byte("name = "), &out))
	s.Error(Unmarshal(TypeMsgpack, []byte{0xc1}, &out))
}

func (s *CodecTestSuite) TestDecode_RejectsUnknownStructFields() {
	docs := map[Type][]byte{
		TypeJSON: []byte(`{"name":"a","bogus":1}`),
		TypeYAML: []byte("name: a\nbogus: 1\n"),
		TypeTOML: []byte("name = \"a\"\nbogus = 1\n"),
	}
	packed, err := Marshal(TypeMsgpack, map[string]any{"name": "a", "bogus": 1})
	s.Require().NoError(err)
	docs[TypeMsgpack] = packed

	for typ, data := range docs {
		var out sample
		s.Error(Unmarshal(typ, data, &out), typ)

		var generic map[string]any
		s.Require().NoError(Unmarshal(typ, data, &generic), typ)
		s.Equal("a", generic["name"], typ)
	}
}

func (s *CodecTestSuite) TestDecode_NestedTablesIntoMap() {
	var out map[string]any
	s.Require().NoError(Unmarshal(TypeTOML, []byte("[delimiters]\nopen = \"{\"\n"), &out))
	s.Equal(map[string]any{"open": "{"}, out["delimiters"])
}

func (s *CodecTestSuite) TestJSON_TrailingData() {
	var out map[string]any
	s.Require().NoError(Unmarshal(TypeJSON, []byte("{\"a\":1}\n  "), &out))
	s.ErrorIs(Unmarshal(TypeJSON, []byte(`{"a":1} {"b":2}`), &out), errTrailingData)
}

func (s *CodecTestSuite) TestEncode_Unsupported() {
	_, err := Marshal(TypeJSON, make(chan int))
	s.Error(err)
}

func TestForFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		want    Type
		wantErr bool
	}{
		{path: "routes.json", want: TypeJSON},
		{path: "routes.YAML", want: TypeYAML},
		{path: "conf/routes.yml", want: TypeYAML},
		{path: "routes.toml", want: TypeTOML},
		{path: "snapshot.msgpack", want: TypeMsgpack},
		{path: "routes", wantErr: true},
		{path: "routes.ini", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			got, err := ForFile(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistry_Unknown(t *testing.T) {
	t.Parallel()

	_, err := Get("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")

	_, err = Marshal("xml", 1)
	require.Error(t, err)
	require.Error(t, Unmarshal("xml", nil, nil))
}

func TestTypes_IncludesBuiltins(t *testing.T) {
	t.Parallel()

	assert.Subset(t, Types(), []Type{TypeJSON, TypeYAML, TypeTOML, TypeMsgpack})
}

func TestJSONCodec_Encode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		codec JSONCodec
		in    any
		want  string
	}{
		{
			name: "expressions stay readable",
			in:   map[string]string{"regex": `^/users/(?P<p0>\d+)/?$`},
			want: `{"regex":"^/users/(?P<p0>\\d+)/?$"}`,
		},
		{
			name:  "indented",
			codec: JSONCodec{Indent: "  "},
			in:    map[string]int{"version": 1},
			want:  "{\n  \"version\": 1\n}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.codec.Encode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}
