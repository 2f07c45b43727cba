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

// Package codec provides the wire formats used for route documents,
// configuration files and cache snapshots.
//
// Codecs are looked up by [Type] or, for files, by extension:
//
//	name, err := codec.ForFile("routes.yaml") // codec.TypeYAML
//	var doc route.Document
//	err = codec.Unmarshal(name, data, &doc)
//
// # Built-in Codecs
//
//   - JSON: encoding/json
//   - YAML: github.com/goccy/go-yaml
//   - TOML: github.com/BurntSushi/toml
//   - MessagePack: github.com/vmihailenco/msgpack/v5, a compact binary
//     format for shipping compiled snapshots between processes
//
// Additional formats can be added with [Register].
package codec
