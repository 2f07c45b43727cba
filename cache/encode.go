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

package cache

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"rivaas.dev/routemap/codec"
	routeerrors "rivaas.dev/routemap/errors"
)

//go:embed snapshot.schema.json
var snapshotSchema []byte

const snapshotSchemaURL = "snapshot-v1.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(snapshotSchema))
	if err != nil {
		return nil, fmt.Errorf("snapshot schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err = c.AddResource(snapshotSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("snapshot schema: %w", err)
	}

	return c.Compile(snapshotSchemaURL)
})

// Encode serializes snap in the given format.
func Encode(format codec.Type, snap *Snapshot) ([]byte, error) {
	if snap.Version == 0 {
		cp := *snap
		cp.Version = CurrentVersion
		snap = &cp
	}

	data, err := codec.Marshal(format, snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	return data, nil
}

// Decode parses a snapshot in the given format and checks it against the
// versioned snapshot schema. A document without a version is read as
// version 1. Errors wrap [routeerrors.ErrInvalidSnapshot] or
// [routeerrors.ErrUnsupportedSnapshotVersion].
func Decode(format codec.Type, data []byte) (*Snapshot, error) {
	var raw any
	if err := codec.Unmarshal(format, data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", routeerrors.ErrInvalidSnapshot, err)
	}

	// Re-read through JSON so the schema sees one numeric representation
	// regardless of the source format.
	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", routeerrors.ErrInvalidSnapshot, err)
	}
	var doc any
	if err = json.Unmarshal(normalized, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", routeerrors.ErrInvalidSnapshot, err)
	}

	if err = checkVersion(doc); err != nil {
		return nil, err
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	if err = schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", routeerrors.ErrInvalidSnapshot, err)
	}

	var snap Snapshot
	dec := json.NewDecoder(bytes.NewReader(normalized))
	dec.UseNumber()
	if err = dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: %w", routeerrors.ErrInvalidSnapshot, err)
	}
	if snap.Version == 0 {
		snap.Version = CurrentVersion
	}
	for _, part := range [][]Entry{snap.Static, snap.Dynamic} {
		for i := range part {
			restoreNumbers(&part[i])
		}
	}

	return &snap, nil
}

func checkVersion(doc any) error {
	obj, ok := doc.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: expected an object", routeerrors.ErrInvalidSnapshot)
	}

	v, present := obj["version"]
	if !present {
		return nil
	}
	if v == nil {
		delete(obj, "version")
		return nil
	}
	n, ok := v.(float64)
	if !ok || n != float64(int(n)) {
		return fmt.Errorf("%w: version must be an integer", routeerrors.ErrInvalidSnapshot)
	}
	if int(n) != CurrentVersion {
		return fmt.Errorf("%w: %d (supported: %d)", routeerrors.ErrUnsupportedSnapshotVersion, int(n), CurrentVersion)
	}

	return nil
}

// restoreNumbers turns decoded numbers back into int where they are
// integral, so defaults written as 1 read back as 1 and not 1.0.
func restoreNumbers(e *Entry) {
	e.Handler = number(e.Handler)
	for i, mw := range e.Middleware {
		e.Middleware[i] = number(mw)
	}
	for k, v := range e.Defaults {
		e.Defaults[k] = number(v)
	}
}

func number(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := strconv.Atoi(n.String()); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}

	return n.String()
}
