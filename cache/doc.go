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

// Package cache snapshots a route collection into a serializable,
// precompiled form and loads it back for matching.
//
// A [Snapshot] splits routes into a static partition, matched by path
// equality, and a dynamic partition that carries each route's compiled
// expression. [Encode] and [Decode] move snapshots through any registered
// codec; decoding validates the document against an embedded, versioned
// JSON schema. [Load] turns a snapshot into a [Table] without recompiling
// the dynamic expressions.
//
// Handlers and middleware are stored as they are, or as references when
// [WithReferences] is given to [Build]. Resolving references back to
// callables is the caller's job.
package cache
