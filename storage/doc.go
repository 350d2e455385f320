// Copyright 2025 Poiesic Systems
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


// Package storage defines the persistence abstractions for the search index
// cache, plus binary serialization helpers for the cached records.
//
// Embedding a corpus is the expensive part of building a search index, so a
// built index (documents plus their vectors) is cached across restarts. The
// cache holds a single snapshot: saving replaces the previous one. Records
// are serialized with the MUS binary format, which keeps large embedding
// matrices compact and cheap to decode.
//
// The storage/badger sub-package implements the cache on BadgerDB.
package storage
