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


// Package search builds and queries a semantic vector index over the corpus.
//
// Building embeds every document's enriched text (classified type label,
// file name, file type, content) in batches and stores L2-normalized
// vectors, so inner product equals cosine similarity. A rebuild always
// replaces the whole index; there is no incremental insert or delete.
//
// Querying expands the query through a static synonym table, embeds it, and
// retrieves three times the requested neighbors before hybrid re-ranking:
// semantic similarity plus a filename-match boost plus a document-type
// boost, clamped to [0,1]. Returned candidates carry metadata and score
// breakdowns only, never content.
//
// A built index can be persisted to a storage.IndexCache so a restart skips
// re-embedding. Document content is truncated before caching.
package search
