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


// Package expand widens search queries before retrieval.
//
// Three layers build on each other: a static synonym table that always
// applies, LLM keyword expansion that adds semantically related terms
// when a model is reachable, and multi-phrasing generation that produces
// four alternative renderings of the same request for rank aggregation.
//
// Every operation degrades instead of failing: with no model, or a model
// that errors or returns garbage, callers still get a usable query built
// from the synonym table alone.
package expand
