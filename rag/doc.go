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


// Package rag turns conversational requests into ranked file results.
//
// A chat message flows through a fixed pipeline: format-preference
// detection, multi-phrasing query generation, parallel retrieval with
// rank aggregation, optional format reordering, and LLM reasoning that
// selects the files actually matching the user's intent. Every stage
// that depends on a language model has a deterministic fallback, so the
// engine answers even with no model reachable.
//
// The engine also keeps per-session conversation history, resolving
// follow-ups like "summarize the first one" against files named in
// earlier answers.
package rag
