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


// Package indexer maintains the authoritative set of indexed documents and
// detects which files need re-extraction.
//
// A scan walks a directory tree, extracts text from every supported file
// whose fingerprint changed since the previous scan, and persists the
// resulting document set plus fingerprint map as JSON so later runs resume
// from the last known state. Fingerprints are derived from modification
// time and size only; a touched-but-unchanged file is re-extracted (a false
// positive is acceptable, a false negative is not).
//
// Long scans run under an Operation handle that exposes progress and
// cooperative cancellation. Cancellation is observed at file granularity
// and reported as a distinct terminal status, not an error. Concurrent
// scans on one Indexer are rejected.
package indexer
