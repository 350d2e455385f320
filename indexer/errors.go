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


package indexer

import "errors"

var (
	// ErrParserRequired is returned when a parser is not provided.
	ErrParserRequired = errors.New("parser required")

	// ErrDirectoryNotFound is returned when the scan root does not exist
	// or is not a directory.
	ErrDirectoryNotFound = errors.New("directory not found")

	// ErrScanInProgress is returned when a scan is started while another
	// scan is still active on the same indexer.
	ErrScanInProgress = errors.New("scan already in progress")
)
