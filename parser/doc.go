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


// Package parser extracts plain text from heterogeneous document formats.
//
// The parser is the content-extraction boundary of the system: given a file
// path it returns extracted text, or nothing for unsupported and corrupt
// files. Failures never propagate past this boundary as panics; callers
// receive ordinary errors and decide how to account for them.
//
// Supported formats:
//
//   - A fixed allow-list of text-like extensions read directly (size-capped)
//   - DOCX: paragraph and table text from word/document.xml
//   - PPTX: shape text from slide XML, slide-capped
//   - XLSX: shared-string cell text, entry-capped
//
// PDF extraction is not supported; CanParse reports false for .pdf so scans
// count such files as unsupported rather than failed.
package parser
