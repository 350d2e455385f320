package core

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// Fingerprint is an opaque digest used to detect file modification without
// reading content. Equality of fingerprints is the sole change-detection
// signal: a file touched without a content change is treated as changed.
type Fingerprint string

// FingerprintFromStat derives a fingerprint from a file's modification time
// and byte size using BLAKE2b hashing.
func FingerprintFromStat(modTime time.Time, size int64) Fingerprint {
	h, _ := blake2b.New(16, nil)
	fmt.Fprintf(h, "%d_%d", modTime.UnixNano(), size)
	return Fingerprint(hex.EncodeToString(h.Sum(nil)))
}

// Document represents a single indexed file.
// One record exists per distinct path; records are replaced wholesale on
// re-index, never partially mutated.
type Document struct {
	FilePath  string // unique key
	FileName  string
	FileType  string // lowercased extension, e.g. ".pdf"
	Content   string // extracted text, size-capped by the parser
	Preview   string // short derived text
	DocType   string // classified category label (populated at index build)
	IndexedAt time.Time
}

// IndexInfo describes a built search index: which embedding model produced
// it, the vector dimensionality, and how many documents it covers.
type IndexInfo struct {
	Model         string
	Dimensions    int
	DocumentCount int
	BuiltAt       time.Time
}

// Role identifies the author of a conversation turn.
type Role int

const (
	// RoleUser represents the human user.
	RoleUser Role = iota + 1
	// RoleAssistant represents the assistant.
	RoleAssistant
)

// String returns the wire representation of the role.
func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAssistant:
		return "assistant"
	default:
		return "unknown"
	}
}

// ConversationTurn is one message in a chat session. Turns are held in
// process memory for the lifetime of a session and cleared on explicit
// reset; they are never persisted.
type ConversationTurn struct {
	Role      Role
	Content   string
	Files     []string // file names referenced by an assistant turn
	Timestamp time.Time
}

// ScanStatus is the terminal outcome of a directory scan.
type ScanStatus int

const (
	// ScanStatusCompleted indicates the scan processed every file.
	ScanStatusCompleted ScanStatus = iota + 1
	// ScanStatusCancelled indicates the scan was cancelled cooperatively.
	// Cancellation is a first-class outcome, distinct from failure.
	ScanStatusCancelled
	// ScanStatusFailed indicates the scan aborted on a structural error.
	ScanStatusFailed
)

// String returns a human-readable status label.
func (s ScanStatus) String() string {
	switch s {
	case ScanStatusCompleted:
		return "completed"
	case ScanStatusCancelled:
		return "cancelled"
	case ScanStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ScanStats summarises a directory scan.
type ScanStats struct {
	Indexed int
	Total   int
	Skipped int
	Errors  int
	Status  ScanStatus
}

// Candidate is a single-search retrieval result: document metadata plus the
// hybrid score and its breakdown. Content is deliberately absent.
// Candidates are request-scoped and never persisted.
type Candidate struct {
	FilePath  string
	FileName  string
	FileType  string
	Preview   string
	DocType   string
	IndexedAt time.Time

	Score         float64 // final hybrid score, clamped to [0, 1]
	SemanticScore float64 // raw normalized inner-product similarity
	FilenameBoost float64
	DocTypeBoost  float64
}

// PhraseCandidate is a multi-phrasing retrieval result. It carries the
// candidate from the phrasing where the file ranked best, plus aggregate
// statistics across all phrasings. PhraseCandidate and Candidate are
// intentionally distinct result shapes for the two ranking strategies;
// conversion between them is always explicit.
type PhraseCandidate struct {
	Candidate

	Combined    float64 // weighted combination of frequency, rank and similarity
	Frequency   float64 // appearances / total phrasings
	AvgRank     float64 // average of 1/(rank+1) across appearances
	AvgScore    float64 // average raw similarity across appearances
	Appearances int
	BestRank    int // best (lowest) zero-based rank across appearances
}
