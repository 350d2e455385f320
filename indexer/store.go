package indexer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/poiesic/foundit/core"
)

const storeFileName = "file_index.json"

// store persists documents and fingerprints as a single JSON file.
type store struct {
	path string
}

func newStore(dataDir string) *store {
	return &store{path: filepath.Join(dataDir, storeFileName)}
}

// storedDocument is the on-disk representation of a document record.
type storedDocument struct {
	FilePath  string    `json:"file_path"`
	FileName  string    `json:"file_name"`
	FileType  string    `json:"file_type"`
	Content   string    `json:"content"`
	Preview   string    `json:"preview"`
	DocType   string    `json:"document_type,omitempty"`
	IndexedAt time.Time `json:"indexed_at"`
}

// storeFile is the root of the persisted JSON document.
type storeFile struct {
	Documents    []storedDocument `json:"documents"`
	Fingerprints map[string]string `json:"file_hashes"`
	UpdatedAt    time.Time        `json:"last_updated"`
}

// load reads the store from disk. A missing file returns nil documents and
// no error so a fresh installation starts empty.
func (s *store) load() ([]core.Document, map[string]core.Fingerprint, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read document store: %w", err)
	}

	var file storeFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("decode document store: %w", err)
	}

	docs := make([]core.Document, 0, len(file.Documents))
	for _, sd := range file.Documents {
		docs = append(docs, core.Document{
			FilePath:  sd.FilePath,
			FileName:  sd.FileName,
			FileType:  sd.FileType,
			Content:   sd.Content,
			Preview:   sd.Preview,
			DocType:   sd.DocType,
			IndexedAt: sd.IndexedAt,
		})
	}

	fps := make(map[string]core.Fingerprint, len(file.Fingerprints))
	for path, fp := range file.Fingerprints {
		fps[path] = core.Fingerprint(fp)
	}

	return docs, fps, nil
}

// save writes the store to disk, creating the data directory as needed.
func (s *store) save(docs []core.Document, fps map[string]core.Fingerprint) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	file := storeFile{
		Documents:    make([]storedDocument, 0, len(docs)),
		Fingerprints: make(map[string]string, len(fps)),
		UpdatedAt:    time.Now().UTC(),
	}
	for _, doc := range docs {
		file.Documents = append(file.Documents, storedDocument{
			FilePath:  doc.FilePath,
			FileName:  doc.FileName,
			FileType:  doc.FileType,
			Content:   doc.Content,
			Preview:   doc.Preview,
			DocType:   doc.DocType,
			IndexedAt: doc.IndexedAt,
		})
	}
	for path, fp := range fps {
		file.Fingerprints[path] = string(fp)
	}

	data, err := json.Marshal(file)
	if err != nil {
		return fmt.Errorf("marshal document store: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write document store: %w", err)
	}
	return nil
}
