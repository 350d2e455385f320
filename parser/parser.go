package parser

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const (
	// maxContentBytes caps extracted text to keep document records bounded.
	maxContentBytes = 1_000_000

	// DefaultPreviewLen is the preview length used when callers pass 0.
	DefaultPreviewLen = 200
)

// textExtensions is the allow-list of file types read directly as text.
var textExtensions = map[string]bool{
	".txt": true, ".md": true, ".log": true, ".csv": true, ".json": true,
	".xml": true, ".cpp": true, ".h": true, ".hpp": true, ".c": true,
	".cs": true, ".java": true, ".py": true, ".js": true, ".jsx": true,
	".ts": true, ".tsx": true, ".html": true, ".css": true, ".scss": true,
	".go": true, ".rs": true, ".rb": true, ".php": true, ".sh": true,
	".bat": true, ".yaml": true, ".yml": true,
}

// Parser extracts text content from supported document types.
// A Parser is stateless and safe for concurrent use.
type Parser struct {
	logger *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
	}
}

// New creates a parser.
func New(opts ...Option) *Parser {
	p := &Parser{
		logger: slog.Default().With("component", "parser"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CanParse reports whether the file type is supported.
func (p *Parser) CanParse(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))

	if textExtensions[ext] {
		return true
	}
	switch ext {
	case ".docx", ".pptx", ".xlsx":
		return true
	}
	return false
}

// Parse extracts text content from a file.
// It returns an empty string with a nil error when the file is supported but
// contains no extractable text; an error indicates a read or format failure.
func (p *Parser) Parse(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch {
	case textExtensions[ext]:
		return p.parseTextFile(path)
	case ext == ".docx":
		return parseDocx(path)
	case ext == ".pptx":
		return parsePptx(path)
	case ext == ".xlsx":
		return parseXlsx(path)
	default:
		return "", fmt.Errorf("unsupported file type %q", ext)
	}
}

// Preview derives a short, whitespace-collapsed preview of content.
// maxLen <= 0 selects DefaultPreviewLen.
func (p *Parser) Preview(content string, maxLen int) string {
	if content == "" {
		return ""
	}
	if maxLen <= 0 {
		maxLen = DefaultPreviewLen
	}

	preview := strings.Join(strings.Fields(content), " ")
	if len(preview) > maxLen {
		// Cut on a rune boundary
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(preview[cut]) {
			cut--
		}
		preview = preview[:cut] + "..."
	}
	return preview
}

// parseTextFile reads a plain text file, capping size and tolerating
// non-UTF-8 encodings by falling back to a Latin-1 interpretation.
func (p *Parser) parseTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read text file: %w", err)
	}

	if len(data) > maxContentBytes {
		data = data[:maxContentBytes]
	}

	if utf8.Valid(data) {
		return string(data), nil
	}

	// Binary sniff: NUL bytes mean this is not text despite the extension.
	for _, b := range data {
		if b == 0 {
			return "", fmt.Errorf("file %s is not text", filepath.Base(path))
		}
	}

	// Latin-1 fallback: every byte maps to the code point of the same value.
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes), nil
}
