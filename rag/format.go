package rag

import (
	"strings"

	"github.com/poiesic/foundit/core"
)

// formatRule maps query keywords to the file extensions they imply.
type formatRule struct {
	keywords []string
	formats  []string
}

// formatRules is evaluated in order; every matching rule contributes its
// extensions.
var formatRules = []formatRule{
	{[]string{"pdf", "portable document"}, []string{".pdf"}},
	{[]string{"word", "doc", ".docx"}, []string{".docx", ".doc"}},
	{[]string{"excel", "xlsx", "xls", "spreadsheet", "sheet", "csv"}, []string{".xlsx", ".xls", ".csv"}},
	{[]string{"text file", ".txt", "notepad"}, []string{".txt"}},
	{[]string{"python", ".py", "script"}, []string{".py"}},
	{[]string{"javascript", ".js", "typescript", ".ts"}, []string{".js", ".ts"}},
	{[]string{"java", ".java"}, []string{".java"}},
	{[]string{"code files", "source"}, []string{".py", ".js", ".ts", ".java", ".cpp", ".c"}},
	{[]string{"markdown", ".md"}, []string{".md", ".txt"}},
	{[]string{"image", "photo", "picture", "jpg", "png", "screenshot"}, []string{".jpg", ".jpeg", ".png", ".gif", ".bmp"}},
	{[]string{"powerpoint", "ppt", "presentation", "slides"}, []string{".pptx", ".ppt"}},
	{[]string{"zip", "archive", "compressed"}, []string{".zip", ".rar", ".7z"}},
	{[]string{"json", ".json", "config"}, []string{".json", ".yaml", ".yml", ".ini", ".conf"}},
}

// DetectFormatPreference extracts file-extension preferences named in the
// message, like "as a PDF" or "the excel sheet". The second return value
// reports whether any preference was detected at all; a detected
// preference reorders results rather than hard-filtering them, so a
// format request with no matching files still returns something.
func DetectFormatPreference(message string) ([]string, bool) {
	lower := strings.ToLower(message)

	var detected []string
	seen := make(map[string]bool)
	for _, rule := range formatRules {
		for _, keyword := range rule.keywords {
			if !strings.Contains(lower, keyword) {
				continue
			}
			for _, format := range rule.formats {
				if !seen[format] {
					seen[format] = true
					detected = append(detected, format)
				}
			}
			break
		}
	}

	return detected, len(detected) > 0
}

// reorderByFormat moves candidates whose file type is in formats to the
// front, preserving relative order within each half.
func reorderByFormat(candidates []core.PhraseCandidate, formats []string) []core.PhraseCandidate {
	preferred := make(map[string]bool, len(formats))
	for _, f := range formats {
		preferred[f] = true
	}

	matches := make([]core.PhraseCandidate, 0, len(candidates))
	rest := make([]core.PhraseCandidate, 0, len(candidates))
	for _, c := range candidates {
		if preferred[strings.ToLower(c.FileType)] {
			matches = append(matches, c)
		} else {
			rest = append(rest, c)
		}
	}

	if len(matches) == 0 {
		return candidates
	}
	return append(matches, rest...)
}
