package parser

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"strings"
)

// maxSharedStrings bounds extraction for very large workbooks.
const maxSharedStrings = 5000

// sharedStringsXML mirrors xl/sharedStrings.xml. Cell text in a workbook is
// stored once in this table; extracting it yields every distinct string the
// sheets reference, which is sufficient for search indexing.
type sharedStringsXML struct {
	Items []sharedStringItem `xml:"si"`
}

type sharedStringItem struct {
	Text string   `xml:"t"`
	Runs []string `xml:"r>t"`
}

// parseXlsx extracts shared-string cell text from a spreadsheet.
func parseXlsx(path string) (string, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open xlsx: %w", err)
	}
	defer reader.Close()

	content, err := readArchiveFile(&reader.Reader, "xl/sharedStrings.xml")
	if err != nil {
		return "", err
	}
	if content == nil {
		// A workbook with only numeric cells has no shared strings.
		return "", nil
	}

	var shared sharedStringsXML
	if err := xml.Unmarshal(content, &shared); err != nil {
		return "", fmt.Errorf("parse xlsx xml: %w", err)
	}

	items := shared.Items
	if len(items) > maxSharedStrings {
		items = items[:maxSharedStrings]
	}

	var lines []string
	for _, item := range items {
		text := item.Text
		if text == "" && len(item.Runs) > 0 {
			text = strings.Join(item.Runs, "")
		}
		if text = strings.TrimSpace(text); text != "" {
			lines = append(lines, text)
		}
	}

	return capContent(strings.Join(lines, "\n")), nil
}
