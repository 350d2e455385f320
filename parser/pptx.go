package parser

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"sort"
	"strings"
)

// maxSlides bounds extraction for very large presentations.
const maxSlides = 100

// parsePptx extracts shape text from a PowerPoint presentation.
// Slides are processed in order, capped at maxSlides.
func parsePptx(path string) (string, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open pptx: %w", err)
	}
	defer reader.Close()

	var slideNames []string
	for _, file := range reader.File {
		if strings.HasPrefix(file.Name, "ppt/slides/slide") && strings.HasSuffix(file.Name, ".xml") {
			slideNames = append(slideNames, file.Name)
		}
	}
	sort.Strings(slideNames)
	if len(slideNames) > maxSlides {
		slideNames = slideNames[:maxSlides]
	}

	var lines []string
	for _, name := range slideNames {
		content, err := readArchiveFile(&reader.Reader, name)
		if err != nil {
			return "", err
		}
		lines = append(lines, slideText(content)...)
	}

	return capContent(strings.Join(lines, "\n")), nil
}

// slideText collects the character data of every <a:t> element in a slide.
// Slide markup nests text arbitrarily deep inside shapes, so a token walk is
// simpler than a struct mirror.
func slideText(content []byte) []string {
	decoder := xml.NewDecoder(strings.NewReader(string(content)))

	var lines []string
	inText := false
	var sb strings.Builder

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		switch tok := token.(type) {
		case xml.StartElement:
			if tok.Name.Local == "t" {
				inText = true
				sb.Reset()
			}
		case xml.CharData:
			if inText {
				sb.Write(tok)
			}
		case xml.EndElement:
			if tok.Name.Local == "t" {
				inText = false
				if text := strings.TrimSpace(sb.String()); text != "" {
					lines = append(lines, text)
				}
			}
		}
	}
	return lines
}
