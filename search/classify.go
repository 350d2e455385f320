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


package search

import "strings"

// Document type category labels.
const (
	DocTypeResume      = "resume"
	DocTypeCoverLetter = "cover_letter"
	DocTypeTranscript  = "transcript"
	DocTypeTravel      = "travel_document"
	DocTypeTax         = "tax_document"
	DocTypeFinancial   = "financial"
	DocTypeMeeting     = "meeting_notes"
	DocTypeHomework    = "homework"
	DocTypeLabReport   = "lab_report"
	DocTypeGeneric     = "document"
)

// classifierRule pairs a category with its content predicate.
type classifierRule struct {
	category string
	match    func(text string) bool
}

// classifierRules is evaluated in priority order; the first match wins.
var classifierRules = []classifierRule{
	{DocTypeResume, isResume},
	{DocTypeCoverLetter, isCoverLetter},
	{DocTypeTranscript, isTranscript},
	{DocTypeTravel, isTravelDocument},
	{DocTypeTax, isTaxDocument},
	{DocTypeFinancial, isFinancial},
	{DocTypeMeeting, isMeetingNotes},
	{DocTypeHomework, isHomework},
	{DocTypeLabReport, isLabReport},
}

// Classify assigns a document-type label from content patterns.
// Classification runs once per document at index-build time; the label
// feeds both the enriched embedding text and the query-time type boost.
func Classify(content string) string {
	text := strings.ToLower(content)
	for _, rule := range classifierRules {
		if rule.match(text) {
			return rule.category
		}
	}
	return DocTypeGeneric
}

var resumeIndicators = []string{
	"work experience", "professional experience", "employment history",
	"skills", "education", "certifications", "objective", "summary of qualifications",
	"references available",
}

func isResume(text string) bool {
	if countAny(text, resumeIndicators) >= 3 {
		return true
	}
	// Contact info plus education plus experience markers together are as
	// strong a signal as the keyword count.
	contact := strings.Contains(text, "@") || strings.Contains(text, "phone")
	education := strings.Contains(text, "education") || strings.Contains(text, "university") ||
		strings.Contains(text, "bachelor") || strings.Contains(text, "master")
	experience := strings.Contains(text, "experience")
	return contact && education && experience
}

func isCoverLetter(text string) bool {
	if strings.Contains(text, "cover letter") {
		return true
	}
	if strings.Contains(text, "dear hiring manager") {
		return true
	}
	return strings.Contains(text, "i am writing to") &&
		(strings.Contains(text, "position") || strings.Contains(text, "apply"))
}

func isTranscript(text string) bool {
	if strings.Contains(text, "official transcript") || strings.Contains(text, "academic transcript") {
		return true
	}
	return countAny(text, []string{"gpa", "semester", "credit hours", "course", "grade"}) >= 3
}

func isTravelDocument(text string) bool {
	if strings.Contains(text, "i-94") || strings.Contains(text, "boarding pass") {
		return true
	}
	return countAny(text, []string{"passport", "visa", "immigration", "arrival", "departure", "itinerary"}) >= 2
}

func isTaxDocument(text string) bool {
	if strings.Contains(text, "w-2") || strings.Contains(text, "form 1099") || strings.Contains(text, "1040") {
		return true
	}
	return countAny(text, []string{"tax return", "taxable income", "irs", "withholding"}) >= 2
}

func isFinancial(text string) bool {
	return countAny(text, []string{"invoice", "amount due", "receipt", "payment", "billing", "total due"}) >= 2
}

func isMeetingNotes(text string) bool {
	return countAny(text, []string{"meeting", "agenda", "attendees", "action items", "minutes"}) >= 2
}

func isHomework(text string) bool {
	return countAny(text, []string{"homework", "assignment", "problem set", "exercise", "due date"}) >= 2
}

func isLabReport(text string) bool {
	return countAny(text, []string{"lab report", "hypothesis", "experiment", "procedure", "observations", "conclusion"}) >= 3
}

// countAny returns how many of the keywords occur in text.
func countAny(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}

// intentKeywords maps document-type categories to query keywords that
// signal the user wants that category.
var intentKeywords = map[string][]string{
	DocTypeResume:     {"resume", "cv", "curriculum vitae"},
	DocTypeTranscript: {"transcript", "grade", "gpa"},
	DocTypeTravel:     {"travel", "passport", "visa", "i94", "i-94", "immigration", "flight"},
	DocTypeTax:        {"tax", "w2", "w-2", "1099"},
	DocTypeFinancial:  {"invoice", "receipt", "budget", "expense", "bill"},
	DocTypeMeeting:    {"meeting", "minutes", "agenda"},
	DocTypeHomework:   {"homework", "assignment", "math", "problem set"},
	DocTypeLabReport:  {"lab report"},
}

// DetectIntent maps a query to a document-type category, or "" when the
// query names no known category.
func DetectIntent(query string) string {
	q := strings.ToLower(query)
	for _, category := range []string{
		DocTypeResume, DocTypeTranscript, DocTypeTravel, DocTypeTax,
		DocTypeFinancial, DocTypeMeeting, DocTypeHomework, DocTypeLabReport,
	} {
		for _, kw := range intentKeywords[category] {
			if strings.Contains(q, kw) {
				return category
			}
		}
	}
	return ""
}

// docTypeBoost scores how well a document's classified type fits the
// query's detected intent. A match earns +0.4; a document of a different
// known category is penalized, resumes hardest since their dense keyword
// surface matches almost any query.
func docTypeBoost(intent, docType string) float64 {
	if intent == "" {
		return 0
	}
	if docType == intent {
		return 0.4
	}
	if docType == "" || docType == DocTypeGeneric {
		return 0
	}
	if docType == DocTypeResume {
		return -0.3
	}
	return -0.2
}
