package expand

import "strings"

// synonymGroup pairs a trigger phrase with the terms it contributes.
// Groups are kept in a slice so matching order is fixed.
type synonymGroup struct {
	key   string
	terms string
}

var synonymGroups = []synonymGroup{
	// Employment and career documents.
	{"resume", "CV curriculum vitae professional experience work history employment history career profile job application employment record"},
	{"cv", "resume curriculum vitae professional experience work history employment history career profile job application employment record"},
	{"job", "resume CV employment career application offer letter position role hire hiring work"},
	{"job application", "resume CV cover letter employment application career position offer"},
	{"job document", "resume CV employment career application offer cover letter portfolio work history"},
	{"job offer", "employment offer acceptance letter position role hire contract negotiation"},
	{"cover letter", "job application resume CV application letter employment"},
	{"employment", "job resume CV work career employment history position"},

	// Travel documents.
	{"travel", "passport visa i94 i-94 immigration arrival departure boarding pass flight ticket travel authorization"},
	{"passport", "travel visa i94 immigration documents travel"},
	{"visa", "travel passport i94 immigration documents"},
	{"i94", "travel passport visa immigration arrival departure i-94 form travel documents"},

	// Financial documents.
	{"budget", "financial report expenses revenue costs spending finance accounting spreadsheet"},
	{"financial", "budget expenses revenue costs spending accounting statements report"},
	{"tax", "taxes income revenue deduction IRS W2 1040 financial return filing"},
	{"invoice", "bill receipt payment charge financial statement transaction"},

	// Legal documents.
	{"contract", "agreement legal document terms conditions signature"},

	// Meetings and discussion.
	{"meeting", "notes minutes agenda discussion call conference recording transcript"},
	{"notes", "meeting minutes documentation memo records discussion"},

	// Reports and general documentation.
	{"report", "analysis summary findings conclusion document paper"},
	{"document", "file paper report memo record letter"},
}

// AddSynonyms appends synonym terms to searchQuery for every group whose
// trigger occurs in originalMessage. Terms already present in the query
// are skipped, and each term is added at most once. The two arguments
// differ when searchQuery is itself a derived phrasing: triggers are
// matched against what the user actually said.
func AddSynonyms(searchQuery, originalMessage string) string {
	originalLower := strings.ToLower(originalMessage)
	queryLower := strings.ToLower(searchQuery)

	var added []string
	seen := make(map[string]bool)
	for _, group := range synonymGroups {
		if !strings.Contains(originalLower, group.key) {
			continue
		}
		for _, term := range strings.Fields(group.terms) {
			lower := strings.ToLower(term)
			if seen[lower] || strings.Contains(queryLower, lower) {
				continue
			}
			seen[lower] = true
			added = append(added, term)
		}
	}

	if len(added) == 0 {
		return searchQuery
	}
	return searchQuery + " " + strings.Join(added, " ")
}
