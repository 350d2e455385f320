package search

import (
	"sort"
	"strings"
)

// expansions maps query keywords to related terms appended before
// embedding. The raw query is still used for the filename boost, so
// expansion widens recall without distorting lexical matching.
var expansions = map[string]string{
	"travel":           "travel passport visa immigration i94 i-94 flight ticket boarding",
	"travel documents": "passport visa i94 i-94 immigration travel authorization boarding pass flight ticket",
	"passport":         "passport travel document identification visa",
	"visa":             "visa immigration travel authorization permit",
	"i94":              "i94 i-94 immigration arrival departure form travel",
	"flight":           "flight ticket boarding pass airline travel itinerary",
	"math":             "math mathematics calculus algebra geometry arithmetic equations",
	"homework":         "homework assignment problem set exercises coursework",
	"code":             "code programming source script implementation function",
	"python":           "python programming code script .py development",
	"java":             "java programming code class .java development",
	"meeting":          "meeting notes minutes discussion agenda action items",
	"budget":           "budget financial expenses costs spending money",
	"invoice":          "invoice bill receipt payment transaction",
	"contract":         "contract agreement legal document terms",
	"resume":           "resume cv curriculum vitae employment job career",
}

// expansionKeys holds the table keys in a fixed match order, longest first,
// so "travel documents" wins over "travel".
var expansionKeys = func() []string {
	keys := make([]string, 0, len(expansions))
	for k := range expansions {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// expandQuery appends the first matching synonym set to the query.
func expandQuery(query string) string {
	q := strings.ToLower(query)
	for _, key := range expansionKeys {
		if strings.Contains(q, key) {
			return query + " " + expansions[key]
		}
	}
	return query
}
