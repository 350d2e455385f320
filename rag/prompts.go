package rag

import (
	"fmt"
	"strings"

	"github.com/poiesic/foundit/core"
)

const (
	// reasoningCandidateLimit caps how many candidates the model sees.
	reasoningCandidateLimit = 25

	// reasoningPreviewLimit caps per-candidate preview bytes in the prompt.
	reasoningPreviewLimit = 400

	// reasoningSelectionCap caps how many files the model is asked to pick.
	reasoningSelectionCap = 5
)

// reasoningPrompt builds the file-selection prompt. The model analyzes
// every candidate, then emits SELECTED_FILES / CONFIDENCE / EXPLANATION
// lines that parseSelection understands.
func reasoningPrompt(message string, candidates []core.PhraseCandidate, topK int, formats []string) string {
	shown := candidates
	if len(shown) > reasoningCandidateLimit {
		shown = shown[:reasoningCandidateLimit]
	}

	preferred := make(map[string]bool, len(formats))
	for _, f := range formats {
		preferred[f] = true
	}

	var files strings.Builder
	for i, candidate := range shown {
		marker := ""
		if preferred[strings.ToLower(candidate.FileType)] {
			marker = " [preferred format]"
		}
		preview := candidate.Preview
		if preview == "" {
			preview = "No preview available"
		} else if len(preview) > reasoningPreviewLimit {
			preview = preview[:reasoningPreviewLimit]
		}
		fmt.Fprintf(&files, "%d. %s (%s)%s\n   Preview: %s\n\n",
			i+1, candidate.FileName, candidate.FileType, marker, preview)
	}

	formatContext := ""
	if len(formats) > 0 {
		formatContext = fmt.Sprintf("\n\nUSER FORMAT PREFERENCE: %s\nPrioritize files with these formats, but also consider other formats if they're better matches.",
			strings.Join(formats, ", "))
	}

	selectCount := topK
	if selectCount > reasoningSelectionCap {
		selectCount = reasoningSelectionCap
	}

	return fmt.Sprintf(`You are an expert file search AI with deep understanding of document types and user intent.

User's request: %q%s

CRITICAL REMINDER - UNDERSTAND USER INTENT:
- "find job documents" = looking for CV, resume, employment records, job offers, cover letters
- "find travel documents" = looking for passport, visa, i94, boarding passes, travel itineraries
- "find financial documents" = looking for taxes, budgets, invoices, bank statements
- Think SEMANTICALLY about what files match the user's REAL NEED, not just keyword overlap.

Now analyze EVERY candidate file carefully:

Available files to choose from:
%s
For each file, ask yourself:
1. What type of document is this? (infer from name + preview)
2. Does it match what the user is looking for? YES/NO/MAYBE
3. How confident are you? HIGH/MEDIUM/LOW
4. Why? (be specific - reference name and preview content)

Then select the top %d files that best match the user's ACTUAL need.
BE GENEROUS in matching - if it's plausibly related, give it credit.

OUTPUT FORMAT (EXACTLY):
FILE_ANALYSIS:
1. [filename] - [Document type]. Match: [YES/NO/MAYBE]. Confidence: [HIGH/MEDIUM/LOW]. Reason: [reason]
2. [filename] - [Document type]. Match: [YES/NO/MAYBE]. Confidence: [HIGH/MEDIUM/LOW]. Reason: [reason]
... (analyze ALL %d files)

SELECTED_FILES: [comma-separated numbers, e.g., "1, 3, 5"]
CONFIDENCE: [HIGH/MEDIUM/LOW]
EXPLANATION: [1-2 sentences]

IMPORTANT:
- Analyze EVERY file - don't skip
- Be generous about what counts as a match
- Think about file PURPOSE and CONTENT first
- Consider that people name files inconsistently
- If user says "job documents", CV/resume/employment files are ALWAYS matches

Begin your analysis:`, message, formatContext, files.String(), selectCount, len(shown))
}

// analysisPrompt asks the model to answer a follow-up question from the
// contents of previously returned files.
func analysisPrompt(message, contents string) string {
	return fmt.Sprintf(`You are a file assistant. The user is asking about files from an earlier search.

User's question: %q
%s

Answer the question using ONLY the file contents above. Be concise and
mention file names when referring to their content.`, message, contents)
}

// helpResponse lists example queries for "help"-style messages.
const helpResponse = "I'm a file search assistant. Try:\n" +
	"- \"find my resume\"\n" +
	"- \"budget reports\"\n" +
	"- \"meeting notes team C\"\n" +
	"- \"photos from trip\""
