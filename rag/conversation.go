package rag

import (
	"strings"
	"sync"
	"time"

	"github.com/poiesic/foundit/core"
)

const (
	// referenceWindow is how many recent turns are searched when
	// resolving "that"/"the first one" style follow-ups.
	referenceWindow = 5

	// referenceFileLimit caps how many referenced files a follow-up
	// resolves to.
	referenceFileLimit = 3
)

// helpTriggers are messages answered with usage hints instead of a search.
var helpTriggers = map[string]bool{
	"help":             true,
	"?":                true,
	"how":              true,
	"what can you do":  true,
	"what can you do?": true,
}

// analysisKeywords signal the user wants the content of files discussed,
// not a new search.
var analysisKeywords = []string{
	"summarize", "summary", "read", "what's in", "what is in", "analyze",
	"tell me about", "explain", "content", "details",
}

// referenceWords point back at earlier results.
var referenceWords = []string{"first", "that", "these", "those", "them", "it"}

// conversation holds the turns of one chat session in memory.
type conversation struct {
	mu    sync.Mutex
	turns []core.ConversationTurn
}

func (c *conversation) add(role core.Role, content string, files []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append(c.turns, core.ConversationTurn{
		Role:      role,
		Content:   content,
		Files:     files,
		Timestamp: time.Now().UTC(),
	})
}

func (c *conversation) history() []core.ConversationTurn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]core.ConversationTurn, len(c.turns))
	copy(out, c.turns)
	return out
}

func (c *conversation) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = nil
}

// referencedFiles resolves a follow-up against recent history: the most
// recent assistant turn carrying files wins, capped at
// referenceFileLimit names. Only called for messages that both ask for
// analysis and contain a reference word.
func (c *conversation) referencedFiles() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := len(c.turns) - referenceWindow
	if start < 0 {
		start = 0
	}
	for i := len(c.turns) - 1; i >= start; i-- {
		turn := c.turns[i]
		if turn.Role != core.RoleAssistant || len(turn.Files) == 0 {
			continue
		}
		files := turn.Files
		if len(files) > referenceFileLimit {
			files = files[:referenceFileLimit]
		}
		return files
	}
	return nil
}

func isHelpRequest(message string) bool {
	return helpTriggers[strings.ToLower(strings.TrimSpace(message))]
}

func isAnalysisRequest(message string) bool {
	lower := strings.ToLower(message)
	return containsAny(lower, analysisKeywords) && containsReferenceWord(lower)
}

// containsReferenceWord matches reference words as whole tokens so short
// words like "it" don't fire inside longer ones.
func containsReferenceWord(lower string) bool {
	for _, token := range strings.FieldsFunc(lower, func(r rune) bool {
		return r == ' ' || r == ',' || r == '.' || r == '?' || r == '!'
	}) {
		for _, ref := range referenceWords {
			if token == ref {
				return true
			}
		}
	}
	return false
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
