package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poiesic/foundit/core"
)

func TestIsHelpRequest(t *testing.T) {
	assert.True(t, isHelpRequest("help"))
	assert.True(t, isHelpRequest("  Help  "))
	assert.True(t, isHelpRequest("what can you do?"))
	assert.True(t, isHelpRequest("?"))
	assert.False(t, isHelpRequest("help me find my resume"))
}

func TestIsAnalysisRequest(t *testing.T) {
	assert.True(t, isAnalysisRequest("summarize the first one"))
	assert.True(t, isAnalysisRequest("what's in that file?"))
	assert.True(t, isAnalysisRequest("tell me about those"))
	assert.False(t, isAnalysisRequest("find my resume"))
	// Analysis keyword without a back-reference is a fresh search.
	assert.False(t, isAnalysisRequest("summarize quarterly reports"))
	// Reference word must be a whole token, not a substring.
	assert.False(t, isAnalysisRequest("read receipts from the visitor log"))
}

func TestReferencedFiles(t *testing.T) {
	var c conversation
	c.add(core.RoleUser, "find budget files", nil)
	c.add(core.RoleAssistant, "found them", []string{"q1.xlsx", "q2.xlsx", "q3.xlsx", "q4.xlsx"})
	c.add(core.RoleUser, "summarize the first one", nil)

	files := c.referencedFiles()
	assert.Equal(t, []string{"q1.xlsx", "q2.xlsx", "q3.xlsx"}, files, "capped at three files")
}

func TestReferencedFilesMostRecentWins(t *testing.T) {
	var c conversation
	c.add(core.RoleAssistant, "old", []string{"old.txt"})
	c.add(core.RoleUser, "different search", nil)
	c.add(core.RoleAssistant, "new", []string{"new.txt"})

	assert.Equal(t, []string{"new.txt"}, c.referencedFiles())
}

func TestReferencedFilesOutsideWindow(t *testing.T) {
	var c conversation
	c.add(core.RoleAssistant, "found", []string{"a.txt"})
	for i := 0; i < referenceWindow; i++ {
		c.add(core.RoleUser, "chatter", nil)
	}

	assert.Nil(t, c.referencedFiles())
}

func TestConversationHistoryIsACopy(t *testing.T) {
	var c conversation
	c.add(core.RoleUser, "hello", nil)

	h := c.history()
	h[0].Content = "mutated"

	assert.Equal(t, "hello", c.history()[0].Content)
}

func TestConversationClear(t *testing.T) {
	var c conversation
	c.add(core.RoleUser, "hello", nil)
	c.clear()
	assert.Empty(t, c.history())
}
