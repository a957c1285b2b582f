package item

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCLIInputBasic(t *testing.T) {
	boards, tags, desc, priority := ParseCLIInput([]string{"@coding", "Fix", "bug"})
	assert.Equal(t, []string{"coding"}, boards)
	assert.Empty(t, tags)
	assert.Equal(t, "Fix bug", desc)
	assert.Equal(t, 1, priority)
}

func TestParseCLIInputWithPriority(t *testing.T) {
	_, _, desc, priority := ParseCLIInput([]string{"@coding", "Fix", "bug", "p:3"})
	assert.Equal(t, "Fix bug", desc)
	assert.Equal(t, 3, priority)
}

func TestParseCLIInputNoBoardDefaults(t *testing.T) {
	boards, _, desc, priority := ParseCLIInput([]string{"Simple", "task"})
	assert.Equal(t, []string{DefaultBoard}, boards)
	assert.Equal(t, "Simple task", desc)
	assert.Equal(t, 1, priority)
}

func TestParseCLIInputDedupBoards(t *testing.T) {
	boards, _, desc, _ := ParseCLIInput([]string{"@coding", "@Coding", "task"})
	assert.Equal(t, []string{"coding"}, boards)
	assert.Equal(t, "task", desc)
}

func TestParseCLIInputMultipleBoards(t *testing.T) {
	boards, _, desc, _ := ParseCLIInput([]string{"@coding", "@reviews", "task"})
	assert.Equal(t, []string{"coding", "reviews"}, boards)
	assert.Equal(t, "task", desc)
}

func TestParseCLIInputTags(t *testing.T) {
	boards, tags, desc, _ := ParseCLIInput([]string{"@coding", "+urgent", "+urgent", "+review", "Fix", "bug"})
	assert.Equal(t, []string{"coding"}, boards)
	assert.Equal(t, []string{"urgent", "review"}, tags)
	assert.Equal(t, "Fix bug", desc)
}

func TestParseCLIInputQuotedBoardWithSpaces(t *testing.T) {
	// The shell has already stripped the surrounding quotes by the time
	// this word reaches us, leaving one token with embedded spaces.
	boards, _, desc, _ := ParseCLIInput([]string{"@name with spaces", "task"})
	assert.Equal(t, []string{"name with spaces"}, boards)
	assert.Equal(t, "task", desc)
}

func TestParseCLIInputBareAtAndPlusAreDescription(t *testing.T) {
	_, tags, desc, _ := ParseCLIInput([]string{"@", "+", "task"})
	assert.Empty(t, tags)
	assert.Equal(t, "@ + task", desc)
}
