package item

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBoard(t *testing.T) {
	cases := map[string]string{
		"@CODING":   "CODING",
		" coding ":  "coding",
		"@myboard":  DefaultBoard,
		"my board":  DefaultBoard,
		"My Board":  DefaultBoard,
		"  @work  ": "work",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeBoard(in), "input %q", in)
	}
}

func TestNormalizeBoardsDefaultsWhenEmpty(t *testing.T) {
	assert.Equal(t, []string{DefaultBoard}, NormalizeBoards(nil))
	assert.Equal(t, []string{DefaultBoard}, NormalizeBoards([]string{}))
}

func TestClampPriority(t *testing.T) {
	assert.Equal(t, 1, ClampPriority(0))
	assert.Equal(t, 1, ClampPriority(-5))
	assert.Equal(t, 2, ClampPriority(2))
	assert.Equal(t, 3, ClampPriority(9))
}

func TestUnmarshalLegacyBoardPrefix(t *testing.T) {
	raw := `{"_id":1,"_date":"Mon Jan 01 2024","_timestamp":0,"_isTask":true,"description":"x","boards":["@coding","@Home"]}`
	var it Item
	require.NoError(t, json.Unmarshal([]byte(raw), &it))
	assert.Equal(t, []string{"coding", "Home"}, it.Boards)
	assert.Equal(t, 1, it.Priority)
}

func TestUnmarshalMissingBoardsDefaults(t *testing.T) {
	raw := `{"_id":1,"_date":"Mon Jan 01 2024","_timestamp":0,"_isTask":false,"description":"note"}`
	var it Item
	require.NoError(t, json.Unmarshal([]byte(raw), &it))
	assert.Equal(t, []string{DefaultBoard}, it.Boards)
	assert.True(t, it.IsNote())
}

func TestUnmarshalMissingIsTaskDefaultsToTask(t *testing.T) {
	raw := `{"_id":1,"_date":"Mon Jan 01 2024","_timestamp":0,"description":"legacy row"}`
	var it Item
	require.NoError(t, json.Unmarshal([]byte(raw), &it))
	assert.True(t, it.IsTask())
	assert.Equal(t, 1, it.Priority)
}

func TestNormalizedBodyWhitespaceIsAbsent(t *testing.T) {
	it := Item{Body: "   \n\n"}
	assert.Equal(t, "", it.NormalizedBody())

	it2 := Item{Body: "hello\n"}
	assert.Equal(t, "hello", it2.NormalizedBody())
}

func TestHasBoardCaseInsensitive(t *testing.T) {
	assert.True(t, HasBoard([]string{"Coding"}, "coding"))
	assert.False(t, HasBoard([]string{"Coding"}, "home"))
}
