package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandMapping(t *testing.T) {
	c := Builtin()
	tests := map[string]string{
		"status": "invader",
		"diff":   "invader",
		"log":    "invader",
		"pull":   "skull",
		"fetch":  "skull",
		"clone":  "skull",
		"push":   "sword",
		"merge":  "sword",
	}
	for cmd, want := range tests {
		clip, ok := c.ForCommand(cmd)
		if assert.True(t, ok, cmd) {
			assert.Equal(t, want, clip.Name, cmd)
		}
	}

	_, ok := c.ForCommand("unknown")
	assert.False(t, ok)
}

func TestListClips(t *testing.T) {
	clips := Builtin().List()
	require.Len(t, clips, 3)
	assert.ElementsMatch(t, []string{"invader", "skull", "sword"}, Builtin().Names())
}

func TestClipInfo(t *testing.T) {
	invader, err := Builtin().Find("invader")
	require.NoError(t, err)
	assert.Equal(t, 38, invader.Frames)
	assert.Contains(t, invader.File, "invader")
	assert.Equal(t, "Monster Bash", invader.Theme)
	assert.True(t, invader.HasTag("action"))
}

func TestFilters(t *testing.T) {
	c := Builtin()
	assert.Len(t, c.ByTag("action"), 2)
	assert.Len(t, c.ByTag("celebration"), 1)
	assert.Empty(t, c.ByTag("jazz"))
	assert.Len(t, c.ByTheme("monster bash"), 3)

	tags := c.Tags()
	assert.Equal(t, 3, tags["monster"])
	assert.Equal(t, []string{"action", "celebration", "horror", "monster", "victory"}, SortedKeys(tags))
	assert.Equal(t, map[string]int{"Monster Bash": 3}, c.Themes())
}

func TestFind(t *testing.T) {
	c := Builtin()

	_, err := c.Find("skull")
	assert.NoError(t, err)

	_, err = c.Find("swrd")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "did you mean sword")

	_, err = c.Find("nonexistent")
	require.ErrorIs(t, err, ErrNotFound)
	assert.NotContains(t, err.Error(), "did you mean")
}

func TestParseRejectsBadCatalogs(t *testing.T) {
	_, err := Parse([]byte("clips:\n  - name: a\n"))
	assert.Error(t, err, "missing file")

	_, err = Parse([]byte("clips:\n  - {name: a, file: a.gif}\n  - {name: a, file: b.gif}\n"))
	assert.Error(t, err, "duplicate")

	_, err = Parse([]byte("clips: ["))
	assert.Error(t, err)
}
