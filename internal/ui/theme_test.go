package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/memoryhunter/hunter/internal/memhunter"
)

func TestThemeCycle(t *testing.T) {
	names := ThemeNames()
	assert.Equal(t, []string{"Dracula", "Slate"}, names)

	assert.Equal(t, "Slate", NextTheme("Dracula"))
	assert.Equal(t, "Dracula", NextTheme("Slate"))
	assert.Equal(t, "Dracula", NextTheme("missing"))

	names[0] = "changed"
	assert.Equal(t, "Dracula", ThemeNames()[0])
}

func TestGetThemeFallsBack(t *testing.T) {
	assert.Equal(t, "Dracula", GetTheme("nope").Name)
	assert.Equal(t, "Slate", GetTheme("Slate").Name)
}

func TestFolderColor(t *testing.T) {
	for _, name := range ThemeNames() {
		theme := GetTheme(name)
		for _, status := range []memhunter.FolderStatus{
			memhunter.FolderPending, memhunter.FolderIndexing, memhunter.FolderActive,
			memhunter.FolderPaused, memhunter.FolderError,
		} {
			assert.NotEmpty(t, theme.FolderColor(status), "%s/%s", name, status)
		}
		assert.Equal(t, theme.Muted, theme.FolderColor("weird"), name)
	}
}
