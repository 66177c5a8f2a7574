package help

import (
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	lipgloss.SetColorProfile(termenv.ANSI256)
}

func TestHelp_New(t *testing.T) {
	m := New()

	assert.NotEmpty(t, m.keys.Up.Keys(), "expected Up keys to be set")
	assert.NotEmpty(t, m.keys.Quit.Keys(), "expected Quit keys to be set")
	assert.NotEmpty(t, m.keys.Help.Keys(), "expected Help keys to be set")
}

func TestHelp_SetSize(t *testing.T) {
	m := New().SetSize(120, 40)
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)

	m2 := m.SetSize(80, 24)
	assert.Equal(t, 80, m2.width)
	assert.Equal(t, 120, m.width, "expected original model width unchanged")
}

func TestHelp_View_ContainsSections(t *testing.T) {
	view := ansi.Strip(New().SetSize(80, 24).View())

	for _, section := range []string{"Keybindings", "Motion", "Editing", "Session", "Files"} {
		assert.Contains(t, view, section)
	}
}

func TestHelp_View_ContainsKeybindings(t *testing.T) {
	view := ansi.Strip(New().SetSize(80, 24).View())

	assert.Contains(t, view, "C-x C-c")
	assert.Contains(t, view, "quit")
	assert.Contains(t, view, "M-g")
	assert.Contains(t, view, "go to row:col")
	assert.Contains(t, view, "C-p/↑")
	assert.Contains(t, view, "ESC×3")
}

func TestHelp_View_FitsStandardTerminal(t *testing.T) {
	view := New().SetSize(80, 24).View()
	lines := strings.Split(view, "\n")

	assert.LessOrEqual(t, len(lines), 24, "expected help to fit 24 rows")
	for _, l := range lines {
		assert.LessOrEqual(t, lipgloss.Width(l), 80)
	}
}

func TestHelp_View_FooterWrapped(t *testing.T) {
	view := ansi.Strip(New().SetSize(80, 24).View())
	assert.Contains(t, view, "Press any key")
	assert.NotContains(t, view, Footer, "the footer is wrapped to the column width")
}

func TestScreen_RenderCachesBySize(t *testing.T) {
	s := NewScreen()
	ctx := context.Background()

	a := s.Render(ctx, 80, 24)
	require.Equal(t, New().SetSize(80, 24).View(), a)
	require.Equal(t, a, s.Render(ctx, 80, 24))

	b := s.Render(ctx, 100, 30)
	require.NotEqual(t, a, b)

	s.Invalidate(ctx)
	require.Equal(t, a, s.Render(ctx, 80, 24))
}
