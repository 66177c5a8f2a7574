package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/zecora/internal/input"
)

func TestEditor_EveryOpHasBinding(t *testing.T) {
	for _, op := range input.Ops() {
		if op == input.OpInsertByte {
			continue
		}
		b, ok := Editor.Binding(op)
		require.True(t, ok, "%s has a binding", op)
		require.NotEmpty(t, b.Keys(), "%s has keys", op)
		require.NotEmpty(t, b.Help().Key, "%s has help key", op)
		require.NotEmpty(t, b.Help().Desc, "%s has help text", op)
	}
}

func TestEditor_InsertByteUnbound(t *testing.T) {
	_, ok := Editor.Binding(input.OpInsertByte)
	require.False(t, ok)
}

func TestEditor_KeyAssignments(t *testing.T) {
	tests := []struct {
		name     string
		binding  key.Binding
		expected []string
	}{
		{"Up uses ctrl+p and up", Editor.Up, []string{"ctrl+p", "up"}},
		{"Jump uses alt+g", Editor.Jump, []string{"alt+g"}},
		{"Quit uses C-x C-c", Editor.Quit, []string{"ctrl+x ctrl+c"}},
		{"Open uses C-x C-f", Editor.Open, []string{"ctrl+x ctrl+f"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.binding.Keys())
		})
	}
}

func TestEditor_GroupsCoverEveryBinding(t *testing.T) {
	count := 0
	for _, g := range Editor.Groups() {
		require.NotEmpty(t, g.Title)
		count += len(g.Bindings)
	}
	// Every op except OpInsertByte appears exactly once.
	require.Equal(t, len(input.Ops())-1, count)
	require.Len(t, Editor.FullHelp(), len(Editor.Groups()))
}

func TestEditor_ShortHelp(t *testing.T) {
	short := Editor.ShortHelp()
	require.Len(t, short, 2)
	require.Equal(t, "ESC×3", short[0].Help().Key)
}
