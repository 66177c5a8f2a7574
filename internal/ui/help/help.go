// Package help contains the key binding screen shown by ESC ESC ESC.
package help

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/zecora/internal/cachemanager"
	"github.com/zjrosen/zecora/internal/keys"
)

var (
	titleColor  = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#89B4FA"}
	borderColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"}
	keyColor    = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BBBBBB"}
	descColor   = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"}
	mutedColor  = lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#696969"}

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(titleColor).
			PaddingLeft(2)

	dividerStyle = lipgloss.NewStyle().
			Foreground(borderColor)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(titleColor)

	keyStyle = lipgloss.NewStyle().
			Foreground(keyColor).
			Width(9)

	descStyle = lipgloss.NewStyle().
			Foreground(descColor)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor)

	contentStyle = lipgloss.NewStyle().
			Padding(0, 2)

	footerStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)
)

// Footer is the closing hint under the bindings.
const Footer = "Press any key to return to the document. Commands shown without a binding in this build report that they are not available."

// Model holds the help view state.
type Model struct {
	keys   keys.EditorKeyMap
	width  int
	height int
}

// New creates a help view for the default key map.
func New() Model {
	return Model{keys: keys.Editor}
}

// SetSize updates dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// View renders the help box centered in the screen.
func (m Model) View() string {
	return lipgloss.Place(
		m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		m.renderContent(),
	)
}

func (m Model) renderContent() string {
	columnStyle := lipgloss.NewStyle().MarginRight(2)
	groups := m.keys.Groups()

	// Session and Files share the last column.
	cols := []string{
		renderGroup(groups[0]),
		renderGroup(groups[1]),
		renderGroup(groups[2]) + "\n" + renderGroup(groups[3]),
	}
	columns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(cols[0]),
		columnStyle.Render(cols[1]),
		cols[2],
	)

	columnsWidth := lipgloss.Width(columns)
	boxWidth := columnsWidth + 4

	footer := footerStyle.Render(wordwrap.String(Footer, columnsWidth))
	body := contentStyle.Render(columns + "\n" + footer)

	divider := dividerStyle.Render(strings.Repeat("─", boxWidth))

	var content strings.Builder
	content.WriteString(titleStyle.Render("Keybindings"))
	content.WriteString("\n")
	content.WriteString(divider)
	content.WriteString("\n")
	content.WriteString(body)

	return boxStyle.Width(boxWidth).Render(content.String())
}

func renderGroup(g keys.Group) string {
	var sb strings.Builder
	sb.WriteString(sectionStyle.Render(g.Title))
	sb.WriteString("\n")
	for _, b := range g.Bindings {
		sb.WriteString(renderBinding(b))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func renderBinding(b key.Binding) string {
	help := b.Help()
	return keyStyle.Render(help.Key) + descStyle.Render(help.Desc) + "\n"
}

// Screen renders the help view for a terminal size, reusing earlier
// renders of the same size.
type Screen struct {
	cache *cachemanager.ReadThroughCache[string, string, Model]
}

// NewScreen returns a help screen backed by an in-memory cache.
func NewScreen() *Screen {
	store := cachemanager.NewInMemoryCacheManager[string, string](
		"help", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)
	return &Screen{
		cache: cachemanager.NewReadThroughCache[string, string, Model](store,
			func(_ context.Context, m Model) (string, error) { return m.View(), nil },
			false),
	}
}

// Render returns the help view for a width x height terminal.
func (s *Screen) Render(ctx context.Context, width, height int) string {
	view, _ := s.cache.Get(ctx, fmt.Sprintf("%dx%d", width, height), New().SetSize(width, height), cachemanager.DefaultExpiration)
	return view
}

// Invalidate drops cached renders, e.g. after the color profile changes.
func (s *Screen) Invalidate(ctx context.Context) {
	_ = s.cache.Invalidate(ctx)
}
