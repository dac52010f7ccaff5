package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// EmptyView is shown when the library has no subscribed shows.
type EmptyView struct {
	width int
}

func NewEmptyView() *EmptyView {
	return &EmptyView{width: defaultWidth}
}

func (v *EmptyView) SetSize(width, _ int) { v.width = width }

func (v *EmptyView) View() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("No podcasts yet"))
	b.WriteString("\n")
	b.WriteString("Subscribe to shows to see their episodes here.\n\n")
	b.WriteString(styles.help.Render("press d to discover shows"))
	return lipgloss.NewStyle().Width(v.width).Render(b.String())
}
