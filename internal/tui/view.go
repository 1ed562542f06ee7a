package tui

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/tablerohq/tablero/internal/board"
	"github.com/tablerohq/tablero/internal/tui/components"
	"github.com/tablerohq/tablero/internal/types"
)

const statusBarHint = "h/l move · j/k select · space grab/drop · enter detail · esc cancel · r refresh · q quit"

// View renders the board
func (m Model) View() tea.View {
	var view tea.View
	view.AltScreen = true
	view.BackgroundColor = lipgloss.Color(components.ColorBackground)

	if m.width == 0 {
		view.Content = "Loading..."
		return view
	}
	if m.loading && m.view == nil {
		view.Content = "Connecting to daemon..."
		return view
	}
	if m.view == nil {
		view.Content = "Board unavailable. Press r to retry, q to quit."
		return view
	}

	base := m.renderBoard()

	layers := []*lipgloss.Layer{lipgloss.NewLayer(base)}
	if m.detail != "" {
		layers = append(layers, m.renderDetailLayer())
	}
	canvas := lipgloss.NewCanvas(layers...)
	view.Content = canvas.Render()
	return view
}

func (m Model) renderBoard() string {
	banner := m.renderBanner()
	bannerHeight := lipgloss.Height(banner)
	if banner == "" {
		bannerHeight = 1
		banner = " "
	}
	columnHeight := m.height - bannerHeight - 1

	var grabbedID types.StoryID
	if id, ok := m.Grabbed(); ok {
		grabbedID = id
	}

	var rendered []string
	for i, col := range m.view.Columns {
		indicator := board.Indicator(col.Column, col.Occupancy())
		selected := i == m.selectedCol
		selectedIdx := -1
		if selected {
			selectedIdx = m.selectedRow
		}
		rendered = append(rendered, components.RenderColumn(
			col, indicator, selected, selectedIdx, grabbedID, columnHeight,
		))
	}
	columns := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)

	statusBar := components.RenderStatusBar(m.view, m.width, statusBarHint)

	return lipgloss.JoinVertical(lipgloss.Left, banner, columns, statusBar)
}

func (m Model) renderBanner() string {
	switch m.notifyLevel {
	case notifyInfo:
		return components.InfoBannerStyle.Render(m.notifyText)
	case notifyWarning:
		return components.WarningBannerStyle.Render(m.notifyText)
	case notifyError:
		return components.ErrorBannerStyle.Render(m.notifyText)
	default:
		return ""
	}
}

func (m Model) renderDetailLayer() *lipgloss.Layer {
	box := components.DetailBoxStyle.
		Width(min(m.width-8, 80)).
		Render(m.detailVP.View())

	x := max((m.width-lipgloss.Width(box))/2, 0)
	y := max((m.height-lipgloss.Height(box))/2, 0)
	return lipgloss.NewLayer(box).X(x).Y(y)
}
