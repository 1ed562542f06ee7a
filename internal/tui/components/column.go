package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/tablerohq/tablero/internal/board"
	"github.com/tablerohq/tablero/internal/models"
	"github.com/tablerohq/tablero/internal/types"
)

// RenderColumn renders one board column with its header badge and cards
//
//	{Name}  {occupancy/limit badge}
//	{Card 1}
//	{Card 2}
//	...
//
// The badge reflects WIP pressure: normal, close to the limit, or over it.
func RenderColumn(col *models.BoardColumn, indicator board.WIPIndicator, selected bool, selectedIdx int, grabbedID types.StoryID, height int) string {
	content := TitleStyle.Render(col.Column.Name) + " " + renderBadge(col, indicator) + "\n"

	if len(col.Stories) == 0 {
		content += SubtleStyle.Italic(true).Padding(1, 0).Render("No stories")
	} else {
		maxVisible := max((height-columnOverhead)/CardHeight, 1)
		offset := 0
		if selected && selectedIdx >= maxVisible {
			offset = selectedIdx - maxVisible + 1
		}
		end := min(offset+maxVisible, len(col.Stories))

		if offset > 0 {
			content += IndicatorLine("▲ more above")
		}
		for i, story := range col.Stories[offset:end] {
			idx := offset + i
			content += RenderCard(story, selected && idx == selectedIdx, story.ID == grabbedID)
		}
		if end < len(col.Stories) {
			content += IndicatorLine("▼ more below")
		}
	}

	style := ColumnStyle
	if selected {
		style = style.BorderForeground(lipgloss.Color(ColorSelected))
	}
	if indicator.Exceeded {
		style = style.BorderForeground(lipgloss.Color(ColorExceeded))
	}
	if height > 0 {
		style = style.Height(height - 2)
	}

	return style.Render(content)
}

// IndicatorLine renders a centered scroll indicator
func IndicatorLine(text string) string {
	return SubtleStyle.Align(lipgloss.Center).Width(CardWidth).Render(text) + "\n"
}

func renderBadge(col *models.BoardColumn, indicator board.WIPIndicator) string {
	occupancy := col.Occupancy()
	if !col.Column.Limited() {
		return CountBadgeStyle.Render(fmt.Sprintf("(%d)", occupancy))
	}

	label := fmt.Sprintf("%d/%d", occupancy, *col.Column.Limit)
	switch {
	case indicator.Exceeded:
		return ExceededBadgeStyle.Render(label + " over")
	case indicator.Warning:
		return WarnBadgeStyle.Render(label)
	default:
		return CountBadgeStyle.Render("(" + label + ")")
	}
}

// RenderStatusBar renders the bottom bar with blocked count and key hints
func RenderStatusBar(view *models.BoardView, width int, hint string) string {
	left := fmt.Sprintf(" %d blocked ", view.BlockedCount)
	if view.BlockedCount == 0 {
		left = ""
	} else {
		left = ErrorBannerStyle.Render(strings.TrimSpace(left)) + " "
	}

	bar := left + SubtleStyle.Render(hint)
	return StatusBarStyle.Width(width).Render(bar)
}
