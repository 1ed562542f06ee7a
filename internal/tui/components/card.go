package components

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/tablerohq/tablero/internal/models"
)

// RenderCard renders a single story as a card
//
//	┃ {Story Title}        ┃
//	┃ type │ priority      ┃
//
// grabbed marks the card currently being moved.
func RenderCard(story *models.Story, selected, grabbed bool) string {
	// Truncate by rune, not byte, so multibyte titles stay valid UTF-8.
	title := story.Title
	if runes := []rune(title); len(runes) > CardWidth-4 {
		title = string(runes[:CardWidth-4]) + "…"
	}

	var blocked string
	if story.Status == models.StatusBlocked {
		blocked = BlockedStyle.Render(" !")
	}

	titleLine := lipgloss.NewStyle().Bold(true).Render(" " + title + blocked)
	meta := fmt.Sprintf(" %s │ %s", story.Type, story.Priority)
	if story.Estimate != nil {
		meta += fmt.Sprintf(" │ %dpt", *story.Estimate)
	}
	metaLine := SubtleStyle.Render(meta)

	style := CardStyle
	switch {
	case grabbed:
		style = style.
			BorderForeground(lipgloss.Color(ColorWarning)).
			Background(lipgloss.Color(ColorCardGrabbed))
	case selected:
		style = style.BorderForeground(lipgloss.Color(ColorSelected))
	}

	return style.Render(titleLine + "\n" + metaLine)
}
