// Package hud draws a playback snapshot as a terminal frame.
package hud

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/danielpatrickdp/brainwave-viewer/internal/playback"
	"github.com/danielpatrickdp/brainwave-viewer/internal/present"
	"github.com/danielpatrickdp/brainwave-viewer/internal/sim"
)

const barWidth = 20

var (
	mutedText = lipgloss.Color("#8CA1AE")
	border    = lipgloss.Color("#2D6A80")

	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Width(24)
	mutedStyle  = lipgloss.NewStyle().Foreground(mutedText)
	panelStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1)
)

// Render draws one frame. cumulative is the running reward up to the snapshot's step.
func Render(snap playback.Snapshot, policy sim.PolicyType, cumulative float64) string {
	header := headerStyle.Foreground(lipgloss.Color(present.PolicyColor(policy))).
		Render(present.PolicyLabel(policy))

	if snap.NoData || snap.Step == nil {
		return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			header,
			mutedStyle.Render("No simulation data. Run a simulation first."),
		))
	}

	step := snap.Step
	status := "paused"
	switch {
	case snap.Playing:
		status = "playing"
	case snap.Completed:
		status = "complete"
	}
	progress := fmt.Sprintf("Timestep %d  [%d/%d]  %s", step.Timestep, snap.Index+1, snap.Total, status)

	lines := []string{
		header,
		mutedStyle.Render(progress),
		"",
		fmt.Sprintf("Action  %s", present.ActionTitle(step.Action.Name)),
		mutedStyle.Render(present.ActionDescription(step.Action.Name)),
		fmt.Sprintf("Reward  %+.2f  (total %.2f)", step.Reward, cumulative),
		"",
	}
	for _, b := range present.StateBars(step.State) {
		lines = append(lines, renderBar(b))
	}
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func renderBar(b present.Bar) string {
	filled := b.Percent() * barWidth / 100
	filled = max(0, min(barWidth, filled))
	bar := lipgloss.NewStyle().Foreground(lipgloss.Color(b.Color)).
		Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", barWidth-filled))
	return labelStyle.Render(b.Label) + bar + fmt.Sprintf(" %3d%%", b.Percent())
}
