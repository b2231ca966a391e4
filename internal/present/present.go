// Package present derives display values from fetched simulation data. It
// never changes the data it reads.
package present

import (
	"strings"

	"github.com/danielpatrickdp/brainwave-viewer/internal/sim"
)

// #region colors
// Severity colours shared by the map zones, bars and HUD.
const (
	ColorLow      = "#22c55e"
	ColorMedium   = "#eab308"
	ColorHigh     = "#f97316"
	ColorCritical = "#ef4444"
)

// HazardColor maps a hazard level in [0, 1] to its severity colour.
func HazardColor(level float64) string {
	switch {
	case level <= 0.2:
		return ColorLow
	case level <= 0.5:
		return ColorMedium
	case level <= 0.8:
		return ColorHigh
	}
	return ColorCritical
}

// ShelteredColor maps the sheltered fraction to a colour; more is better.
func ShelteredColor(sheltered float64) string {
	switch {
	case sheltered >= 0.8:
		return ColorLow
	case sheltered >= 0.5:
		return ColorMedium
	case sheltered >= 0.2:
		return ColorHigh
	}
	return ColorCritical
}

// PolicyColor is the colour a policy is drawn in on comparisons.
func PolicyColor(p sim.PolicyType) string {
	if p == sim.PolicyPPO {
		return "#3b82f6"
	}
	return "#f59e0b"
}

// PolicyLabel is the display name of a policy.
func PolicyLabel(p sim.PolicyType) string {
	switch p {
	case sim.PolicyPPO:
		return "PPO (AI Agent)"
	case sim.PolicyHeuristic:
		return "Heuristic (Baseline)"
	}
	return string(p)
}

// #endregion colors

// #region state-bars
// Bar is one row of the state panel.
type Bar struct {
	Key         string
	Label       string
	Description string
	Value       float64
	// Inverted marks fields where a high value is bad.
	Inverted bool
	Color    string
}

// Percent is Value as a whole percentage.
func (b Bar) Percent() int {
	return int(b.Value*100 + 0.5)
}

// StateBars lists the state fields in display order.
func StateBars(s sim.State) []Bar {
	bars := []Bar{
		{Key: "hazard", Label: "Hazard Level", Description: "Earthquake intensity", Value: s.Hazard, Inverted: true},
		{Key: "unsheltered", Label: "Unsheltered Population", Description: "People not in safe shelters", Value: s.Unsheltered, Inverted: true},
		{Key: "shelter_capacity", Label: "Shelter Capacity", Description: "Available shelter space", Value: s.ShelterCapacity},
		{Key: "casualties", Label: "Casualties", Description: "Casualties from delay", Value: s.Casualties, Inverted: true},
		{Key: "congestion", Label: "Congestion", Description: "Route congestion", Value: s.Congestion, Inverted: true},
		{Key: "evacuation_progress", Label: "Evacuation Progress", Description: "Completion percentage", Value: s.EvacuationProgress},
		{Key: "resources", Label: "Resources", Description: "Available resources", Value: s.Resources},
		{Key: "communication", Label: "Communication", Description: "Network functioning", Value: s.Communication},
		{Key: "panic", Label: "Panic Level", Description: "Population panic", Value: s.Panic, Inverted: true},
		{Key: "time_normalized", Label: "Time Progress", Description: "Simulation progress", Value: s.TimeNormalized},
	}
	for i := range bars {
		if bars[i].Inverted {
			bars[i].Color = HazardColor(bars[i].Value)
		} else {
			bars[i].Color = ShelteredColor(bars[i].Value)
		}
	}
	return bars
}

// #endregion state-bars

// #region actions
var actionDescriptions = map[sim.ActionName]string{
	sim.ActionDoNothing:            "Monitor situation passively, let population self-evacuate",
	sim.ActionPrioritizeVulnerable: "Focus resources on elderly, disabled, and children first",
	sim.ActionDistributeEvenly:     "Spread resources uniformly across all zones",
	sim.ActionFocusHighDensity:     "Concentrate efforts on high-population areas",
	sim.ActionExpediteRoutes:       "Clear and optimize evacuation routes to reduce congestion",
}

// ActionTitle turns "prioritize_vulnerable" into "Prioritize Vulnerable".
func ActionTitle(name sim.ActionName) string {
	words := strings.Split(string(name), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// ActionDescription explains an action; unknown names get a placeholder.
func ActionDescription(name sim.ActionName) string {
	if d, ok := actionDescriptions[name]; ok {
		return d
	}
	return "No description available"
}

// #endregion actions

// #region rewards
// CumulativeRewards returns the running reward total at each step.
func CumulativeRewards(trajectory []sim.Step) []float64 {
	out := make([]float64, len(trajectory))
	var sum float64
	for i, step := range trajectory {
		sum += step.Reward
		out[i] = sum
	}
	return out
}

// #endregion rewards
