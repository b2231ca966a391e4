package present

import (
	"testing"

	"github.com/danielpatrickdp/brainwave-viewer/internal/sim"
)

func TestHazardColor(t *testing.T) {
	tests := []struct {
		level float64
		want  string
	}{
		{0, ColorLow},
		{0.2, ColorLow},
		{0.35, ColorMedium},
		{0.5, ColorMedium},
		{0.8, ColorHigh},
		{0.81, ColorCritical},
		{1, ColorCritical},
	}
	for _, tt := range tests {
		if got := HazardColor(tt.level); got != tt.want {
			t.Errorf("HazardColor(%v) = %s, want %s", tt.level, got, tt.want)
		}
	}
}

func TestShelteredColor(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0.9, ColorLow},
		{0.5, ColorMedium},
		{0.2, ColorHigh},
		{0.1, ColorCritical},
	}
	for _, tt := range tests {
		if got := ShelteredColor(tt.v); got != tt.want {
			t.Errorf("ShelteredColor(%v) = %s, want %s", tt.v, got, tt.want)
		}
	}
}

func TestStateBars(t *testing.T) {
	bars := StateBars(sim.State{Hazard: 0.9, EvacuationProgress: 0.85, Panic: 0.1})
	if len(bars) != len(sim.StateFields) {
		t.Fatalf("expected %d bars, got %d", len(sim.StateFields), len(bars))
	}
	byKey := map[string]Bar{}
	for _, b := range bars {
		byKey[b.Key] = b
	}
	for _, f := range sim.StateFields {
		if _, ok := byKey[f]; !ok {
			t.Errorf("missing bar for %s", f)
		}
	}
	if byKey["hazard"].Color != ColorCritical || !byKey["hazard"].Inverted {
		t.Errorf("hazard bar: %+v", byKey["hazard"])
	}
	if byKey["evacuation_progress"].Color != ColorLow {
		t.Errorf("evacuation bar: %+v", byKey["evacuation_progress"])
	}
	if byKey["panic"].Color != ColorLow {
		t.Errorf("panic bar should be green at 0.1: %+v", byKey["panic"])
	}
	if byKey["evacuation_progress"].Percent() != 85 {
		t.Errorf("expected 85%%, got %d", byKey["evacuation_progress"].Percent())
	}
}

func TestActionLabels(t *testing.T) {
	if got := ActionTitle(sim.ActionPrioritizeVulnerable); got != "Prioritize Vulnerable" {
		t.Errorf("ActionTitle = %q", got)
	}
	if got := ActionTitle(sim.ActionDoNothing); got != "Do Nothing" {
		t.Errorf("ActionTitle = %q", got)
	}
	if ActionDescription(sim.ActionExpediteRoutes) == "No description available" {
		t.Error("expected a description for expedite_routes")
	}
	if got := ActionDescription("teleport"); got != "No description available" {
		t.Errorf("unknown action description = %q", got)
	}
}

func TestCumulativeRewards(t *testing.T) {
	traj := []sim.Step{{Reward: 1}, {Reward: -0.5}, {Reward: 2}}
	got := CumulativeRewards(traj)
	want := []float64{1, 0.5, 2.5}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("step %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if len(CumulativeRewards(nil)) != 0 {
		t.Error("expected empty series for empty trajectory")
	}
}

func TestRelics(t *testing.T) {
	ppo := &sim.Response{
		Trajectory: []sim.Step{{State: sim.State{EvacuationProgress: 0.2}}, {State: sim.State{EvacuationProgress: 0.734}}},
		Metrics:    sim.Metrics{TotalReward: 152.6, VictimsRescued: 640, TimeSteps: 48, SuccessRate: 0.64, PolicyType: sim.PolicyPPO},
	}
	base := &sim.Response{
		Metrics: sim.Metrics{TotalReward: 80, VictimsRescued: 512, TimeSteps: 50, SuccessRate: 0.512, PolicyType: sim.PolicyHeuristic},
	}

	want := map[string]string{
		"FORESIGHT":     "+25%",
		"STABILIZATION": "48 CYCLES",
		"RESILIENCE":    "64%",
		"EFFICIENCY":    "73%",
		"AUTHORITY":     "153",
		"CONTROL":       "+128",
	}
	relics := Relics(ppo, base)
	if len(relics) != 6 {
		t.Fatalf("expected 6 relics, got %d", len(relics))
	}
	for _, r := range relics {
		if !r.Visible {
			t.Errorf("%s should be visible", r.Label)
		}
		if r.Value != want[r.Label] {
			t.Errorf("%s = %q, want %q", r.Label, r.Value, want[r.Label])
		}
	}
}

func TestRelicsHiddenWithoutInputs(t *testing.T) {
	for _, r := range Relics(nil, nil) {
		if r.Visible || r.Value != "" {
			t.Errorf("%s should be hidden without data: %+v", r.Label, r)
		}
	}

	ppo := &sim.Response{Metrics: sim.Metrics{VictimsRescued: 10}}
	zeroBase := &sim.Response{}
	relics := Relics(ppo, zeroBase)
	if relics[0].Visible {
		t.Error("FORESIGHT must hide when the baseline rescued nobody")
	}
	if relics[3].Visible {
		t.Error("EFFICIENCY must hide for an empty trajectory")
	}
	if relics[5].Value != "+10" {
		t.Errorf("CONTROL = %q, want +10", relics[5].Value)
	}
}

func TestImprovement(t *testing.T) {
	tests := []struct {
		v, base float64
		want    string
	}{
		{120, 100, "+20.0%"},
		{90, 100, "-10.0%"},
		{100, 100, "0.0%"},
		{5, 0, "N/A"},
	}
	for _, tt := range tests {
		if got := Improvement(tt.v, tt.base); got != tt.want {
			t.Errorf("Improvement(%v, %v) = %q, want %q", tt.v, tt.base, got, tt.want)
		}
	}
}
