package hud

import (
	"strings"
	"testing"

	"github.com/danielpatrickdp/brainwave-viewer/internal/playback"
	"github.com/danielpatrickdp/brainwave-viewer/internal/sim"
)

func TestRenderStep(t *testing.T) {
	step := sim.Step{
		Timestep: 7,
		State:    sim.State{Hazard: 0.9, EvacuationProgress: 0.5},
		Action:   sim.Action{Type: 4, Name: sim.ActionExpediteRoutes},
		Reward:   1.25,
	}
	out := Render(playback.Snapshot{Index: 7, Total: 20, Playing: true, Step: &step}, sim.PolicyPPO, 9.5)
	for _, want := range []string{
		"PPO (AI Agent)",
		"Timestep 7",
		"[8/20]",
		"playing",
		"Expedite Routes",
		"+1.25",
		"total 9.50",
		"Hazard Level",
		"90%",
		"Evacuation Progress",
		"50%",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("frame missing %q:\n%s", want, out)
		}
	}
}

func TestRenderNoData(t *testing.T) {
	out := Render(playback.Snapshot{NoData: true}, sim.PolicyHeuristic, 0)
	if !strings.Contains(out, "No simulation data") {
		t.Errorf("expected no-data notice:\n%s", out)
	}
	if strings.Contains(out, "Timestep") {
		t.Error("no-data frame must not show a timestep")
	}
}

func TestRenderCompleted(t *testing.T) {
	step := sim.Step{Timestep: 3}
	out := Render(playback.Snapshot{Index: 3, Total: 4, Completed: true, Step: &step}, sim.PolicyHeuristic, 0)
	if !strings.Contains(out, "complete") {
		t.Errorf("expected complete status:\n%s", out)
	}
}
