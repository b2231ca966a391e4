package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/danielpatrickdp/brainwave-viewer/internal/sim"
)

func sampleData() Data {
	seed := int64(42)
	return Data{
		Request: sim.Request{Scenario: sim.Scenario{MaxTimesteps: 50}, PolicyType: sim.PolicyPPO, Seed: &seed},
		PPO: &sim.Response{
			Trajectory: []sim.Step{
				{Timestep: 0, Action: sim.Action{Type: 1, Name: sim.ActionExpediteRoutes}, Reward: 1.5},
				{Timestep: 1, Action: sim.Action{Type: 1, Name: sim.ActionExpediteRoutes}, Reward: 2},
				{Timestep: 2, Action: sim.Action{Type: 0, Name: sim.ActionDoNothing}, Reward: -0.5},
			},
			Metrics: sim.Metrics{TotalReward: 160, VictimsRescued: 640, TimeSteps: 48, SuccessRate: 0.64, PolicyType: sim.PolicyPPO},
		},
		Heuristic: &sim.Response{
			Trajectory: []sim.Step{{Timestep: 0, Action: sim.Action{Name: sim.ActionDoNothing}}},
			Metrics:    sim.Metrics{TotalReward: 80, VictimsRescued: 512, TimeSteps: 50, SuccessRate: 0.512, PolicyType: sim.PolicyHeuristic},
		},
		GeneratedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestGenerate(t *testing.T) {
	md, err := Generate(sampleData())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, want := range []string{
		"# Disaster Response Simulation Report",
		"**Generated:** 2026-03-14",
		"- **Max Timesteps:** 50",
		"- **Seed:** 42 (reproducible)",
		"## PPO (AI Agent) Results",
		"## Heuristic (Baseline) Results",
		"| **Victims Rescued** | 640 / 1000 |",
		"| **Success Rate** | 51.20% |",
		"| Victims Rescued | 640 | 512 | +25.0% |",
		"| Total Reward | 160.00 | 80.00 | +100.0% |",
		"(+128 people)",
		"- Expedite Routes: 2",
		"- Do Nothing: 1",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestGenerateRandomSeedAndZeroBaseline(t *testing.T) {
	d := sampleData()
	d.Request.Seed = nil
	d.Heuristic.Metrics = sim.Metrics{PolicyType: sim.PolicyHeuristic}
	md, err := Generate(d)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(md, "- **Seed:** Random") {
		t.Error("expected random seed line")
	}
	if !strings.Contains(md, "| Victims Rescued | 640 | 0 | N/A |") {
		t.Error("expected N/A improvement against a zero baseline")
	}
}

func TestGenerateIncomplete(t *testing.T) {
	d := sampleData()
	d.Heuristic = nil
	if _, err := Generate(d); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}
}

func TestFilename(t *testing.T) {
	got := Filename(time.Date(2026, 3, 14, 9, 30, 5, 0, time.UTC))
	if got != "disaster_simulation_report_2026-03-14T09-30-05.md" {
		t.Errorf("Filename = %q", got)
	}
}

func TestRewardChart(t *testing.T) {
	svg, err := RewardChart(sampleData().PPO.Trajectory, sim.PolicyPPO)
	if err != nil {
		t.Fatalf("RewardChart: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Errorf("expected svg output, got %.60q", svg)
	}
}

func TestRewardChartEdgeCases(t *testing.T) {
	if _, err := RewardChart(nil, sim.PolicyPPO); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
	single := []sim.Step{{Timestep: 0, Reward: 3}}
	if _, err := RewardChart(single, sim.PolicyHeuristic); err != nil {
		t.Errorf("single step: %v", err)
	}
	flat := []sim.Step{{Timestep: 0}, {Timestep: 1}, {Timestep: 2}}
	if _, err := RewardChart(flat, sim.PolicyHeuristic); err != nil {
		t.Errorf("flat series: %v", err)
	}
}
