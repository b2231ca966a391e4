package present

import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/brainwave-viewer/internal/sim"
)

// #region relic
// Relic is a symbolic outcome shown on the results view. A relic whose inputs
// are missing stays hidden rather than showing a made-up value.
type Relic struct {
	Label       string
	Value       string
	Description string
	Visible     bool
}

// Relics derives the six results relics from the policy run and its baseline.
// Either argument may be nil.
func Relics(policy, baseline *sim.Response) []Relic {
	return []Relic{
		foresight(policy, baseline),
		stabilization(policy),
		resilience(policy),
		efficiency(policy),
		authority(policy),
		control(policy, baseline),
	}
}

func foresight(policy, baseline *sim.Response) Relic {
	r := Relic{Label: "FORESIGHT", Description: "Lives preserved relative to baseline."}
	if policy == nil || baseline == nil || baseline.Metrics.VictimsRescued == 0 {
		return r
	}
	pct := (float64(policy.Metrics.VictimsRescued)/float64(baseline.Metrics.VictimsRescued) - 1) * 100
	r.Value = fmt.Sprintf("%+d%%", int(math.Round(pct)))
	r.Visible = true
	return r
}

func stabilization(policy *sim.Response) Relic {
	r := Relic{Label: "STABILIZATION", Description: "Critical zones contained."}
	if policy == nil {
		return r
	}
	r.Value = fmt.Sprintf("%d CYCLES", policy.Metrics.TimeSteps)
	r.Visible = true
	return r
}

func resilience(policy *sim.Response) Relic {
	r := Relic{Label: "RESILIENCE", Description: "Lives preserved under load."}
	if policy == nil {
		return r
	}
	r.Value = fmt.Sprintf("%d%%", int(math.Round(policy.Metrics.SuccessRate*100)))
	r.Visible = true
	return r
}

func efficiency(policy *sim.Response) Relic {
	r := Relic{Label: "EFFICIENCY", Description: "Evacuation completion under constraint."}
	final, ok := policy.Final()
	if !ok {
		return r
	}
	r.Value = fmt.Sprintf("%d%%", int(math.Round(final.State.EvacuationProgress*100)))
	r.Visible = true
	return r
}

func authority(policy *sim.Response) Relic {
	r := Relic{Label: "AUTHORITY", Description: "Cumulative system confidence."}
	if policy == nil {
		return r
	}
	r.Value = fmt.Sprintf("%d", int(math.Round(policy.Metrics.TotalReward)))
	r.Visible = true
	return r
}

func control(policy, baseline *sim.Response) Relic {
	r := Relic{Label: "CONTROL", Description: "Systemic failure prevented."}
	if policy == nil || baseline == nil {
		return r
	}
	r.Value = fmt.Sprintf("%+d", policy.Metrics.VictimsRescued-baseline.Metrics.VictimsRescued)
	r.Visible = true
	return r
}

// #endregion relic

// #region improvement
// Improvement formats the relative change from baseline to value, e.g. "+12.5%".
// A zero baseline has no meaningful ratio and yields "N/A".
func Improvement(value, baseline float64) string {
	if baseline == 0 {
		return "N/A"
	}
	pct := (value - baseline) / baseline * 100
	if pct > 0 {
		return fmt.Sprintf("+%.1f%%", pct)
	}
	return fmt.Sprintf("%.1f%%", pct)
}

// #endregion improvement
