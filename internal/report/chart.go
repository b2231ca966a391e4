package report

import (
	"bytes"
	"errors"
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/danielpatrickdp/brainwave-viewer/internal/present"
	"github.com/danielpatrickdp/brainwave-viewer/internal/sim"
)

// ErrNoData is returned for charts of an empty trajectory.
var ErrNoData = errors.New("no simulation data")

// #region reward-chart
// RewardChart renders the cumulative reward of a trajectory as SVG.
func RewardChart(trajectory []sim.Step, policy sim.PolicyType) ([]byte, error) {
	if len(trajectory) == 0 {
		return nil, ErrNoData
	}
	ys := present.CumulativeRewards(trajectory)
	xs := make([]float64, len(trajectory))
	for i, step := range trajectory {
		xs[i] = float64(step.Timestep)
	}
	// a single point has no x range to draw
	if len(xs) == 1 {
		xs = append(xs, xs[0]+1)
		ys = append(ys, ys[0])
	}

	lo, hi := ys[0], ys[0]
	for _, y := range ys {
		lo, hi = min(lo, y), max(hi, y)
	}
	if lo == hi {
		lo, hi = lo-1, hi+1
	}

	ch := chart.Chart{
		Title:      "Cumulative Reward",
		Width:      720,
		Height:     280,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "Timestep"},
		YAxis:      chart.YAxis{Name: "Reward", Range: &chart.ContinuousRange{Min: lo, Max: hi}},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    present.PolicyLabel(policy),
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex(present.PolicyColor(policy)[1:]),
					StrokeWidth: 2,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render reward chart: %w", err)
	}
	return buf.Bytes(), nil
}

// #endregion reward-chart
