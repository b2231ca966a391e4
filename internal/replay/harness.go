package replay

import (
	"github.com/danielpatrickdp/brainwave-viewer/internal/playback"
	"github.com/danielpatrickdp/brainwave-viewer/internal/present"
	"github.com/danielpatrickdp/brainwave-viewer/internal/sim"
)

// #region types
// Command is a scripted playback operation applied before frame AtFrame is
// recorded.
type Command struct {
	AtFrame int    `json:"at_frame"`
	Op      string `json:"op"` // play | pause | reset | forward | backward | seek
	Step    int    `json:"step,omitempty"`
}

// Frame is what a viewer would show after one transition.
type Frame struct {
	Index      int
	Timestep   int
	Action     sim.ActionName
	Reward     float64
	Cumulative float64
	Playing    bool
	Completed  bool
}

// ReplaySummary provides aggregate stats from a replay run.
type ReplaySummary struct {
	Frames     int
	FinalIndex int
	Completed  bool
	// TotalReward is the cumulative reward at the final index.
	TotalReward float64
}

// #endregion types

// #region replay
// Replay plays trajectory headlessly: it presses Play, applies the scripted
// commands and records one frame per tick until playback stops with no
// commands left. It runs the same controller the views use, without a clock.
func Replay(trajectory []sim.Step, commands []Command) []Frame {
	ctl := playback.NewController(trajectory)
	if ctl.Empty() {
		return nil
	}
	rewards := present.CumulativeRewards(trajectory)
	ctl.Play()

	var frames []Frame
	pending := commands
	// every tick moves at most one step, so this bounds any scripted session
	limit := (len(trajectory) + 1) * (len(commands) + 2)
	for n := 0; n < limit; n++ {
		for len(pending) > 0 && pending[0].AtFrame <= n {
			apply(ctl, pending[0])
			pending = pending[1:]
		}
		frames = append(frames, frame(ctl, rewards))
		if !ctl.Playing() {
			if len(pending) == 0 {
				break
			}
			continue
		}
		ctl.Tick()
	}
	return frames
}

func apply(ctl *playback.Controller, cmd Command) {
	switch cmd.Op {
	case "play":
		ctl.Play()
	case "pause":
		ctl.Pause()
	case "reset":
		ctl.Reset()
	case "forward":
		ctl.StepForward()
	case "backward":
		ctl.StepBackward()
	case "seek":
		ctl.GoToStep(cmd.Step)
	}
}

func frame(ctl *playback.Controller, rewards []float64) Frame {
	step, _ := ctl.Current()
	return Frame{
		Index:      ctl.Index(),
		Timestep:   step.Timestep,
		Action:     step.Action.Name,
		Reward:     step.Reward,
		Cumulative: rewards[ctl.Index()],
		Playing:    ctl.Playing(),
		Completed:  ctl.Completed(),
	}
}

// #endregion replay

// #region summary
// Summarize aggregates replay frames.
func Summarize(frames []Frame) ReplaySummary {
	if len(frames) == 0 {
		return ReplaySummary{}
	}
	last := frames[len(frames)-1]
	return ReplaySummary{
		Frames:      len(frames),
		FinalIndex:  last.Index,
		Completed:   last.Completed,
		TotalReward: last.Cumulative,
	}
}

// #endregion summary
