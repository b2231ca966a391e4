package playback

import "github.com/danielpatrickdp/brainwave-viewer/internal/sim"

// #region snapshot
// Snapshot is what a consumer renders: the cursor plus the step it selects.
type Snapshot struct {
	Index     int       `json:"index"`
	Total     int       `json:"total"`
	Playing   bool      `json:"playing"`
	Completed bool      `json:"completed"`
	NoData    bool      `json:"no_data"`
	Step      *sim.Step `json:"step,omitempty"`
}

// #endregion snapshot

// #region controller
// Controller is the cursor state machine over a fixed trajectory.
//
// States are Stopped(i) and Playing(i), starting at Stopped(0). Every index
// change clamps to [0, len-1]. With an empty trajectory the controller stays
// Stopped and reports NoData.
type Controller struct {
	trajectory []sim.Step
	index      int
	playing    bool
	completed  bool
}

// NewController returns a controller at Stopped(0). The trajectory is read, never written.
func NewController(trajectory []sim.Step) *Controller {
	return &Controller{trajectory: trajectory}
}

// Len is the trajectory length.
func (c *Controller) Len() int { return len(c.trajectory) }

// Index is the cursor position.
func (c *Controller) Index() int { return c.index }

// Playing reports whether auto-advance is active.
func (c *Controller) Playing() bool { return c.playing }

// Completed reports whether auto-advance reached the last step since the last rewind.
func (c *Controller) Completed() bool { return c.completed }

// Empty reports the no-data condition.
func (c *Controller) Empty() bool { return len(c.trajectory) == 0 }

// Current returns the selected step; false when there is no data.
func (c *Controller) Current() (sim.Step, bool) {
	if c.Empty() {
		return sim.Step{}, false
	}
	return c.trajectory[c.index], true
}

// Snapshot captures the current cursor for rendering.
func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{
		Index:     c.index,
		Total:     len(c.trajectory),
		Playing:   c.playing,
		Completed: c.completed,
		NoData:    c.Empty(),
	}
	if step, ok := c.Current(); ok {
		s.Step = &step
	}
	return s
}

// Play enters Playing. At the last index the cursor rewinds to 0 first; a
// single-step trajectory therefore completes immediately. No-op without data.
func (c *Controller) Play() {
	if c.Empty() {
		return
	}
	if c.atEnd() {
		c.index = 0
	}
	c.completed = false
	c.playing = true
	if c.atEnd() {
		c.finish()
	}
}

// Pause enters Stopped at the current index.
func (c *Controller) Pause() {
	c.playing = false
}

// Reset rewinds to Stopped(0).
func (c *Controller) Reset() {
	c.playing = false
	c.completed = false
	c.index = 0
}

// StepForward stops and advances one step, clamped at the last index.
func (c *Controller) StepForward() {
	c.GoToStep(c.index + 1)
}

// StepBackward stops and moves back one step, clamped at 0.
func (c *Controller) StepBackward() {
	c.GoToStep(c.index - 1)
}

// GoToStep stops and moves the cursor to n clamped to the trajectory bounds.
func (c *Controller) GoToStep(n int) {
	c.playing = false
	if c.Empty() {
		return
	}
	c.completed = false
	c.index = clamp(n, 0, c.last())
}

// Tick applies one auto-advance. It returns true when the index changed.
// Landing on the last index stops playback and marks completion.
func (c *Controller) Tick() bool {
	if !c.playing || c.Empty() {
		return false
	}
	if c.atEnd() {
		c.finish()
		return false
	}
	c.index++
	if c.atEnd() {
		c.finish()
	}
	return true
}

func (c *Controller) finish() {
	c.playing = false
	c.completed = true
}

// last is only meaningful for non-empty trajectories.
func (c *Controller) last() int { return len(c.trajectory) - 1 }

func (c *Controller) atEnd() bool { return c.index >= c.last() }

// #endregion controller

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
