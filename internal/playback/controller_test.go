package playback

import (
	"testing"

	"github.com/danielpatrickdp/brainwave-viewer/internal/sim"
)

func makeTrajectory(n int) []sim.Step {
	steps := make([]sim.Step, n)
	for i := range steps {
		steps[i] = sim.Step{
			Timestep: i,
			State:    sim.State{Hazard: 1 - float64(i)/float64(n)},
			Action:   sim.Action{Type: i % 5, Name: sim.ActionDistributeEvenly},
			Reward:   float64(i),
		}
	}
	return steps
}

func TestStepForwardClampsAtEnd(t *testing.T) {
	for _, length := range []int{1, 2, 7, 50} {
		c := NewController(makeTrajectory(length))
		for i := 0; i < length+5; i++ {
			c.StepForward()
		}
		if c.Index() != length-1 {
			t.Errorf("L=%d: expected index %d, got %d", length, length-1, c.Index())
		}
		if c.Playing() {
			t.Errorf("L=%d: StepForward must stop playback", length)
		}
	}
}

func TestStepBackwardNeverNegative(t *testing.T) {
	for _, length := range []int{0, 1, 3, 20} {
		starts := []int{0, length / 2, length - 1}
		for _, start := range starts {
			c := NewController(makeTrajectory(length))
			c.GoToStep(start)
			for i := 0; i < length+3; i++ {
				c.StepBackward()
				if c.Index() < 0 {
					t.Fatalf("L=%d start=%d: negative index %d", length, start, c.Index())
				}
			}
			if c.Index() != 0 {
				t.Errorf("L=%d start=%d: expected 0, got %d", length, start, c.Index())
			}
		}
	}
}

func TestGoToStepIdempotentAndClamped(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{-10, 0},
		{0, 0},
		{4, 4},
		{9, 9},
		{42, 9},
	}
	for _, tt := range tests {
		once := NewController(makeTrajectory(10))
		once.GoToStep(tt.n)

		twice := NewController(makeTrajectory(10))
		twice.GoToStep(tt.n)
		twice.GoToStep(tt.n)

		if once.Index() != tt.want {
			t.Errorf("GoToStep(%d) = %d, want %d", tt.n, once.Index(), tt.want)
		}
		if once.Index() != twice.Index() {
			t.Errorf("GoToStep(%d) not idempotent: %d vs %d", tt.n, once.Index(), twice.Index())
		}
	}
}

func TestPlayAtEndRewindsImmediately(t *testing.T) {
	c := NewController(makeTrajectory(5))
	c.GoToStep(4)
	c.Play()
	if c.Index() != 0 {
		t.Fatalf("expected rewind to 0 before any tick, got %d", c.Index())
	}
	if !c.Playing() {
		t.Fatal("expected Playing after Play")
	}
}

func TestTickStopsAtLastIndex(t *testing.T) {
	c := NewController(makeTrajectory(3))
	c.Play()

	if !c.Tick() || c.Index() != 1 || !c.Playing() {
		t.Fatalf("first tick: index=%d playing=%v", c.Index(), c.Playing())
	}
	if !c.Tick() || c.Index() != 2 {
		t.Fatalf("second tick: index=%d", c.Index())
	}
	if c.Playing() || !c.Completed() {
		t.Fatalf("expected Stopped+completed at last index, playing=%v completed=%v", c.Playing(), c.Completed())
	}
	for i := 0; i < 5; i++ {
		if c.Tick() {
			t.Fatal("tick after completion must not change the index")
		}
	}
	if c.Index() != 2 {
		t.Fatalf("expected index to stay at 2, got %d", c.Index())
	}
}

func TestSingleStepTrajectory(t *testing.T) {
	c := NewController(makeTrajectory(1))
	c.Play()
	if c.Index() != 0 {
		t.Fatalf("expected index 0, got %d", c.Index())
	}
	if c.Playing() {
		t.Fatal("single-step trajectory should complete immediately")
	}
	if !c.Completed() {
		t.Fatal("expected completion to be reported")
	}
	step, ok := c.Current()
	if !ok || step.Timestep != 0 {
		t.Fatalf("expected step 0, got %+v (ok=%v)", step, ok)
	}
}

func TestEmptyTrajectory(t *testing.T) {
	c := NewController(nil)
	c.Play()
	if c.Playing() {
		t.Fatal("Play on empty trajectory must be a no-op")
	}
	c.StepForward()
	c.StepBackward()
	c.GoToStep(3)
	if c.Tick() {
		t.Fatal("Tick on empty trajectory must not advance")
	}

	snap := c.Snapshot()
	if !snap.NoData {
		t.Fatal("expected NoData")
	}
	if snap.Index != 0 || snap.Total != 0 || snap.Step != nil {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if _, ok := c.Current(); ok {
		t.Fatal("Current must report no step")
	}
}

func TestResetAndPause(t *testing.T) {
	c := NewController(makeTrajectory(4))
	c.Play()
	c.Tick()
	c.Pause()
	if c.Playing() || c.Index() != 1 {
		t.Fatalf("Pause: playing=%v index=%d", c.Playing(), c.Index())
	}
	c.Reset()
	if c.Playing() || c.Index() != 0 || c.Completed() {
		t.Fatalf("Reset: %+v", c.Snapshot())
	}
}

func TestSnapshotCarriesStep(t *testing.T) {
	c := NewController(makeTrajectory(4))
	c.GoToStep(2)
	snap := c.Snapshot()
	if snap.Step == nil || snap.Step.Timestep != 2 {
		t.Fatalf("expected step 2 in snapshot, got %+v", snap.Step)
	}
	if snap.Total != 4 {
		t.Fatalf("expected total 4, got %d", snap.Total)
	}
}
