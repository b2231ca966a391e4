package playback

import (
	"sync"
	"time"

	"github.com/danielpatrickdp/brainwave-viewer/internal/sim"
)

// #region cadence
const (
	// DashboardCadence is the step delay of the plain dashboard replay.
	DashboardCadence = 500 * time.Millisecond
	// CinematicCadence is the slower step delay of the map replay.
	CinematicCadence = 1200 * time.Millisecond
)

// #endregion cadence

// #region scheduler
// Timer is a pending scheduled callback.
type Timer interface {
	Stop() bool
}

// Scheduler is the player's tick source.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type clockScheduler struct{}

func (clockScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ClockScheduler schedules ticks on the runtime timer.
var ClockScheduler Scheduler = clockScheduler{}

// #endregion scheduler

// #region player
// Options configures a Player.
type Options struct {
	Cadence   time.Duration
	Scheduler Scheduler
	// OnChange receives a snapshot after every transition. It runs with the
	// player locked and must not call back into the player.
	OnChange func(Snapshot)
}

// Player drives a Controller on a fixed cadence.
//
// At most one tick is pending at a time. Every transition invalidates the
// pending tick before re-arming, so a tick scheduled before a manual seek can
// never overwrite it. After Close nothing is scheduled and no snapshot is
// delivered.
type Player struct {
	mu       sync.Mutex
	ctl      *Controller
	cadence  time.Duration
	sched    Scheduler
	onChange func(Snapshot)

	timer  Timer
	gen    uint64
	closed bool
}

// NewPlayer returns a stopped player at index 0.
func NewPlayer(trajectory []sim.Step, opts Options) *Player {
	if opts.Cadence <= 0 {
		opts.Cadence = DashboardCadence
	}
	if opts.Scheduler == nil {
		opts.Scheduler = ClockScheduler
	}
	return &Player{
		ctl:      NewController(trajectory),
		cadence:  opts.Cadence,
		sched:    opts.Scheduler,
		onChange: opts.OnChange,
	}
}

// Cadence is the delay between automatic advances.
func (p *Player) Cadence() time.Duration { return p.cadence }

// Snapshot returns the current cursor.
func (p *Player) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ctl.Snapshot()
}

// Play starts auto-advance, rewinding first when the cursor is at the end.
func (p *Player) Play() { p.apply((*Controller).Play) }

// Pause stops auto-advance at the current index.
func (p *Player) Pause() { p.apply((*Controller).Pause) }

// Reset stops and rewinds to index 0.
func (p *Player) Reset() { p.apply((*Controller).Reset) }

// StepForward stops playback and moves one step ahead, clamped to the last step.
func (p *Player) StepForward() { p.apply((*Controller).StepForward) }

// StepBackward stops playback and moves one step back, clamped to the first step.
func (p *Player) StepBackward() { p.apply((*Controller).StepBackward) }

// GoToStep stops and seeks to n, clamped.
func (p *Player) GoToStep(n int) { p.apply(func(c *Controller) { c.GoToStep(n) }) }

// Toggle pauses a playing cursor and plays a stopped one.
func (p *Player) Toggle() { p.apply(toggle) }

func toggle(c *Controller) {
	if c.Playing() {
		c.Pause()
		return
	}
	c.Play()
}

// PlayAfter starts playback once delay has elapsed. Any transition in the
// meantime cancels the pending start.
func (p *Player) PlayAfter(delay time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	gen := p.cancelLocked()
	p.timer = p.sched.AfterFunc(delay, func() {
		p.fire(gen, (*Controller).Play)
	})
}

// Close cancels the pending tick and detaches the consumer. Idempotent.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.cancelLocked()
	p.onChange = nil
}

func (p *Player) apply(op func(*Controller)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	op(p.ctl)
	p.rearmLocked()
	p.emitLocked()
}

func (p *Player) tick(gen uint64) {
	p.fire(gen, func(c *Controller) { c.Tick() })
}

// fire runs a scheduled transition unless it went stale.
func (p *Player) fire(gen uint64, op func(*Controller)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || gen != p.gen {
		return
	}
	p.timer = nil
	op(p.ctl)
	p.rearmLocked()
	p.emitLocked()
}

// cancelLocked stops the pending timer and invalidates any callback already in flight.
func (p *Player) cancelLocked() uint64 {
	p.gen++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	return p.gen
}

func (p *Player) rearmLocked() {
	gen := p.cancelLocked()
	if !p.ctl.Playing() {
		return
	}
	p.timer = p.sched.AfterFunc(p.cadence, func() { p.tick(gen) })
}

func (p *Player) emitLocked() {
	if p.onChange != nil {
		p.onChange(p.ctl.Snapshot())
	}
}

// #endregion player
