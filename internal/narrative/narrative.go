package narrative

import "math"

// #region beats
// Beat is one discrete visual state of the landing narrative.
type Beat struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

var beats = []Beat{
	{Key: "calm", Title: "A normal day in a city of millions", Subtitle: "Delhi, India"},
	{Key: "initial_shock", Title: "Magnitude 7.0 earthquake strikes Delhi", Subtitle: "Thousands at risk"},
	{Key: "spread", Title: "Impact spreads unevenly across the city", Subtitle: "Multiple zones affected"},
	{Key: "escalation", Title: "Risk grows every minute without intervention", Subtitle: "Time is critical"},
	{Key: "decision_hint", Title: "How resources are deployed changes outcomes", Subtitle: "Different strategies yield different results"},
	{Key: "outcome_tease", Title: "Better decisions save lives", Subtitle: "See the difference quantitatively"},
	{Key: "cta", Title: "Compare AI vs Heuristic strategies", Subtitle: "On real city geography, with real constraints"},
}

// Beats returns the fixed narrative in scroll order.
func Beats() []Beat {
	out := make([]Beat, len(beats))
	copy(out, beats)
	return out
}

// #endregion beats

// #region section
// Section maps a scroll offset to a section index in [0, n-1]. Each section is
// one viewport tall; there are no intermediate states.
func Section(offset, viewport float64, n int) int {
	if n <= 0 || viewport <= 0 || offset <= 0 || math.IsNaN(offset) || math.IsNaN(viewport) {
		return 0
	}
	section := math.Floor(offset / viewport)
	if section >= float64(n-1) {
		return n - 1
	}
	return int(section)
}

// #endregion section

// #region selector
// Selector holds the beat currently shown and reports only real changes.
type Selector struct {
	beats   []Beat
	current int
}

// NewSelector starts at the first beat of the standard narrative.
func NewSelector() *Selector {
	return &Selector{beats: Beats()}
}

// Current returns the held beat and its index.
func (s *Selector) Current() (Beat, int) {
	return s.beats[s.current], s.current
}

// Observe feeds a scroll position. It returns the beat for that position and
// whether it differs from the previously held one.
func (s *Selector) Observe(offset, viewport float64) (Beat, bool) {
	idx := Section(offset, viewport, len(s.beats))
	if idx == s.current {
		return s.beats[idx], false
	}
	s.current = idx
	return s.beats[idx], true
}

// #endregion selector
