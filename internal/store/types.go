package store

import (
	"errors"
	"time"

	"github.com/danielpatrickdp/brainwave-viewer/internal/sim"
)

// ErrRunNotFound is returned when a run ID has no stored handoff.
var ErrRunNotFound = errors.New("run not found")

// #region run
// Run is one fetched simulation handed from the setup view to the views after it.
type Run struct {
	ID            string
	Request       sim.Request
	Response      *sim.Response
	CounterpartID string
	CreatedAt     time.Time
}

// Policy is the policy the run was requested with.
func (r Run) Policy() sim.PolicyType {
	return r.Request.PolicyType
}

// #endregion run

// #region run-summary
// RunSummary is the listing view of a run, without its trajectory.
type RunSummary struct {
	ID            string         `db:"run_id"`
	PolicyType    sim.PolicyType `db:"policy_type"`
	MaxTimesteps  int            `db:"max_timesteps"`
	Steps         int            `db:"steps"`
	CounterpartID string         `db:"counterpart_id"`
	CreatedAt     string         `db:"created_at"`
}

// #endregion run-summary
