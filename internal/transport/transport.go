package transport

import (
	"context"
	"fmt"

	"github.com/danielpatrickdp/brainwave-viewer/internal/sim"
)

// #region simulator
// Simulator performs one simulation call against the backend. Responses
// should come from sim.DecodeResponse so they carry the backend bytes;
// in-memory responses are accepted and re-encoded where bytes are needed.
type Simulator interface {
	RunSimulation(ctx context.Context, req sim.Request) (*sim.Response, error)
}

// #endregion simulator

// #region errors
// TransportError reports a failed backend call: either the call could not
// complete (Err set) or the backend answered with a non-success status (Body
// holds the raw response text).
type TransportError struct {
	Op     string
	Status int
	Body   string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("simulation failed: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("simulation failed: %s: status %d: %s", e.Op, e.Status, e.Body)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// #endregion errors
