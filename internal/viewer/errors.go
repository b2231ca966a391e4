package viewer

import (
	"fmt"

	"github.com/danielpatrickdp/brainwave-viewer/internal/store"
)

// MissingDataError is returned when a view is opened without a stored
// simulation handoff. Views render it as "no data" guidance.
type MissingDataError struct {
	RunID string
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("no simulation data for run %q", e.RunID)
}

func (e *MissingDataError) Unwrap() error {
	return store.ErrRunNotFound
}
