package logging

import "time"

// Outcomes of a backend call.
const (
	OutcomeOK                = "ok"
	OutcomeTransportError    = "transport_error"
	OutcomeContractViolation = "contract_violation"
)

// #region call-entry
// CallEntry is a single row in the call_log table: one backend simulation call.
type CallEntry struct {
	RunID      string        `json:"run_id,omitempty"`
	PolicyType string        `json:"policy_type"`
	Transport  string        `json:"transport"` // "http" | "grpc"
	Outcome    string        `json:"outcome"`
	Status     int           `json:"status,omitempty"`
	Duration   time.Duration `json:"duration"`
	Error      string        `json:"error,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

// #endregion call-entry
