package sim

import (
	"encoding/json"
	"fmt"
)

// Response is the decoded body of a successful simulation call.
//
// The bytes the backend sent are retained, so encoding a decoded Response
// reproduces the backend payload exactly, including fields this package does
// not model.
type Response struct {
	Trajectory []Step  `json:"trajectory"`
	Metrics    Metrics `json:"metrics"`

	raw json.RawMessage
}

// DecodeResponse decodes a backend response body.
func DecodeResponse(data []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode simulation response: %w", err)
	}
	return &resp, nil
}

// UnmarshalJSON decodes the typed view and keeps a copy of data.
func (r *Response) UnmarshalJSON(data []byte) error {
	type plain Response
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Response(p)
	r.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON returns the retained backend bytes when present.
func (r Response) MarshalJSON() ([]byte, error) {
	if len(r.raw) > 0 {
		return r.raw, nil
	}
	type plain Response
	return json.Marshal(plain(r))
}

// Raw returns the backend bytes this Response was decoded from, or nil when it
// was built in memory.
func (r *Response) Raw() json.RawMessage {
	return r.raw
}

// Len is the number of steps in the trajectory.
func (r *Response) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Trajectory)
}

// Final returns the last step of the trajectory.
func (r *Response) Final() (Step, bool) {
	if r.Len() == 0 {
		return Step{}, false
	}
	return r.Trajectory[len(r.Trajectory)-1], true
}
