package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/brainwave-viewer/internal/contract"
	"github.com/danielpatrickdp/brainwave-viewer/internal/sim"
)

// #region fixture-types

// Fixture is a saved simulation run plus the playback it is expected to produce.
type Fixture struct {
	Description string          `json:"description"`
	Request     sim.Request     `json:"request"`
	Response    json.RawMessage `json:"response"`
	Commands    []Command       `json:"commands"`
	Expected    FixtureExpected `json:"expected"`
}

// FixtureExpected captures the end state of a replay.
type FixtureExpected struct {
	Frames     int  `json:"frames"`
	FinalIndex int  `json:"final_index"`
	Completed  bool `json:"completed"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads a fixture file and decodes its response. The response
// must satisfy the backend contract.
func LoadFixture(path string) (*Fixture, *sim.Response, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	resp, err := DecodeRun(f.Response)
	if err != nil {
		return nil, nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	return &f, resp, nil
}

// DecodeRun decodes a saved backend response after a contract check.
func DecodeRun(raw []byte) (*sim.Response, error) {
	if err := contract.Check(raw); err != nil {
		return nil, err
	}
	return sim.DecodeResponse(raw)
}

// #endregion fixture-loader
