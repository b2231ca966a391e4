package replay

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/danielpatrickdp/brainwave-viewer/internal/contract"
	"github.com/danielpatrickdp/brainwave-viewer/internal/sim"
)

// #region fixture-tests

// TestFixture_SampleRun replays the sample fixture and compares the end state
// with the expected one.
func TestFixture_SampleRun(t *testing.T) {
	f, resp, err := LoadFixture(filepath.Join("testdata", "sample_run.json"))
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	if f.Request.PolicyType != sim.PolicyPPO || resp.Len() != 4 {
		t.Fatalf("unexpected fixture: %+v, %d steps", f.Request, resp.Len())
	}

	s := Summarize(Replay(resp.Trajectory, f.Commands))
	if s.Frames != f.Expected.Frames {
		t.Errorf("frames = %d, want %d", s.Frames, f.Expected.Frames)
	}
	if s.FinalIndex != f.Expected.FinalIndex || s.Completed != f.Expected.Completed {
		t.Errorf("summary = %+v, want %+v", s, f.Expected)
	}
	if s.TotalReward != resp.Metrics.TotalReward {
		t.Errorf("total reward = %v, metrics say %v", s.TotalReward, resp.Metrics.TotalReward)
	}
}

func TestLoadFixture_ContractViolation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	os.WriteFile(path, []byte(`{"response": {"trajectory": []}}`), 0o644)

	_, _, err := LoadFixture(path)
	var v *contract.Violation
	if !errors.As(err, &v) {
		t.Fatalf("expected contract violation, got %v", err)
	}
}

func TestLoadFixture_Missing(t *testing.T) {
	if _, _, err := LoadFixture(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

// #endregion fixture-tests
