package contract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/danielpatrickdp/brainwave-viewer/internal/sim"
)

// #region violation
// Violation lists the contract fields missing from a backend payload.
type Violation struct {
	Missing []string
}

func (v *Violation) Error() string {
	return "backend payload missing " + strings.Join(v.Missing, ", ")
}

// #endregion violation

// #region check
var (
	stepFields    = []string{"timestep", "state", "action", "reward"}
	actionFields  = []string{"type", "name"}
	metricsFields = []string{"total_reward", "victims_rescued", "time_steps", "success_rate", "policy_type"}
)

// Check verifies that raw carries every field of the canonical response
// contract. It checks presence only; values are never judged. An empty
// trajectory passes: views render it as "no data".
func Check(raw []byte) error {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return fmt.Errorf("contract: payload is not a JSON object: %w", err)
	}

	var missing []string
	var steps []map[string]json.RawMessage
	if t, ok := top["trajectory"]; !ok {
		missing = append(missing, "trajectory")
	} else if err := json.Unmarshal(t, &steps); err != nil {
		missing = append(missing, "trajectory[]")
	}

	for i, step := range steps {
		prefix := fmt.Sprintf("trajectory[%d]", i)
		missing = appendMissing(missing, prefix, step, stepFields)
		missing = appendMissing(missing, prefix+".state", object(step["state"]), sim.StateFields)
		missing = appendMissing(missing, prefix+".action", object(step["action"]), actionFields)
		if len(missing) > 0 {
			// one broken step is enough to describe the problem
			break
		}
	}

	if m, ok := top["metrics"]; !ok {
		missing = append(missing, "metrics")
	} else {
		missing = appendMissing(missing, "metrics", object(m), metricsFields)
	}

	if len(missing) > 0 {
		return &Violation{Missing: missing}
	}
	return nil
}

func object(raw json.RawMessage) map[string]json.RawMessage {
	var m map[string]json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &m) != nil {
		return map[string]json.RawMessage{}
	}
	return m
}

func appendMissing(missing []string, prefix string, obj map[string]json.RawMessage, fields []string) []string {
	for _, f := range fields {
		if _, ok := obj[f]; !ok {
			missing = append(missing, prefix+"."+f)
		}
	}
	return missing
}

// #endregion check

// #region schema
// ResponseSchema reflects the JSON Schema of the simulate response.
func ResponseSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(new(sim.Response))
	schema.Title = "Simulation Response"
	schema.Description = "Trajectory and metrics returned by POST /api/simulate"
	return schema
}

// RequestSchema reflects the JSON Schema of the simulate request.
func RequestSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{}
	schema := reflector.Reflect(new(sim.Request))
	schema.Title = "Simulation Request"
	schema.Description = "Scenario parameters sent to POST /api/simulate"
	return schema
}

// #endregion schema
