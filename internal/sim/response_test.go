package sim

import (
	"encoding/json"
	"reflect"
	"testing"
)

const sampleBody = `{
	"trajectory": [
		{"timestep": 0, "state": {"hazard": 0.8, "unsheltered": 0.9}, "action": {"type": 1, "name": "prioritize_vulnerable"}, "reward": 1.25},
		{"timestep": 1, "state": {"hazard": 0.7, "unsheltered": 0.6}, "action": {"type": 4, "name": "expedite_routes"}, "reward": -0.5}
	],
	"metrics": {"total_reward": 0.75, "victims_rescued": 412, "time_steps": 2, "success_rate": 0.41, "policy_type": "ppo"},
	"backend_version": "2.3.1"
}`

func TestDecodeResponse_TypedView(t *testing.T) {
	resp, err := DecodeResponse([]byte(sampleBody))
	if err != nil {
		t.Fatalf("DecodeResponse: %v", err)
	}
	if resp.Len() != 2 {
		t.Fatalf("expected 2 steps, got %d", resp.Len())
	}
	if resp.Trajectory[1].Action.Name != ActionExpediteRoutes {
		t.Errorf("expected expedite_routes, got %s", resp.Trajectory[1].Action.Name)
	}
	if resp.Metrics.VictimsRescued != 412 {
		t.Errorf("expected 412 rescued, got %d", resp.Metrics.VictimsRescued)
	}
	final, ok := resp.Final()
	if !ok || final.Timestep != 1 {
		t.Errorf("expected final timestep 1, got %d (ok=%v)", final.Timestep, ok)
	}
}

func TestResponse_ReencodesBackendBytes(t *testing.T) {
	resp, err := DecodeResponse([]byte(sampleBody))
	if err != nil {
		t.Fatalf("DecodeResponse: %v", err)
	}
	out, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var want, got map[string]any
	if err := json.Unmarshal([]byte(sampleBody), &want); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Errorf("re-encoded payload differs:\nwant %v\ngot  %v", want, got)
	}
	if _, ok := got["backend_version"]; !ok {
		t.Error("unmodelled field was dropped")
	}
}

func TestResponse_InMemoryEncoding(t *testing.T) {
	resp := Response{Metrics: Metrics{PolicyType: PolicyHeuristic}}
	out, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatal(err)
	}
	metrics, ok := got["metrics"].(map[string]any)
	if !ok || metrics["policy_type"] != "heuristic" {
		t.Errorf("unexpected encoding: %s", out)
	}
}

func TestEmptyResponse(t *testing.T) {
	var resp *Response
	if resp.Len() != 0 {
		t.Fatal("nil response should have zero length")
	}
	if _, ok := resp.Final(); ok {
		t.Fatal("nil response has no final step")
	}
}

func TestPolicyCounterpart(t *testing.T) {
	if PolicyPPO.Counterpart() != PolicyHeuristic {
		t.Error("ppo counterpart should be heuristic")
	}
	if PolicyHeuristic.Counterpart() != PolicyPPO {
		t.Error("heuristic counterpart should be ppo")
	}
	if PolicyType("random").Valid() {
		t.Error("unknown policy reported valid")
	}
}
