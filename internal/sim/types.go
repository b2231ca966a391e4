package sim

// #region policy
// PolicyType identifies the backend decision policy that produced a trajectory.
type PolicyType string

const (
	PolicyPPO       PolicyType = "ppo"
	PolicyHeuristic PolicyType = "heuristic"
)

// Counterpart returns the policy a run is compared against on the results view.
func (p PolicyType) Counterpart() PolicyType {
	if p == PolicyPPO {
		return PolicyHeuristic
	}
	return PolicyPPO
}

// Valid reports whether p is one of the policies the backend accepts.
func (p PolicyType) Valid() bool {
	return p == PolicyPPO || p == PolicyHeuristic
}

// #endregion policy

// #region request
// Scenario holds the scenario parameters sent to the backend.
type Scenario struct {
	MaxTimesteps int `json:"max_timesteps"`
}

// Request is the payload of POST /api/simulate.
type Request struct {
	Scenario   Scenario   `json:"scenario"`
	PolicyType PolicyType `json:"policy_type"`
	Seed       *int64     `json:"seed,omitempty"`
}

// WithPolicy returns a copy of r that asks for policy p. The seed pointer is
// shared, which is fine since requests are never mutated after construction.
func (r Request) WithPolicy(p PolicyType) Request {
	r.PolicyType = p
	return r
}

// #endregion request

// #region state
// State is the normalized world state at one timestep. Every field is in [0, 1].
type State struct {
	Hazard             float64 `json:"hazard"`
	Unsheltered        float64 `json:"unsheltered"`
	ShelterCapacity    float64 `json:"shelter_capacity"`
	Casualties         float64 `json:"casualties"`
	Congestion         float64 `json:"congestion"`
	EvacuationProgress float64 `json:"evacuation_progress"`
	TimeNormalized     float64 `json:"time_normalized"`
	Resources          float64 `json:"resources"`
	Communication      float64 `json:"communication"`
	Panic              float64 `json:"panic"`
}

// StateFields lists the JSON names of the State fields in display order.
var StateFields = []string{
	"hazard",
	"unsheltered",
	"shelter_capacity",
	"casualties",
	"congestion",
	"evacuation_progress",
	"time_normalized",
	"resources",
	"communication",
	"panic",
}

// #endregion state

// #region action
// ActionName is the fixed vocabulary of policy decisions.
type ActionName string

const (
	ActionDoNothing            ActionName = "do_nothing"
	ActionPrioritizeVulnerable ActionName = "prioritize_vulnerable"
	ActionDistributeEvenly     ActionName = "distribute_evenly"
	ActionFocusHighDensity     ActionName = "focus_high_density"
	ActionExpediteRoutes       ActionName = "expedite_routes"
)

// Action is the decision the external policy made at a timestep.
type Action struct {
	Type int        `json:"type"`
	Name ActionName `json:"name"`
}

// #endregion action

// #region step
// Step is one element of a trajectory.
type Step struct {
	Timestep int     `json:"timestep"`
	State    State   `json:"state"`
	Action   Action  `json:"action"`
	Reward   float64 `json:"reward"`
}

// Metrics summarizes a full trajectory. Computed by the backend only.
type Metrics struct {
	TotalReward    float64    `json:"total_reward"`
	VictimsRescued int        `json:"victims_rescued"`
	TimeSteps      int        `json:"time_steps"`
	SuccessRate    float64    `json:"success_rate"`
	PolicyType     PolicyType `json:"policy_type"`
}

// #endregion step
