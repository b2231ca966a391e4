// Package viewer coordinates the backend transport, the run handoff store and
// the call audit log behind the web views.
package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/danielpatrickdp/brainwave-viewer/internal/contract"
	"github.com/danielpatrickdp/brainwave-viewer/internal/logging"
	"github.com/danielpatrickdp/brainwave-viewer/internal/report"
	"github.com/danielpatrickdp/brainwave-viewer/internal/sim"
	"github.com/danielpatrickdp/brainwave-viewer/internal/store"
	"github.com/danielpatrickdp/brainwave-viewer/internal/transport"
)

// #region service
// Options configures a Service. Zero values are usable.
type Options struct {
	// Transport names the backend transport in the call log ("http" or "grpc").
	Transport string
	// Timeout bounds a single backend call. Zero means no extra bound.
	Timeout time.Duration
	Logger  *log.Logger
}

// Service runs simulations and hands their results to the views.
type Service struct {
	sim       transport.Simulator
	store     *store.Store
	transport string
	timeout   time.Duration
	logger    *log.Logger

	runs     singleflight.Group
	compares singleflight.Group
}

// NewService wires a simulator and a store.
func NewService(simulator transport.Simulator, st *store.Store, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		sim:       simulator,
		store:     st,
		transport: opts.Transport,
		timeout:   opts.Timeout,
		logger:    logger,
	}
}

// #endregion service

// #region run
// Run performs one backend call for req and stores the result. Concurrent
// calls with an identical request share the in-flight call. The shared call
// is detached from any single caller: a caller whose ctx ends stops waiting,
// the call itself runs on under the service timeout.
func (s *Service) Run(ctx context.Context, req sim.Request) (store.Run, error) {
	if !req.PolicyType.Valid() {
		return store.Run{}, fmt.Errorf("unknown policy %q", req.PolicyType)
	}
	key, err := json.Marshal(req)
	if err != nil {
		return store.Run{}, fmt.Errorf("encode request key: %w", err)
	}
	detached := context.WithoutCancel(ctx)
	ch := s.runs.DoChan(string(key), func() (any, error) {
		return s.fetch(detached, req)
	})
	select {
	case <-ctx.Done():
		return store.Run{}, ctx.Err()
	case res := <-ch:
		if res.Shared {
			s.logger.Printf("[viewer] submission joined in-flight %s call", req.PolicyType)
		}
		if res.Err != nil {
			return store.Run{}, res.Err
		}
		return res.Val.(store.Run), nil
	}
}

func (s *Service) fetch(ctx context.Context, req sim.Request) (store.Run, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	entry := logging.CallEntry{PolicyType: string(req.PolicyType), Transport: s.transport}
	start := time.Now()
	resp, err := s.sim.RunSimulation(ctx, req)
	entry.Duration = time.Since(start)

	if err != nil {
		entry.Outcome = logging.OutcomeTransportError
		entry.Error = err.Error()
		var te *transport.TransportError
		if errors.As(err, &te) {
			entry.Status = te.Status
		}
		s.audit(entry)
		s.logger.Printf("[viewer] %s simulation failed: %v", req.PolicyType, err)
		return store.Run{}, err
	}

	raw := resp.Raw()
	if raw == nil {
		// built in memory rather than decoded; check its encoding instead
		if raw, err = json.Marshal(resp); err != nil {
			return store.Run{}, fmt.Errorf("encode response: %w", err)
		}
	}
	if err := contract.Check(raw); err != nil {
		entry.Outcome = logging.OutcomeContractViolation
		entry.Error = err.Error()
		s.audit(entry)
		s.logger.Printf("[viewer] %s simulation rejected: %v", req.PolicyType, err)
		return store.Run{}, err
	}

	run, err := s.store.SaveRun(req, resp)
	if err != nil {
		return store.Run{}, err
	}
	entry.RunID = run.ID
	entry.Outcome = logging.OutcomeOK
	s.audit(entry)
	s.logger.Printf("[viewer] run %s: %s, %d steps in %s", run.ID, req.PolicyType, resp.Len(), entry.Duration.Round(time.Millisecond))
	return run, nil
}

// audit failures are logged, never surfaced to the view.
func (s *Service) audit(entry logging.CallEntry) {
	if err := logging.LogCall(s.store.DB(), entry); err != nil {
		s.logger.Printf("[viewer] audit: %v", err)
	}
}

// #endregion run

// #region get
// Get returns the stored run, or *MissingDataError when there is none.
func (s *Service) Get(id string) (store.Run, error) {
	run, err := s.store.GetRun(id)
	if errors.Is(err, store.ErrRunNotFound) {
		return store.Run{}, &MissingDataError{RunID: id}
	}
	return run, err
}

// #endregion get

// #region compare
// Pair is a PPO run and the heuristic baseline for the same scenario and seed.
type Pair struct {
	PPO       store.Run
	Heuristic store.Run
}

// Policy returns the side of the pair that ran policy p.
func (p Pair) Policy(policy sim.PolicyType) store.Run {
	if policy == sim.PolicyPPO {
		return p.PPO
	}
	return p.Heuristic
}

// Compare returns the pair for run id. The counterpart policy is fetched on
// the first call and linked, so later calls do not reach the backend. Like
// Run, the shared fetch outlives a caller that stops waiting.
func (s *Service) Compare(ctx context.Context, id string) (Pair, error) {
	detached := context.WithoutCancel(ctx)
	ch := s.compares.DoChan(id, func() (any, error) {
		return s.compare(detached, id)
	})
	select {
	case <-ctx.Done():
		return Pair{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Pair{}, res.Err
		}
		return res.Val.(Pair), nil
	}
}

func (s *Service) compare(ctx context.Context, id string) (Pair, error) {
	run, err := s.Get(id)
	if err != nil {
		return Pair{}, err
	}

	var other store.Run
	if run.CounterpartID != "" {
		other, err = s.Get(run.CounterpartID)
	} else {
		other, err = s.Run(ctx, run.Request.WithPolicy(run.Policy().Counterpart()))
		if err == nil {
			err = s.store.LinkCounterparts(run.ID, other.ID)
		}
	}
	if err != nil {
		return Pair{}, err
	}

	if run.Policy() == sim.PolicyPPO {
		return Pair{PPO: run, Heuristic: other}, nil
	}
	return Pair{PPO: other, Heuristic: run}, nil
}

// #endregion compare

// #region report
// Report renders the Markdown report for the pair containing run id and the
// name it downloads under.
func (s *Service) Report(ctx context.Context, id string, now time.Time) (name, body string, err error) {
	pair, err := s.Compare(ctx, id)
	if err != nil {
		return "", "", err
	}
	body, err = report.Generate(report.Data{
		Request:     pair.PPO.Request,
		PPO:         pair.PPO.Response,
		Heuristic:   pair.Heuristic.Response,
		GeneratedAt: now,
	})
	if err != nil {
		return "", "", err
	}
	return report.Filename(now), body, nil
}

// #endregion report

// #region diagnostics
// Diagnostics is the state shown on /diagnostics.
type Diagnostics struct {
	Transport string              `json:"transport"`
	Runs      []store.RunSummary  `json:"runs"`
	Calls     []logging.CallEntry `json:"calls"`
}

// Diagnostics lists the most recent runs and backend calls.
func (s *Service) Diagnostics(limit int) (Diagnostics, error) {
	runs, err := s.store.ListRuns(limit)
	if err != nil {
		return Diagnostics{}, err
	}
	calls, err := logging.RecentCalls(s.store.DB(), limit)
	if err != nil {
		return Diagnostics{}, err
	}
	return Diagnostics{Transport: s.transport, Runs: runs, Calls: calls}, nil
}

// #endregion diagnostics
