package web

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielpatrickdp/brainwave-viewer/internal/contract"
	"github.com/danielpatrickdp/brainwave-viewer/internal/playback"
	"github.com/danielpatrickdp/brainwave-viewer/internal/present"
	"github.com/danielpatrickdp/brainwave-viewer/internal/report"
	"github.com/danielpatrickdp/brainwave-viewer/internal/sim"
	"github.com/danielpatrickdp/brainwave-viewer/internal/transport"
	"github.com/danielpatrickdp/brainwave-viewer/internal/viewer"
)

const defaultMaxTimesteps = 50

// #region setup
type setupForm struct {
	MaxTimesteps string
	Policy       string
	Seed         string
	Error        string
}

func (s *Server) handleSetupForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "setup", "Configure simulation", setupForm{
		MaxTimesteps: strconv.Itoa(defaultMaxTimesteps),
		Policy:       string(sim.PolicyPPO),
	})
}

func (s *Server) handleSetupSubmit(w http.ResponseWriter, r *http.Request) {
	form := setupForm{
		MaxTimesteps: strings.TrimSpace(r.FormValue("max_timesteps")),
		Policy:       r.FormValue("policy_type"),
		Seed:         strings.TrimSpace(r.FormValue("seed")),
	}
	req, err := parseSetup(form)
	if err != nil {
		form.Error = err.Error()
		s.render(w, http.StatusBadRequest, "setup", "Configure simulation", form)
		return
	}

	run, err := s.svc.Run(r.Context(), req)
	if err != nil {
		form.Error = err.Error()
		s.render(w, statusFor(err), "setup", "Configure simulation", form)
		return
	}
	http.Redirect(w, r, "/simulate/"+run.ID, http.StatusSeeOther)
}

func parseSetup(form setupForm) (sim.Request, error) {
	n, err := strconv.Atoi(form.MaxTimesteps)
	if err != nil || n <= 0 {
		return sim.Request{}, errors.New("max timesteps must be a positive whole number")
	}
	req := sim.Request{Scenario: sim.Scenario{MaxTimesteps: n}, PolicyType: sim.PolicyType(form.Policy)}
	if !req.PolicyType.Valid() {
		return sim.Request{}, errors.New("policy must be ppo or heuristic")
	}
	if form.Seed != "" {
		seed, err := strconv.ParseInt(form.Seed, 10, 64)
		if err != nil {
			return sim.Request{}, errors.New("seed must be a whole number")
		}
		req.Seed = &seed
	}
	return req, nil
}

// #endregion setup

// #region errors
func statusFor(err error) int {
	var missing *viewer.MissingDataError
	var te *transport.TransportError
	var violation *contract.Violation
	switch {
	case errors.As(err, &missing):
		return http.StatusNotFound
	case errors.As(err, &te), errors.As(err, &violation):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// fail renders the "no data" guidance for a missing handoff and the error
// page for anything else.
func (s *Server) fail(w http.ResponseWriter, err error) {
	var missing *viewer.MissingDataError
	if errors.As(err, &missing) {
		s.render(w, http.StatusNotFound, "nodata", "No simulation data", missing)
		return
	}
	s.logger.Printf("[web] %v", err)
	s.render(w, statusFor(err), "error", "Simulation unavailable", err.Error())
}

// #endregion errors

// #region simulate
type simulateView struct {
	RunID     string
	Policy    sim.PolicyType
	Snapshot  playback.Snapshot
	LastIndex int
	Bars      []present.Bar
	Cadence   int64
	AutoStart int64
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	run, err := s.svc.Get(r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	snap := playback.NewController(run.Response.Trajectory).Snapshot()
	view := simulateView{
		RunID:     run.ID,
		Policy:    run.Policy(),
		Snapshot:  snap,
		Cadence:   s.cfg.Cadence.Milliseconds(),
		AutoStart: s.cfg.AutoStart.Milliseconds(),
	}
	if snap.Step != nil {
		view.LastIndex = snap.Total - 1
		view.Bars = present.StateBars(snap.Step.State)
	}
	s.render(w, http.StatusOK, "simulate", "Live simulation", view)
}

// #endregion simulate

// #region results
type resultsView struct {
	RunID     string
	PPO       sim.Metrics
	Heuristic sim.Metrics
	Relics    []present.Relic
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	pair, err := s.svc.Compare(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.render(w, http.StatusOK, "results", "Results", resultsView{
		RunID:     r.PathValue("id"),
		PPO:       pair.PPO.Response.Metrics,
		Heuristic: pair.Heuristic.Response.Metrics,
		Relics:    present.Relics(pair.PPO.Response, pair.Heuristic.Response),
	})
}

// #endregion results

// #region report
type reportView struct {
	RunID    string
	Filename string
	Markdown string
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	name, body, err := s.svc.Report(r.Context(), id, s.cfg.Now())
	if err != nil {
		s.fail(w, err)
		return
	}
	s.render(w, http.StatusOK, "report", "Report", reportView{RunID: id, Filename: name, Markdown: body})
}

func (s *Server) handleReportDownload(w http.ResponseWriter, r *http.Request) {
	name, body, err := s.svc.Report(r.Context(), r.PathValue("id"), s.cfg.Now())
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Write([]byte(body))
}

func (s *Server) handleRewardChart(w http.ResponseWriter, r *http.Request) {
	run, err := s.svc.Get(r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	svg, err := report.RewardChart(run.Response.Trajectory, run.Policy())
	if errors.Is(err, report.ErrNoData) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.Printf("[web] reward chart %s: %v", run.ID, err)
		http.Error(w, "failed to render chart", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svg)
}

// #endregion report

// #region diagnostics
func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	diag, err := s.svc.Diagnostics(20)
	if err != nil {
		s.logger.Printf("[web] diagnostics: %v", err)
		http.Error(w, "failed to read diagnostics", http.StatusInternalServerError)
		return
	}
	data, err := json.Marshal(diag)
	if err != nil {
		http.Error(w, "failed to encode", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// #endregion diagnostics
