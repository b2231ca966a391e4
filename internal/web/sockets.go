package web

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/danielpatrickdp/brainwave-viewer/internal/config"
	"github.com/danielpatrickdp/brainwave-viewer/internal/narrative"
	"github.com/danielpatrickdp/brainwave-viewer/internal/playback"
	"github.com/danielpatrickdp/brainwave-viewer/internal/present"
)

const (
	maxMessageSize = 4096
	writeWait      = 5 * time.Second
)

// #region playback-socket
type playbackCommand struct {
	Command string `json:"command"`
	Step    int    `json:"step,omitempty"`
}

type playbackMessage struct {
	Type              string            `json:"type"`
	Snapshot          playback.Snapshot `json:"snapshot"`
	CumulativeReward  float64           `json:"cumulative_reward"`
	ActionTitle       string            `json:"action_title,omitempty"`
	ActionType        int               `json:"action_type"`
	ActionDescription string            `json:"action_description,omitempty"`
	Bars              []present.Bar     `json:"bars,omitempty"`
}

// mailbox holds the newest snapshot for the writer. Older undelivered
// snapshots are replaced, never queued.
type mailbox struct {
	mu    sync.Mutex
	snap  playback.Snapshot
	full  bool
	ready chan struct{}
}

func newMailbox() *mailbox {
	return &mailbox{ready: make(chan struct{}, 1)}
}

func (m *mailbox) put(s playback.Snapshot) {
	m.mu.Lock()
	m.snap, m.full = s, true
	m.mu.Unlock()
	select {
	case m.ready <- struct{}{}:
	default:
	}
}

func (m *mailbox) take() (playback.Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.snap, m.full
	m.full = false
	return s, ok
}

// handlePlaybackSocket runs one playback session. Commands arrive as JSON
// {"command": "...", "step": n}; every transition is pushed back as a snapshot.
// The player is closed when the socket goes away.
func (s *Server) handlePlaybackSocket(w http.ResponseWriter, r *http.Request) {
	run, err := s.svc.Get(r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	cadence := s.cfg.Cadence
	if v := r.URL.Query().Get("cadence"); v != "" {
		if cadence, err = config.ParseCadence(v); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("[web] upgrade failed for run %s: %v", run.ID, err)
		return
	}
	conn.SetReadLimit(maxMessageSize)

	trajectory := run.Response.Trajectory
	rewards := present.CumulativeRewards(trajectory)
	box := newMailbox()
	player := playback.NewPlayer(trajectory, playback.Options{Cadence: cadence, OnChange: box.put})
	box.put(player.Snapshot())

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			case <-box.ready:
			}
			snap, ok := box.take()
			if !ok {
				continue
			}
			msg := playbackMessage{Type: "snapshot", Snapshot: snap}
			if snap.Step != nil {
				msg.CumulativeReward = rewards[snap.Index]
				msg.ActionTitle = present.ActionTitle(snap.Step.Action.Name)
				msg.ActionType = snap.Step.Action.Type
				msg.ActionDescription = present.ActionDescription(snap.Step.Action.Name)
				msg.Bars = present.StateBars(snap.Step.State)
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				conn.Close()
				return
			}
		}
	}()

	defer func() {
		player.Close()
		close(done)
		wg.Wait()
		conn.Close()
	}()

	if s.cfg.AutoStart > 0 && r.URL.Query().Get("autostart") != "false" {
		player.PlayAfter(s.cfg.AutoStart)
	}

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var cmd playbackCommand
		if err := json.Unmarshal(payload, &cmd); err != nil {
			s.logger.Printf("[web] discarding malformed playback command for %s: %v", run.ID, err)
			continue
		}
		switch cmd.Command {
		case "play":
			player.Play()
		case "pause":
			player.Pause()
		case "toggle":
			player.Toggle()
		case "reset":
			player.Reset()
		case "forward":
			player.StepForward()
		case "backward":
			player.StepBackward()
		case "seek":
			player.GoToStep(cmd.Step)
		default:
			s.logger.Printf("[web] unknown playback command %q for %s", cmd.Command, run.ID)
		}
	}
}

// #endregion playback-socket

// #region narrative-socket
type scrollMessage struct {
	Offset   float64 `json:"offset"`
	Viewport float64 `json:"viewport"`
}

type beatMessage struct {
	Type  string         `json:"type"`
	Index int            `json:"index"`
	Beat  narrative.Beat `json:"beat"`
}

// handleNarrativeSocket maps scroll positions to narrative beats. Only beat
// changes are sent; the subscription ends with the socket.
func (s *Server) handleNarrativeSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("[web] narrative upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	selector := narrative.NewSelector()
	send := func() error {
		beat, idx := selector.Current()
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(beatMessage{Type: "beat", Index: idx, Beat: beat})
	}
	if err := send(); err != nil {
		return
	}

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg scrollMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.logger.Printf("[web] discarding malformed scroll message: %v", err)
			continue
		}
		if _, changed := selector.Observe(msg.Offset, msg.Viewport); changed {
			if err := send(); err != nil {
				return
			}
		}
	}
}

// #endregion narrative-socket
