// Package web serves the viewer's HTML views and playback websockets.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/danielpatrickdp/brainwave-viewer/internal/narrative"
	"github.com/danielpatrickdp/brainwave-viewer/internal/present"
	"github.com/danielpatrickdp/brainwave-viewer/internal/viewer"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"landing", "setup", "simulate", "results", "report", "nodata", "error"}

// #region server
// Config configures the web surface.
type Config struct {
	// Cadence is the playback advance interval for views that do not ask for one.
	Cadence time.Duration
	// AutoStart delays the first automatic Play of a playback session; zero disables it.
	AutoStart time.Duration
	Logger    *log.Logger
	// Now stamps generated reports. Defaults to time.Now.
	Now func() time.Time
}

// Server renders views over a viewer.Service.
type Server struct {
	svc      *viewer.Service
	cfg      Config
	logger   *log.Logger
	pages    map[string]*template.Template
	upgrader websocket.Upgrader
}

// NewServer parses the view templates.
func NewServer(svc *viewer.Service, cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	funcs := template.FuncMap{
		"policyLabel":       present.PolicyLabel,
		"policyColor":       present.PolicyColor,
		"actionTitle":       present.ActionTitle,
		"actionDescription": present.ActionDescription,
		"percent":           func(v float64) string { return fmt.Sprintf("%.1f%%", v*100) },
	}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(funcs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		pages[name] = t
	}

	return &Server{
		svc:    svc,
		cfg:    cfg,
		logger: logger,
		pages:  pages,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}, nil
}

// Handler returns the routed view handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleLanding)
	mux.HandleFunc("GET /setup", s.handleSetupForm)
	mux.HandleFunc("POST /setup", s.handleSetupSubmit)
	mux.HandleFunc("GET /simulate/{id}", s.handleSimulate)
	mux.HandleFunc("GET /results/{id}", s.handleResults)
	mux.HandleFunc("GET /report/{id}", s.handleReport)
	mux.HandleFunc("GET /report/{id}/download", s.handleReportDownload)
	mux.HandleFunc("GET /report/{id}/reward.svg", s.handleRewardChart)
	mux.HandleFunc("GET /ws/playback/{id}", s.handlePlaybackSocket)
	mux.HandleFunc("GET /ws/narrative", s.handleNarrativeSocket)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /diagnostics", s.handleDiagnostics)
	return mux
}

// #endregion server

// #region render
type pageData struct {
	Title string
	Body  any
}

func (s *Server) render(w http.ResponseWriter, status int, page, title string, body any) {
	var buf bytes.Buffer
	if err := s.pages[page].Execute(&buf, pageData{Title: title, Body: body}); err != nil {
		s.logger.Printf("[web] render %s: %v", page, err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "landing", "Brainwave", narrative.Beats())
}

// #endregion render
