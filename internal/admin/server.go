package admin

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"dtnreport/internal/report"
	"dtnreport/internal/sim"
)

// Server exposes a running simulation over HTTP.
type Server struct {
	Engine    *sim.Engine
	Reporters *sim.Reporters
	tpl       *template.Template
	log       *slog.Logger
}

//go:embed templates/index.html
var content embed.FS

// Snapshot is the body served on /stats.
type Snapshot struct {
	RunID  string       `json:"run_id"`
	Status sim.Status   `json:"status"`
	Stats  report.Stats `json:"stats"`
}

func NewServer(e *sim.Engine, r *sim.Reporters, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	tpl := template.Must(template.New("index.html").ParseFS(content, "templates/index.html"))
	return &Server{Engine: e, Reporters: r, tpl: tpl, log: log}
}

// Handler returns the admin routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/report", s.handleReport)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	s.log.Info("admin server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) snapshot() Snapshot {
	snap := Snapshot{RunID: s.Reporters.RunID, Status: s.Engine.Status()}
	s.Engine.Inspect(func() {
		snap.Stats = s.Reporters.Messages.Stats()
	})
	return snap
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data := struct {
		Snapshot
		Report string
	}{s.snapshot(), s.Engine.Report()}
	if err := s.tpl.Execute(w, data); err != nil {
		s.log.Error("render index", "err", err)
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.snapshot())
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(s.Engine.Report()))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
