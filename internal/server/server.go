// Package server exposes a running sample machine over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/openwebos/fsm"
	"github.com/openwebos/fsm/internal/demo"
	"github.com/openwebos/fsm/internal/logging"
	"github.com/openwebos/fsm/pkg/metrics"
	"github.com/openwebos/fsm/pkg/plantuml"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StateResponse describes the machine.
type StateResponse struct {
	Machine string   `json:"machine"`
	ID      string   `json:"id"`
	Started bool     `json:"started"`
	State   string   `json:"state,omitempty"`
	Path    []string `json:"path,omitempty"`
	Fault   string   `json:"fault,omitempty"`
}

// DispatchResponse is the result of POST /events/{name}.
type DispatchResponse struct {
	Event   string `json:"event"`
	Handled bool   `json:"handled"`
	State   string `json:"state"`
}

// Server owns one started machine. Requests are serialized so that every
// dispatch runs to completion before the next one starts.
type Server struct {
	mu       sync.Mutex
	scenario demo.Scenario
	machine  *fsm.Machine
	recorder *plantuml.Recorder
	registry *prometheus.Registry
	logger   *slog.Logger
}

// New builds and starts the machine of scenario. The hooks of config are
// kept; the server adds its own for metrics and the diagram.
func New(scenario demo.Scenario, config fsm.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		scenario: scenario,
		recorder: &plantuml.Recorder{EventName: scenario.EventName},
		registry: prometheus.NewRegistry(),
		logger:   logger,
	}
	mx := metrics.New(s.registry, "fsmdemo")
	config.Hooks = fsm.Chain(config.Hooks, s.recorder.Hooks(), mx.Hooks())
	config.CatchViolations = true

	m, initial, err := scenario.Build(config)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", scenario.Name, err)
	}
	if err := m.Start(initial); err != nil {
		return nil, fmt.Errorf("start %s: %w", scenario.Name, err)
	}
	s.machine = m
	return s, nil
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/state", s.getState)
	r.Post("/events/{name}", s.postEvent)
	r.Get("/diagram", s.getDiagram)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return r
}

func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.state())
}

func (s *Server) state() StateResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	resp := StateResponse{
		Machine: s.machine.Name(),
		ID:      s.machine.ID(),
		Started: s.machine.Started(),
	}
	if current := s.machine.Current(); current != nil {
		resp.State = current.Name()
		for st := current; st != nil; st = st.Parent() {
			resp.Path = append(resp.Path, st.Name())
		}
		slices.Reverse(resp.Path)
	}
	if err := s.machine.Fault(); err != nil {
		resp.Fault = err.Error()
	}
	return resp
}

func (s *Server) postEvent(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, ok := s.scenario.Events[name]; !ok {
		http.Error(w, fmt.Sprintf("unknown event %q", name), http.StatusNotFound)
		return
	}
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	event, err := s.scenario.Event(name, fields)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	handled, state, err := s.dispatch(event)
	if err != nil {
		s.logger.Error("dispatch failed", "event", name, "error", err)
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	s.writeJSON(w, DispatchResponse{Event: name, Handled: handled, State: state})
}

// dispatch runs event to completion and returns the state it settled in.
func (s *Server) dispatch(event fsm.Event) (bool, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	handled, err := s.machine.DispatchEvent(event)
	var state string
	if current := s.machine.Current(); current != nil {
		state = current.Name()
	}
	return handled, state, err
}

func (s *Server) getDiagram(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := plantuml.Generate(w, s.machine, s.recorder); err != nil {
		s.logger.Error("diagram failed", "error", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode failed", "error", err)
	}
}
