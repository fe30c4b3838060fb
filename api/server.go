package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/wricardo/wandrian/game/config"
	"github.com/wricardo/wandrian/game/engine"
	"github.com/wricardo/wandrian/game/service"
	"github.com/wricardo/wandrian/game/session"
)

// Options configure a Server. WebSocket and MCP are mounted at /ws and /mcp
// when set.
type Options struct {
	Service   service.GameService
	WebSocket http.Handler
	MCP       http.Handler
	Log       *logrus.Entry
}

// Server represents the REST API server
type Server struct {
	service service.GameService
	router  *mux.Router
	log     *logrus.Entry
}

// NewServer creates a new API server
func NewServer(opts Options) *Server {
	log := opts.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	s := &Server{
		service: opts.Service,
		router:  mux.NewRouter(),
		log:     log.WithField("component", "api"),
	}

	s.setupRoutes(opts)
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes(opts Options) {
	api := s.router.PathPrefix("/api").Subrouter()

	// Game state
	api.HandleFunc("/status", s.handleStatus).Methods("GET")
	api.HandleFunc("/world", s.handleWorld).Methods("GET")
	api.HandleFunc("/world/{x:-?[0-9]+}/{y:-?[0-9]+}", s.handleCell).Methods("GET")

	// Game operations
	api.HandleFunc("/steer", s.handleSteer).Methods("POST")
	api.HandleFunc("/pause", s.handleTogglePause).Methods("POST")
	api.HandleFunc("/step", s.handleStep).Methods("POST")
	api.HandleFunc("/end", s.handleEndGame).Methods("POST")

	// Configuration
	api.HandleFunc("/configs", s.handleListConfigs).Methods("GET")
	api.HandleFunc("/configs/{name}", s.handleGetConfig).Methods("GET")

	if opts.WebSocket != nil {
		s.router.Handle("/ws", opts.WebSocket)
	}
	if opts.MCP != nil {
		s.router.Handle("/mcp", opts.MCP)
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusFor maps control errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrOutOfBounds), errors.Is(err, engine.ErrInvalidDirection):
		return http.StatusBadRequest
	case errors.Is(err, config.ErrConfigNotFound), errors.Is(err, service.ErrNoConfigs), errors.Is(err, service.ErrNoPlayer):
		return http.StatusNotFound
	case errors.Is(err, session.ErrNotPaused), errors.Is(err, session.ErrNotStarted), errors.Is(err, session.ErrGameOver):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Game State Handlers

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.service.Status(r.Context()))
}

func (s *Server) handleWorld(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(s.service.ASCII(r.Context())))
		return
	}
	respondJSON(w, http.StatusOK, s.service.World(r.Context()))
}

func (s *Server) handleCell(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	x, errX := strconv.Atoi(vars["x"])
	y, errY := strconv.Atoi(vars["y"])
	if errX != nil || errY != nil {
		respondError(w, http.StatusBadRequest, "x and y must be integers")
		return
	}

	cell, err := s.service.Cell(r.Context(), x, y)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, cell)
}

// Game Operation Handlers

func (s *Server) handleSteer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	dir, err := s.service.Steer(r.Context(), req.Direction)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	s.log.WithField("direction", string(dir)).Debug("Player steered")
	respondJSON(w, http.StatusOK, map[string]string{"direction": string(dir)})
}

func (s *Server) handleTogglePause(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.TogglePause(r.Context())
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]session.State{"state": state})
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.Step(r.Context())
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleEndGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason,omitempty"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	st := s.service.EndGame(r.Context(), req.Reason)
	s.log.WithField("reason", st.Reason).Info("Game ended over HTTP")
	respondJSON(w, http.StatusOK, st)
}

// Configuration Handlers

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.service.ListConfigs(r.Context())
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(configs),
		"configs": configs,
	})
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	data, err := s.service.LoadConfig(r.Context(), name)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, data)
}
