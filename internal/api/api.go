// Package api exposes a graph document over HTTP for embedding hosts.
//
// All mutation goes through the undo/redo stack, so edits applied over
// the wire are reversible with POST /undo and /redo. The engine itself
// is single-writer; the server serializes requests with a mutex to
// uphold that discipline.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/nodeflowhq/nodeflow/pkg/command"
	"github.com/nodeflowhq/nodeflow/pkg/history"
	"github.com/nodeflowhq/nodeflow/pkg/model"
	"github.com/nodeflowhq/nodeflow/pkg/session"
	"github.com/nodeflowhq/nodeflow/pkg/toposort"
)

// Server hosts one graph document and its undo history.
type Server struct {
	mu      sync.Mutex
	graph   *model.Graph
	history *history.Stack
	sync    command.ViewSync
	logger  *log.Logger
}

// NewServer creates a server around an existing graph. A nil logger
// falls back to log.Default.
func NewServer(g *model.Graph, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		graph:   g,
		history: history.New(),
		sync:    command.NewLogViewSync(logger),
		logger:  logger,
	}
}

// Router builds the HTTP route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/graph", s.handleGetGraph)
	r.Get("/order", s.handleGetOrder)
	r.Post("/edits", s.handleEdit)
	r.Post("/undo", s.handleUndo)
	r.Post("/redo", s.handleRedo)
	return r
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := session.FromGraph(s.graph)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	starts := r.URL.Query()["start"]
	candidates := make([]string, 0, s.graph.NodeCount())
	for _, n := range s.graph.Nodes() {
		candidates = append(candidates, n.ID)
	}

	sorter := toposort.Sort
	if r.URL.Query().Get("strict") == "true" {
		sorter = toposort.SortStrict
	}
	nodes, err := sorter(s.graph, starts, candidates)
	if err != nil {
		s.writeError(w, err)
		return
	}

	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"order": ids})
}

// errInvalidEdit marks malformed edit requests so they map to 400
// rather than 500.
var errInvalidEdit = errors.New("invalid edit")

// portRef addresses one port over the wire.
type portRef struct {
	Node string `json:"node"`
	Port string `json:"port"`
	Dir  string `json:"dir,omitempty"` // "in" or "out"; defaults per operation
}

// editRequest describes one edit operation.
type editRequest struct {
	Op      string         `json:"op"`
	Node    string         `json:"node,omitempty"`
	Name    string         `json:"name,omitempty"`
	Value   any            `json:"value,omitempty"`
	Pos     *[2]float64    `json:"pos,omitempty"`
	PrevPos *[2]float64    `json:"prev_pos,omitempty"`
	From    *portRef       `json:"from,omitempty"`
	To      *portRef       `json:"to,omitempty"`
	Port    *portRef       `json:"port,omitempty"`
	Inputs  []string       `json:"inputs,omitempty"`
	Outputs []string       `json:"outputs,omitempty"`
	Props   map[string]any `json:"properties,omitempty"`
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	cmd, err := s.buildCommand(req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.history.Push(cmd); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"applied": cmd.Label()})
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	label := s.history.UndoLabel()
	if err := s.history.Undo(); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"undone": label})
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	label := s.history.RedoLabel()
	if err := s.history.Redo(); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"redone": label})
}

func (s *Server) buildCommand(req editRequest) (command.Command, error) {
	switch req.Op {
	case "add_node":
		n := model.NewNode(req.Name)
		for name, value := range req.Props {
			n.Properties[name] = value
		}
		for _, name := range req.Inputs {
			n.AddInput(name)
		}
		for _, name := range req.Outputs {
			n.AddOutput(name)
		}
		var pos *model.Position
		if req.Pos != nil {
			p := model.Position(*req.Pos)
			pos = &p
		}
		return command.NewAddNode(s.graph, s.sync, n, pos), nil

	case "remove_node":
		n, ok := s.graph.Node(req.Node)
		if !ok {
			return nil, fmt.Errorf("%w: %s", model.ErrUnknownNode, req.Node)
		}
		return command.NewRemoveNode(s.graph, s.sync, n)

	case "set_property":
		n, ok := s.graph.Node(req.Node)
		if !ok {
			return nil, fmt.Errorf("%w: %s", model.ErrUnknownNode, req.Node)
		}
		return command.NewSetProperty(s.graph, s.sync, n, req.Name, req.Value), nil

	case "move_node":
		n, ok := s.graph.Node(req.Node)
		if !ok {
			return nil, fmt.Errorf("%w: %s", model.ErrUnknownNode, req.Node)
		}
		if req.Pos == nil {
			return nil, fmt.Errorf("%w: move_node requires pos", errInvalidEdit)
		}
		prev := n.Pos()
		if req.PrevPos != nil {
			prev = model.Position(*req.PrevPos)
		}
		return command.NewMoveNode(s.graph, s.sync, n, model.Position(*req.Pos), prev), nil

	case "connect", "disconnect":
		if req.From == nil || req.To == nil {
			return nil, fmt.Errorf("%w: %s requires from and to ports", errInvalidEdit, req.Op)
		}
		src, err := s.resolvePort(*req.From, model.Out)
		if err != nil {
			return nil, err
		}
		dst, err := s.resolvePort(*req.To, model.In)
		if err != nil {
			return nil, err
		}
		if req.Op == "connect" {
			return command.NewConnectPorts(s.graph, s.sync, src, dst), nil
		}
		return command.NewDisconnectPorts(s.graph, s.sync, src, dst), nil

	case "toggle_port":
		if req.Port == nil {
			return nil, fmt.Errorf("%w: toggle_port requires a port", errInvalidEdit)
		}
		p, err := s.resolvePort(*req.Port, model.In)
		if err != nil {
			return nil, err
		}
		return command.NewTogglePortVisibility(s.graph, s.sync, p), nil

	default:
		return nil, fmt.Errorf("%w: unknown op %q", errInvalidEdit, req.Op)
	}
}

func (s *Server) resolvePort(ref portRef, defaultDir model.Direction) (*model.Port, error) {
	dir := defaultDir
	switch ref.Dir {
	case "in":
		dir = model.In
	case "out":
		dir = model.Out
	}
	return s.graph.Port(ref.Node, dir, ref.Port)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrUnknownNode), errors.Is(err, model.ErrUnknownPort):
		status = http.StatusNotFound
	case errors.Is(err, toposort.ErrCycle), errors.Is(err, model.ErrDuplicateNodeID):
		status = http.StatusConflict
	case errors.Is(err, errInvalidEdit):
		status = http.StatusBadRequest
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
