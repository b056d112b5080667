package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"pressroom/internal/adapter"
	"pressroom/internal/dispatch"
)

type dispatchRequest struct {
	Request string `json:"request"`
	Agent   string `json:"agent,omitempty"`
	Multi   bool   `json:"multi,omitempty"`
}

type decisionView struct {
	ID        string  `json:"id"`
	Agent     string  `json:"agent,omitempty"`
	Score     float64 `json:"score"`
	Rationale string  `json:"rationale"`
	Reason    string  `json:"reason"`
	Matched   bool    `json:"matched"`
}

func viewOf(d *dispatch.Decision) decisionView {
	return decisionView{
		ID:        d.ID,
		Agent:     d.AgentName(),
		Score:     d.Score,
		Rationale: d.Rationale,
		Reason:    string(d.Reason),
		Matched:   d.Matched(),
	}
}

func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	var req dispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON body"}`, http.StatusBadRequest)
		return
	}
	if req.Request == "" && req.Agent == "" {
		http.Error(w, `{"error":"request is required"}`, http.StatusBadRequest)
		return
	}

	dreq := dispatch.Request{Text: req.Request, ExplicitName: req.Agent}

	var decisions []*dispatch.Decision
	var err error
	if req.Multi {
		decisions, err = s.dispatcher.DispatchMulti(r.Context(), dreq)
	} else {
		var d *dispatch.Decision
		d, err = s.dispatcher.Dispatch(r.Context(), dreq)
		if d != nil {
			decisions = []*dispatch.Decision{d}
		}
	}
	if err != nil {
		var unknown *dispatch.UnknownAgentError
		if errors.As(err, &unknown) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": unknown.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	views := make([]decisionView, len(decisions))
	for i, d := range decisions {
		views[i] = viewOf(d)
		if s.log != nil {
			s.log.Record(r.Context(), req.Request, d)
		}
	}

	if req.Multi {
		writeJSON(w, http.StatusOK, map[string]any{"decisions": views})
		return
	}
	writeJSON(w, http.StatusOK, views[0])
}

// handleRoute dispatches and, on a match, streams the selected agent's
// output over SSE. The decision itself is the first event on the stream.
func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	if s.executor == nil {
		http.Error(w, `{"error":"no execution backend configured"}`, http.StatusNotImplemented)
		return
	}

	var req dispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON body"}`, http.StatusBadRequest)
		return
	}
	if req.Request == "" {
		http.Error(w, `{"error":"request is required"}`, http.StatusBadRequest)
		return
	}

	d, err := s.dispatcher.Dispatch(r.Context(), dispatch.Request{Text: req.Request, ExplicitName: req.Agent})
	if err != nil {
		var unknown *dispatch.UnknownAgentError
		if errors.As(err, &unknown) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": unknown.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if s.log != nil {
		s.log.Record(r.Context(), req.Request, d)
	}

	sse := NewSSEWriter(w)
	sse.Send("decision", viewOf(d))

	if !d.Matched() {
		sse.Send("done", map[string]any{})
		return
	}

	var sentError bool
	err = s.executor.Execute(r.Context(), d.Profile, req.Request, func(ev adapter.Event) {
		switch ev.Type {
		case adapter.EventToken:
			sse.Send("token", map[string]any{"content": ev.Data})
		case adapter.EventError:
			sentError = true
			sse.Send("error", map[string]any{"error": ev.Data})
		case adapter.EventDone:
			sse.Send("done", map[string]any{})
		}
	})

	if err != nil && !sentError {
		sse.Send("error", map[string]string{"error": err.Error()})
	}
}

func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"agents": s.store.Snapshot().Summaries()})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Reload(r.Context(), s.source); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"profiles": s.store.Snapshot().Len()})
}

func (s *Server) handleListDecisions(w http.ResponseWriter, r *http.Request) {
	if s.log == nil {
		http.Error(w, `{"error":"decision log not configured"}`, http.StatusNotImplemented)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := s.log.Recent(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"decisions": entries})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
