package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/fesaone/fesabot/internal/format"
	"github.com/fesaone/fesabot/internal/logger"
	"github.com/fesaone/fesabot/internal/session"
)

type chatRequest struct {
	Message   string         `json:"message"`
	History   []session.Turn `json:"history"`
	SessionID string         `json:"session_id,omitempty"`
}

type chatResponse struct {
	Reply     string `json:"reply"`
	SessionID string `json:"session_id"`
	Source    string `json:"source"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.L.Error("write response failed", "error", err)
	}
}

// chatHandler runs one submission through the pipeline. The reply is
// formatted for display before it leaves the server; raw upstream errors
// never do.
func (s *Server) chatHandler(w http.ResponseWriter, r *http.Request) {
	if !s.hasCredential {
		// Generic on purpose: the message must not hint at which
		// credential is missing.
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "server configuration error"})
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message is required"})
		return
	}

	sess := s.store.GetOrCreate(req.SessionID)
	// A client-supplied history is authoritative for this call; the widget
	// keeps its own copy and replays it on every request.
	if req.History != nil {
		sess.Replace(req.History)
	}

	res, err := s.chat.Process(r.Context(), sess, req.Message)
	if err != nil {
		if errors.Is(err, session.ErrBusy) {
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "a submission is already in flight"})
			return
		}
		logger.L.Error("chat pipeline error", "error", err, "session", sess.ID)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Reply:     format.Text(res.Reply),
		SessionID: sess.ID,
		Source:    string(res.Source),
	})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "fesabot",
	})
}
