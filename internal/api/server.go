// Package api exposes the AI features over HTTP, mirroring the messaging
// platform's /api/ai routes.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/relayhq/relay-ai/internal/assistant"
	"github.com/relayhq/relay-ai/internal/auth"
	"github.com/relayhq/relay-ai/internal/models"
	"github.com/relayhq/relay-ai/internal/store"
	"github.com/relayhq/relay-ai/internal/workspace"
	"github.com/sirupsen/logrus"
)

// Server wraps the HTTP handlers for the AI endpoints.
type Server struct {
	assistant *assistant.Service
	assembler *workspace.Assembler
	store     store.MessageStore
}

// NewServer creates the API server.
func NewServer(as *assistant.Service, assembler *workspace.Assembler, st store.MessageStore) *Server {
	return &Server{
		assistant: as,
		assembler: assembler,
		store:     st,
	}
}

// Register wires the AI routes onto the supplied router. The router is
// expected to already carry the auth middleware.
func (s *Server) Register(router *mux.Router) {
	router.HandleFunc("/ai", s.handleAI).Methods("POST")
	router.HandleFunc("/ai/analyze-tone", s.handleAnalyzeTone).Methods("POST")
	router.HandleFunc("/ai/suggest-reply", s.handleSuggestReply).Methods("POST")
	router.HandleFunc("/ai/generate-meeting-notes", s.handleMeetingNotes).Methods("POST")
}

type aiRequest struct {
	Action          string `json:"action"`
	TaskDescription string `json:"taskDescription"`
	Transcript      string `json:"transcript"`
	Query           string `json:"query"`
}

// handleAI dispatches the multi-action endpoint: parseTask, parseTranscript
// and orgBrain.
func (s *Server) handleAI(w http.ResponseWriter, r *http.Request) {
	var req aiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	switch req.Action {
	case "parseTask":
		task, err := s.assistant.ParseTask(r.Context(), req.TaskDescription)
		if err != nil {
			writeError(w, err)
			return
		}
		writeSuccess(w, "response", task)

	case "parseTranscript":
		tasks, err := s.assistant.ParseTranscript(r.Context(), req.Transcript)
		if err != nil {
			writeError(w, err)
			return
		}
		writeSuccess(w, "response", tasks)

	case "orgBrain":
		s.orgBrain(w, r, req.Query)

	case "":
		writeMessage(w, http.StatusBadRequest, "Action is required")

	default:
		writeMessage(w, http.StatusBadRequest, "Invalid AI action")
	}
}

func (s *Server) orgBrain(w http.ResponseWriter, r *http.Request, query string) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	brain, err := s.assembler.OrgBrainContext(r.Context(), identity.WorkspaceID, identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	answer, err := s.assistant.QueryOrgBrain(r.Context(), query, brain)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, "response", answer)
}

type toneRequest struct {
	Content   string `json:"content"`
	MessageID string `json:"messageId"`
}

// handleAnalyzeTone classifies a message and, when a message id is supplied,
// attaches the result to the stored message. Persistence failure is logged
// but never fails the request: the message simply keeps no tone metadata.
func (s *Server) handleAnalyzeTone(w http.ResponseWriter, r *http.Request) {
	var req toneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	analysis, err := s.assistant.AnalyzeTone(r.Context(), req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	if req.MessageID != "" {
		if err := s.store.UpdateMessageTone(r.Context(), req.MessageID, analysis); err != nil {
			logrus.Errorf("Failed to persist tone analysis for message %s: %v", req.MessageID, err)
		}
	}

	writeSuccess(w, "analysis", analysis)
}

type replyRequest struct {
	Thread []models.ThreadMessage `json:"thread"`
}

func (s *Server) handleSuggestReply(w http.ResponseWriter, r *http.Request) {
	var req replyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	reply, err := s.assistant.SuggestReply(r.Context(), req.Thread)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, "reply", reply)
}

type meetingNotesRequest struct {
	ThreadID  string `json:"threadId"`
	ChannelID string `json:"channelId"`
}

func (s *Server) handleMeetingNotes(w http.ResponseWriter, r *http.Request) {
	var req meetingNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.ChannelID == "" {
		writeMessage(w, http.StatusBadRequest, "Channel ID is required")
		return
	}

	messages, err := s.assembler.MeetingThread(r.Context(), req.ChannelID, req.ThreadID)
	if err != nil {
		writeError(w, err)
		return
	}

	notes, err := s.assistant.GenerateMeetingNotes(r.Context(), messages)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, "meetingNotes", notes)
}

// writeError translates the AI layer's error kinds into HTTP statuses:
// InvalidInput 400, NoContent 404, provider failures 502, everything model-
// or parse-related 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, assistant.ErrInvalidInput):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, assistant.ErrNoContent):
		writeMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, assistant.ErrProvider):
		logrus.Errorf("Model provider failure: %v", err)
		writeMessage(w, http.StatusBadGateway, "The AI service is currently unavailable")
	default:
		logrus.Errorf("AI request failed: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to process AI request")
	}
}

func writeSuccess(w http.ResponseWriter, key string, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{"success": true, key: value})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "message": message})
}
