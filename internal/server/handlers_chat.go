package server

import (
	"net/http"

	"github.com/jonathan/career-compass/internal/server/middleware"
	"github.com/jonathan/career-compass/internal/types"
)

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	ConversationID string `json:"conversationId"`
	Message        string `json:"message"`
}

// handleSendMessage answers one chat message.
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	exchange, err := s.facade.Advisor().SendMessage(r.Context(), middleware.Owner(r), req.ConversationID, req.Message)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, exchange)
}

// handleChatHistory returns a conversation's messages in order.
func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.facade.Advisor().ChatHistory(r.Context(), middleware.Owner(r), r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	if history == nil {
		history = []types.ChatMessage{}
	}
	s.jsonResponse(w, http.StatusOK, history)
}

// handleClearChatHistory deletes a conversation.
func (s *Server) handleClearChatHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.facade.Advisor().ClearChatHistory(r.Context(), middleware.Owner(r), r.PathValue("id")); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
