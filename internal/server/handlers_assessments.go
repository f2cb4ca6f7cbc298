package server

import (
	"io"
	"net/http"

	"github.com/jonathan/career-compass/internal/server/middleware"
	"github.com/jonathan/career-compass/internal/types"
)

// DraftResponse wraps a saved draft; Draft is null when none exists.
type DraftResponse struct {
	Draft *types.AssessmentProfile `json:"draft"`
}

// handleSubmitAssessment validates, analyzes and stores an assessment.
func (s *Server) handleSubmitAssessment(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.errorResponse(w, r, &ErrBadRequest{Message: "could not read body"})
		return
	}
	profile, err := parseProfile(raw)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	resp, err := s.facade.SubmitAssessment(r.Context(), middleware.Owner(r), profile)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, resp)
}

// handleAssessmentHistory lists the owner's past assessments.
func (s *Server) handleAssessmentHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.facade.AssessmentHistory(r.Context(), middleware.Owner(r))
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	if history == nil {
		history = []types.AssessmentRecord{}
	}
	s.jsonResponse(w, http.StatusOK, history)
}

// handleRetakeAssessment clears the owner's assessment state.
func (s *Server) handleRetakeAssessment(w http.ResponseWriter, r *http.Request) {
	if err := s.facade.RetakeAssessment(r.Context(), middleware.Owner(r)); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleLoadDraft returns the owner's in-progress answers.
func (s *Server) handleLoadDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := s.facade.Advisor().LoadDraft(r.Context(), middleware.Owner(r))
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, DraftResponse{Draft: draft})
}

// handleSaveDraft stores the owner's in-progress answers. Drafts are not validated.
func (s *Server) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	var profile types.AssessmentProfile
	if err := decodeJSON(w, r, &profile); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	if err := s.facade.SaveDraft(r.Context(), middleware.Owner(r), profile); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
