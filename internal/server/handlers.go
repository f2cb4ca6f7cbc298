package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/jonathan/career-compass/internal/server/middleware"
	"github.com/jonathan/career-compass/internal/types"
)

// ResultSourceHeader reports whether a model-backed result is real or a fallback.
const ResultSourceHeader = "X-Result-Source"

// OptionsResponse lists the fixed choices offered by the assessment wizard.
type OptionsResponse struct {
	EducationLevels    []types.Option `json:"educationLevels"`
	InterestCategories []types.Option `json:"interestCategories"`
	SkillCategories    []string       `json:"skillCategories"`
}

// handleHealth returns service health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAPIPing answers the proxy liveness check.
func (s *Server) handleAPIPing(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "GET method works!")
}

// handleAnalyze proxies an assessment profile to the model.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
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

	envelope, err := s.facade.AnalyzeProfile(r.Context(), profile)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, envelope)
}

// handleJobListings returns listings for the role in the path.
func (s *Server) handleJobListings(w http.ResponseWriter, r *http.Request) {
	role := strings.TrimSpace(r.PathValue("role"))
	if role == "" {
		s.errorResponse(w, r, &ErrBadRequest{Message: "role is required"})
		return
	}

	listings, source, err := s.facade.JobListings(r.Context(), role)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	if listings == nil {
		listings = []types.JobListing{}
	}
	w.Header().Set(ResultSourceHeader, string(source))
	s.jsonResponse(w, http.StatusOK, listings)
}

// handleOptions returns the wizard's choice lists.
func (s *Server) handleOptions(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, OptionsResponse{
		EducationLevels:    types.EducationLevels,
		InterestCategories: types.InterestCategories,
		SkillCategories:    types.SkillCategories,
	})
}

// handleCacheStats returns the façade's cache counters.
func (s *Server) handleCacheStats(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.facade.Stats())
}

// handleDashboard returns the owner's dashboard summary.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	summary, source, err := s.facade.DashboardSummary(r.Context(), middleware.Owner(r))
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	w.Header().Set(ResultSourceHeader, string(source))
	s.jsonResponse(w, http.StatusOK, summary)
}

// handleDashboardBundle returns everything the results page needs.
func (s *Server) handleDashboardBundle(w http.ResponseWriter, r *http.Request) {
	bundle, err := s.facade.DashboardBundle(r.Context(), middleware.Owner(r))
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, bundle)
}

// parseProfile checks the raw document before decoding it so that a skills
// value of the wrong type is rejected rather than silently dropped.
func parseProfile(raw []byte) (types.AssessmentProfile, error) {
	var profile types.AssessmentProfile
	if !types.ValidateAssessmentJSON(raw) {
		return profile, &ErrBadRequest{Message: "educationLevel, interests and skills are required"}
	}
	if err := json.Unmarshal(raw, &profile); err != nil {
		return profile, &ErrBadRequest{Message: "invalid assessment profile"}
	}
	return profile, nil
}
