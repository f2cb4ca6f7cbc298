package server

import (
	"context"
	"net/http"

	"github.com/jonathan/career-compass/internal/server/middleware"
	"github.com/jonathan/career-compass/internal/types"
)

// SavedResponse lists the ids an owner has bookmarked.
type SavedResponse struct {
	Saved []string `json:"saved"`
}

// handleRecommendations returns the owner's personalized careers.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	recs, err := s.facade.Recommendations(r.Context(), middleware.Owner(r))
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	if recs == nil {
		recs = []types.CareerRecommendation{}
	}
	s.jsonResponse(w, http.StatusOK, recs)
}

// handleCareerDetails returns one personalized career.
func (s *Server) handleCareerDetails(w http.ResponseWriter, r *http.Request) {
	career, err := s.facade.CareerDetails(r.Context(), middleware.Owner(r), r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, career)
}

// handleCareerResources returns learning resources for a career.
func (s *Server) handleCareerResources(w http.ResponseWriter, r *http.Request) {
	resources := s.facade.Advisor().CareerResources(r.PathValue("id"))
	if resources == nil {
		resources = []types.LearningResource{}
	}
	s.jsonResponse(w, http.StatusOK, resources)
}

type saveFunc func(ctx context.Context, owner, id string) ([]string, error)

type listFunc func(ctx context.Context, owner string) ([]string, error)

// saveHandler bookmarks the path id and returns the updated list.
func (s *Server) saveHandler(save saveFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		saved, err := save(r.Context(), middleware.Owner(r), r.PathValue("id"))
		if err != nil {
			s.errorResponse(w, r, err)
			return
		}
		s.jsonResponse(w, http.StatusOK, SavedResponse{Saved: nonNil(saved)})
	}
}

// listHandler returns the owner's bookmarks.
func (s *Server) listHandler(list listFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		saved, err := list(r.Context(), middleware.Owner(r))
		if err != nil {
			s.errorResponse(w, r, err)
			return
		}
		s.jsonResponse(w, http.StatusOK, SavedResponse{Saved: nonNil(saved)})
	}
}

func (s *Server) handleSaveCareer(w http.ResponseWriter, r *http.Request) {
	s.saveHandler(s.facade.Advisor().SaveCareerInterest)(w, r)
}

func (s *Server) handleSavedCareers(w http.ResponseWriter, r *http.Request) {
	s.listHandler(s.facade.Advisor().SavedCareers)(w, r)
}

func (s *Server) handleSaveResource(w http.ResponseWriter, r *http.Request) {
	s.saveHandler(s.facade.Advisor().SaveResource)(w, r)
}

func (s *Server) handleSavedResources(w http.ResponseWriter, r *http.Request) {
	s.listHandler(s.facade.Advisor().SavedResources)(w, r)
}

func (s *Server) handleSaveJob(w http.ResponseWriter, r *http.Request) {
	s.saveHandler(s.facade.Advisor().SaveJob)(w, r)
}

func (s *Server) handleSavedJobs(w http.ResponseWriter, r *http.Request) {
	s.listHandler(s.facade.Advisor().SavedJobs)(w, r)
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
