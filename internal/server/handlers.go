package server

import (
	"errors"
	"net/http"
	"time"

	"fitness-planner/internal/metrics"
	"fitness-planner/internal/planner"
	"fitness-planner/internal/progress"
)

type generateRequest struct {
	Goal   string `json:"goal"`
	UserID string `json:"userId"`
}

type generateResponse struct {
	Success      bool `json:"success"`
	DietCount    int  `json:"diet_count"`
	WorkoutCount int  `json:"workout_count"`
}

func (s *Server) handleGeneratePlans(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, string(planner.KindInvalidRequest), err.Error())
		return
	}
	if req.UserID == "" {
		s.writeError(w, http.StatusBadRequest, string(planner.KindInvalidRequest), "userId is required")
		return
	}
	if !s.authorizeOwner(w, r, req.UserID) {
		return
	}

	res, err := s.generator.Generate(r.Context(), planner.Goal(req.Goal), req.UserID)
	if err != nil {
		s.writeGenerationError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, generateResponse{Success: true, DietCount: res.DietCount, WorkoutCount: res.WorkoutCount})
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	owner := r.PathValue("id")
	if !s.authorizeOwner(w, r, owner) {
		return
	}
	goal, err := s.plans.GetGoal(r.Context(), owner)
	if errors.Is(err, planner.ErrGoalNotFound) {
		s.writeError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}
	if err != nil {
		s.writeInternal(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, goal)
}

type putGoalRequest struct {
	Goal string `json:"goal"`
	// Generate defaults to true: selecting a goal starts onboarding.
	Generate *bool `json:"generate"`
}

func (s *Server) handlePutGoal(w http.ResponseWriter, r *http.Request) {
	owner := r.PathValue("id")
	if !s.authorizeOwner(w, r, owner) {
		return
	}
	var req putGoalRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, string(planner.KindInvalidRequest), err.Error())
		return
	}
	goal, err := planner.ParseGoal(req.Goal)
	if err != nil {
		s.writeGenerationError(w, err)
		return
	}

	if req.Generate != nil && !*req.Generate {
		if err := s.plans.SetGoal(r.Context(), owner, goal); err != nil {
			s.writeInternal(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, generateResponse{Success: true})
		return
	}

	res, err := s.generator.SelectGoal(r.Context(), goal, owner)
	if err != nil {
		s.writeGenerationError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, generateResponse{Success: true, DietCount: res.DietCount, WorkoutCount: res.WorkoutCount})
}

func (s *Server) handleDietPlans(w http.ResponseWriter, r *http.Request) {
	owner := r.PathValue("id")
	if !s.authorizeOwner(w, r, owner) {
		return
	}
	entries, err := s.plans.ListDietPlans(r.Context(), owner)
	if err != nil {
		s.writeInternal(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleWorkoutPlans(w http.ResponseWriter, r *http.Request) {
	owner := r.PathValue("id")
	if !s.authorizeOwner(w, r, owner) {
		return
	}
	entries, err := s.plans.ListWorkoutPlans(r.Context(), owner)
	if err != nil {
		s.writeInternal(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleProgressToday(w http.ResponseWriter, r *http.Request) {
	owner := r.PathValue("id")
	if !s.authorizeOwner(w, r, owner) {
		return
	}

	var (
		day progress.Day
		err error
	)
	if raw := r.URL.Query().Get("date"); raw != "" {
		date, perr := time.Parse(progress.DateLayout, raw)
		if perr != nil {
			s.writeError(w, http.StatusBadRequest, string(planner.KindInvalidRequest), "date must be YYYY-MM-DD")
			return
		}
		day, err = s.progress.ForDate(r.Context(), owner, date)
	} else {
		day, err = s.progress.Today(r.Context(), owner)
	}
	if err != nil {
		s.writeInternal(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, day)
}

type toggleRequest struct {
	ItemType  string `json:"item_type"`
	ItemID    string `json:"item_id"`
	Completed bool   `json:"completed"`
	Date      string `json:"date"`
}

func (s *Server) handleToggleProgress(w http.ResponseWriter, r *http.Request) {
	owner := r.PathValue("id")
	if !s.authorizeOwner(w, r, owner) {
		return
	}
	var req toggleRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, string(planner.KindInvalidRequest), err.Error())
		return
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse(progress.DateLayout, req.Date)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, string(planner.KindInvalidRequest), "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	entry, err := s.progress.Toggle(r.Context(), owner, date, progress.ItemType(req.ItemType), req.ItemID, req.Completed)
	switch {
	case errors.Is(err, progress.ErrInvalidItemType):
		s.writeError(w, http.StatusBadRequest, string(planner.KindInvalidRequest), err.Error())
	case errors.Is(err, progress.ErrItemNotFound):
		s.writeError(w, http.StatusNotFound, "not_found", err.Error())
	case err != nil:
		s.writeInternal(w, r, err)
	default:
		s.writeJSON(w, http.StatusOK, entry)
	}
}

type healthResponse struct {
	Status string            `json:"status"`
	System metrics.SysHealth `json:"system"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok", System: metrics.GetSysHealth(s.databasePath)})
}
