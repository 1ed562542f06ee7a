package daemon

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tablerohq/tablero/internal/models"
	"github.com/tablerohq/tablero/internal/policy"
	"github.com/tablerohq/tablero/internal/services/story"
	"github.com/tablerohq/tablero/internal/types"
)

// errorBody is the JSON error envelope for all API errors
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// createProjectRequest is the body for POST /api/projects
type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// createStoryRequest is the body for POST /api/projects/{projectID}/stories
type createStoryRequest struct {
	Title              string           `json:"title"`
	Description        string           `json:"description"`
	Type               models.StoryType `json:"type"`
	Priority           string           `json:"priority"`
	Estimate           *int             `json:"estimate"`
	AcceptanceCriteria string           `json:"acceptance_criteria"`
}

// updateStatusRequest is the body for PUT /api/stories/{storyID}/status
type updateStatusRequest struct {
	Status models.Status `json:"status"`
}

// setLimitRequest is the body for PUT /api/projects/{projectID}/columns/{status}/limit.
// A null limit removes the cap.
type setLimitRequest struct {
	Limit *int `json:"limit"`
}

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectIDParam(w, r)
	if !ok {
		return
	}

	board, err := s.stories.GetBoard(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (s *Server) handleCreateStory(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectIDParam(w, r)
	if !ok {
		return
	}

	var req createStoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}

	priority := models.PriorityMedium
	if req.Priority != "" {
		var err error
		priority, err = models.ParsePriority(req.Priority)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
	}

	created, err := s.stories.CreateStory(r.Context(), story.CreateStoryRequest{
		ProjectID:          projectID,
		Title:              req.Title,
		Description:        req.Description,
		Type:               req.Type,
		Priority:           priority,
		Estimate:           req.Estimate,
		AcceptanceCriteria: req.AcceptanceCriteria,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetStory(w http.ResponseWriter, r *http.Request) {
	storyID := types.StoryID(chi.URLParam(r, "storyID"))

	found, err := s.stories.GetStory(r.Context(), storyID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, found)
}

func (s *Server) handleUpdateStoryStatus(w http.ResponseWriter, r *http.Request) {
	storyID := types.StoryID(chi.URLParam(r, "storyID"))

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}

	moved, err := s.stories.UpdateStoryStatus(r.Context(), storyID, req.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, moved)
}

func (s *Server) handleDeleteStory(w http.ResponseWriter, r *http.Request) {
	storyID := types.StoryID(chi.URLParam(r, "storyID"))

	if err := s.stories.DeleteStory(r.Context(), storyID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetColumnLimit(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectIDParam(w, r)
	if !ok {
		return
	}
	status, err := models.ParseStatus(chi.URLParam(r, "status"))
	if err != nil {
		writeError(w, http.StatusNotFound, "column_not_found", err.Error())
		return
	}

	var req setLimitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}

	if err := s.stories.SetColumnLimit(r.Context(), projectID, status, req.Limit); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// projectIDParam extracts and validates the projectID route parameter
func projectIDParam(w http.ResponseWriter, r *http.Request) (types.ProjectID, bool) {
	raw := chi.URLParam(r, "projectID")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid project ID")
		return 0, false
	}
	return types.ProjectID(id), true
}

// writeServiceError maps story service errors onto HTTP status codes and
// machine-readable error codes. Move rejections are 409 or 422 so clients
// can tell them apart from transport failures and roll back cleanly.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, story.ErrStoryNotFound):
		writeError(w, http.StatusNotFound, "story_not_found", err.Error())
	case errors.Is(err, story.ErrProjectNotFound):
		writeError(w, http.StatusNotFound, "project_not_found", err.Error())
	case errors.Is(err, story.ErrColumnNotFound):
		writeError(w, http.StatusNotFound, "column_not_found", err.Error())
	case errors.Is(err, story.ErrStaleMove):
		writeError(w, http.StatusConflict, "stale_move", err.Error())
	case errors.Is(err, story.ErrIllegalTransition):
		writeError(w, http.StatusUnprocessableEntity, "illegal_transition", err.Error())
	case errors.Is(err, story.ErrWIPLimitExceeded):
		writeError(w, http.StatusUnprocessableEntity, "wip_limit_exceeded", err.Error())
	case errors.Is(err, story.ErrCompletionRequirementsUnmet):
		writeError(w, http.StatusUnprocessableEntity, "completion_requirements_unmet", err.Error())
	case errors.Is(err, policy.ErrLimitOutOfBounds), errors.Is(err, policy.ErrUnknownStatus):
		writeError(w, http.StatusUnprocessableEntity, "limit_out_of_bounds", err.Error())
	case errors.Is(err, story.ErrEmptyTitle),
		errors.Is(err, story.ErrTitleTooLong),
		errors.Is(err, story.ErrInvalidProjectID),
		errors.Is(err, story.ErrInvalidStoryID),
		errors.Is(err, story.ErrInvalidEstimate):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		slog.Error("internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
