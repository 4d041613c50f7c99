package handler

import (
	"encoding/json"
	"net/http"

	"retohub/internal/api/middleware"
	"retohub/internal/app/service"
	"retohub/internal/common"

	"github.com/go-chi/chi/v5"
)

type SubmissionHandler struct {
	submissionService *service.SubmissionService
}

func NewSubmissionHandler(submissionService *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService}
}

// RegisterRoutes mounts submission routes under the challenges subtree.
func (h *SubmissionHandler) RegisterRoutes(r chi.Router) {
	r.Post("/{challengeID:[0-9]+}/submissions", h.create)
}

func (h *SubmissionHandler) create(w http.ResponseWriter, r *http.Request) {
	personID, ok := middleware.GetPersonIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
		return
	}

	challengeID, ok := urlParamInt(r, "challengeID")
	if !ok {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid challenge id")
		return
	}

	var req service.CreateSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	submission, err := h.submissionService.CreateSubmission(r.Context(), personID, challengeID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, submission)
}
