package handler

import (
	"encoding/json"
	"net/http"

	"retohub/internal/api/middleware"
	"retohub/internal/app/service"
	"retohub/internal/common"
	"retohub/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type PersonHandler struct {
	personService *service.PersonService
}

func NewPersonHandler(personService *service.PersonService) *PersonHandler {
	return &PersonHandler{personService: personService}
}

func (h *PersonHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{personID}", h.get)
	r.Put("/{personID}", h.update)
	r.Delete("/{personID}", h.delete)
}

// RegisterRankingRoutes mounts the leaderboard endpoint; the router wraps
// it with the authenticated + active-account middleware.
func (h *PersonHandler) RegisterRankingRoutes(r chi.Router) {
	r.Get("/", h.ranking)
}

// RegisterProfileRoutes mounts the authenticated self-lookup.
func (h *PersonHandler) RegisterProfileRoutes(r chi.Router) {
	r.Get("/", h.profile)
}

// RegisterDevRoutes mounts the temporary judge-accept simulator. A real
// judge callback should replace this.
func (h *PersonHandler) RegisterDevRoutes(r chi.Router) {
	r.Post("/simulate-accept", h.simulateAccepted)
}

func (h *PersonHandler) list(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	persons, err := h.personService.List(r.Context(), page, pageSize)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, persons)
}

func (h *PersonHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "personID")
	if !ok {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid person id")
		return
	}
	person, err := h.personService.Get(r.Context(), id)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, person)
}

func (h *PersonHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "personID")
	if !ok {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid person id")
		return
	}
	var upd model.PersonUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if err := h.personService.Update(r.Context(), id, upd); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithMessage(w, http.StatusOK, "Person updated")
}

func (h *PersonHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "personID")
	if !ok {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid person id")
		return
	}
	if err := h.personService.Delete(r.Context(), id); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithMessage(w, http.StatusOK, "Person deactivated")
}

func (h *PersonHandler) profile(w http.ResponseWriter, r *http.Request) {
	personID, ok := middleware.GetPersonIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
		return
	}
	person, err := h.personService.Get(r.Context(), personID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, person)
}

func (h *PersonHandler) ranking(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	entries, err := h.personService.Ranking(r.Context(), page, pageSize)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, entries)
}

type simulateAcceptRequest struct {
	PersonID    int  `json:"person_id"`
	ScoreDelta  int  `json:"score_delta"`
	SolvedDelta *int `json:"solved_delta"` // defaults to 1
}

func (h *PersonHandler) simulateAccepted(w http.ResponseWriter, r *http.Request) {
	var req simulateAcceptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if req.PersonID < 1 || req.ScoreDelta == 0 {
		common.RespondWithError(w, http.StatusBadRequest, "person_id and score_delta are required")
		return
	}
	solvedDelta := 1
	if req.SolvedDelta != nil {
		solvedDelta = *req.SolvedDelta
	}
	if err := h.personService.SimulateAccepted(r.Context(), req.PersonID, req.ScoreDelta, solvedDelta); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithMessage(w, http.StatusOK, "Score updated (judge simulation)")
}
