package handler

import (
	"encoding/json"
	"net/http"

	"retohub/internal/app/service"
	"retohub/internal/common"

	"github.com/go-chi/chi/v5"
)

type ChallengeHandler struct {
	challengeService *service.ChallengeService
}

func NewChallengeHandler(challengeService *service.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{challengeService: challengeService}
}

func (h *ChallengeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{challengeID:[0-9]+}", h.get)
	r.Get("/slug/{challengeSlug}", h.getBySlug)
}

func (h *ChallengeHandler) create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	challenge, err := h.challengeService.CreateChallenge(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, challenge)
}

func (h *ChallengeHandler) list(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	challenges, err := h.challengeService.ListChallenges(r.Context(), page, pageSize)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, challenges)
}

func (h *ChallengeHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "challengeID")
	if !ok {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid challenge id")
		return
	}
	detail, err := h.challengeService.GetChallengeByID(r.Context(), id)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, detail)
}

func (h *ChallengeHandler) getBySlug(w http.ResponseWriter, r *http.Request) {
	detail, err := h.challengeService.GetChallengeBySlug(r.Context(), chi.URLParam(r, "challengeSlug"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, detail)
}
