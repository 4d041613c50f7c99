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

type SocialHandler struct {
	socialService *service.SocialService
}

func NewSocialHandler(socialService *service.SocialService) *SocialHandler {
	return &SocialHandler{socialService: socialService}
}

func (h *SocialHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.createPost)
	r.Get("/", h.listPosts)
	r.Get("/{postID:[0-9]+}", h.getPost)
	r.Post("/{postID:[0-9]+}/comments", h.createComment)
	r.Post("/{postID:[0-9]+}/reactions", h.setReaction)
	r.Delete("/{postID:[0-9]+}/reactions", h.removeReaction)
}

type createPostRequest struct {
	Content string `json:"content"`
}

type createCommentRequest struct {
	Content         string `json:"content"`
	ParentCommentID *int   `json:"parentCommentId,omitempty"`
}

type setReactionRequest struct {
	ReactionTypeID int `json:"reactionTypeId"`
}

func (h *SocialHandler) createPost(w http.ResponseWriter, r *http.Request) {
	personID, ok := middleware.GetPersonIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
		return
	}

	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	post, err := h.socialService.CreatePost(r.Context(), personID, req.Content)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, post)
}

func (h *SocialHandler) listPosts(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	posts, err := h.socialService.ListPosts(r.Context(), page, pageSize)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, posts)
}

func (h *SocialHandler) getPost(w http.ResponseWriter, r *http.Request) {
	postID, ok := urlParamInt(r, "postID")
	if !ok {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid post id")
		return
	}
	detail, err := h.socialService.GetPostDetail(r.Context(), postID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, detail)
}

func (h *SocialHandler) createComment(w http.ResponseWriter, r *http.Request) {
	personID, ok := middleware.GetPersonIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
		return
	}

	postID, ok := urlParamInt(r, "postID")
	if !ok {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid post id")
		return
	}

	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	comment, err := h.socialService.CreateComment(r.Context(), personID, postID, req.Content, req.ParentCommentID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, comment)
}

func (h *SocialHandler) setReaction(w http.ResponseWriter, r *http.Request) {
	personID, ok := middleware.GetPersonIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
		return
	}

	postID, ok := urlParamInt(r, "postID")
	if !ok {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid post id")
		return
	}

	var req setReactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	outcome, err := h.socialService.SetReaction(r.Context(), personID, postID, req.ReactionTypeID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	switch outcome {
	case model.ReactionCreated:
		common.RespondWithMessage(w, http.StatusCreated, "Reaction recorded")
	case model.ReactionUpdated:
		common.RespondWithMessage(w, http.StatusOK, "Reaction updated")
	default:
		common.RespondWithMessage(w, http.StatusOK, "Reaction unchanged")
	}
}

func (h *SocialHandler) removeReaction(w http.ResponseWriter, r *http.Request) {
	personID, ok := middleware.GetPersonIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
		return
	}

	postID, ok := urlParamInt(r, "postID")
	if !ok {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid post id")
		return
	}

	if err := h.socialService.RemoveReaction(r.Context(), personID, postID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithMessage(w, http.StatusOK, "Reaction removed")
}
