package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"plantPactAPI/internal/types/commit"
	"plantPactAPI/internal/types/notification"
	"plantPactAPI/middleware"
	"plantPactAPI/services"
)

type CommitHandler struct {
	commitService       *services.CommitService
	notificationService *services.NotificationService
}

func NewCommitHandler(commitService *services.CommitService, notificationService *services.NotificationService) *CommitHandler {
	return &CommitHandler{
		commitService:       commitService,
		notificationService: notificationService,
	}
}

func (h *CommitHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userNo, ok := middleware.UserNo(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req commit.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	c, err := h.commitService.Create(ctx, userNo, req)
	if err != nil {
		respondError(w, err)
		return
	}

	h.notificationService.NotifyPartner(ctx, userNo, c.Text, notification.TypeCommit)
	respondWithJSON(w, http.StatusCreated, c)
}

func (h *CommitHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userNo, ok := middleware.UserNo(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	commitNo, ok := pathInt64(r, "commitNo")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid commit number")
		return
	}

	c, err := h.commitService.Find(ctx, userNo, commitNo)
	if err != nil {
		respondError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, c)
}

// Today returns the caller's commit for the current day, or null.
func (h *CommitHandler) Today(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userNo, ok := middleware.UserNo(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	challengeNo, err := strconv.ParseInt(r.URL.Query().Get("challengeNo"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'challengeNo' is required")
		return
	}

	c, err := h.commitService.FindToday(ctx, challengeNo, userNo)
	if err != nil {
		respondError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, c)
}

func (h *CommitHandler) AddPartnerComment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userNo, ok := middleware.UserNo(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	commitNo, ok := pathInt64(r, "commitNo")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid commit number")
		return
	}

	var req commit.PartnerCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	c, err := h.commitService.AddPartnerComment(ctx, userNo, commitNo, req.Comment)
	if err != nil {
		respondError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, c)
}

func (h *CommitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userNo, ok := middleware.UserNo(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	commitNo, ok := pathInt64(r, "commitNo")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid commit number")
		return
	}

	if err := h.commitService.Delete(ctx, userNo, commitNo); err != nil {
		respondError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]int64{"commitNo": commitNo})
}
