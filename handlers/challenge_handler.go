package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"plantPactAPI/internal/types/challenge"
	"plantPactAPI/internal/types/notification"
	"plantPactAPI/middleware"
	"plantPactAPI/services"
)

type ChallengeHandler struct {
	challengeService    *services.ChallengeService
	notificationService *services.NotificationService
}

func NewChallengeHandler(challengeService *services.ChallengeService, notificationService *services.NotificationService) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService:    challengeService,
		notificationService: notificationService,
	}
}

func pathInt64(r *http.Request, name string) (int64, bool) {
	raw, ok := mux.Vars(r)[name]
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	return v, err == nil
}

func (h *ChallengeHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userNo, ok := middleware.UserNo(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req challenge.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ch, err := h.challengeService.Create(ctx, userNo, req)
	if err != nil {
		respondError(w, err)
		return
	}

	h.notificationService.NotifyPartner(ctx, userNo, ch.Name, notification.TypeChallengeCreate)
	respondWithJSON(w, http.StatusCreated, ch)
}

func (h *ChallengeHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userNo, ok := middleware.UserNo(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	challengeNo, ok := pathInt64(r, "challengeNo")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid challenge number")
		return
	}

	if err := h.challengeService.ValidateAccessible(ctx, userNo, challengeNo); err != nil {
		respondError(w, err)
		return
	}

	detail, err := h.challengeService.FindWithCommits(ctx, challengeNo)
	if err != nil {
		respondError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, detail)
}

func (h *ChallengeHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userNo, ok := middleware.UserNo(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	list, err := h.challengeService.FindUserChallenges(ctx, userNo)
	if err != nil {
		respondError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, list)
}

func (h *ChallengeHandler) Recent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userNo, ok := middleware.UserNo(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	ch, err := h.challengeService.FindRecent(ctx, userNo)
	if err != nil {
		respondError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, ch)
}

func (h *ChallengeHandler) Approve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userNo, ok := middleware.UserNo(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	challengeNo, ok := pathInt64(r, "challengeNo")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid challenge number")
		return
	}

	var req challenge.ApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.challengeService.ValidateAccessible(ctx, userNo, challengeNo); err != nil {
		respondError(w, err)
		return
	}

	ch, err := h.challengeService.Approve(ctx, challengeNo, req.User1Flower)
	if err != nil {
		respondError(w, err)
		return
	}

	h.notificationService.NotifyPartner(ctx, userNo, ch.Name, notification.TypeChallengeApprove)
	respondWithJSON(w, http.StatusOK, ch)
}

func (h *ChallengeHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userNo, ok := middleware.UserNo(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	challengeNo, ok := pathInt64(r, "challengeNo")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid challenge number")
		return
	}

	var req challenge.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.challengeService.ValidateAccessible(ctx, userNo, challengeNo); err != nil {
		respondError(w, err)
		return
	}

	ch, err := h.challengeService.Update(ctx, challengeNo, req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, ch)
}

func (h *ChallengeHandler) Finish(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userNo, ok := middleware.UserNo(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	challengeNo, ok := pathInt64(r, "challengeNo")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid challenge number")
		return
	}

	if err := h.challengeService.ValidateAccessible(ctx, userNo, challengeNo); err != nil {
		respondError(w, err)
		return
	}

	ch, err := h.challengeService.Finish(ctx, challengeNo)
	if err != nil {
		respondError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, ch)
}

func (h *ChallengeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userNo, ok := middleware.UserNo(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	challengeNo, ok := pathInt64(r, "challengeNo")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid challenge number")
		return
	}

	if err := h.challengeService.ValidateAccessible(ctx, userNo, challengeNo); err != nil {
		respondError(w, err)
		return
	}

	deletedNo, err := h.challengeService.Delete(ctx, challengeNo)
	if err != nil {
		respondError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]int64{"challengeNo": deletedNo})
}

// Histories lists finished and in-progress challenges with display labels.
func (h *ChallengeHandler) Histories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userNo, ok := middleware.UserNo(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	entries, err := h.challengeService.History(ctx, userNo)
	if err != nil {
		respondError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, entries)
}

func (h *ChallengeHandler) GrowthDiary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userNo, ok := middleware.UserNo(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	challengeNo, ok := pathInt64(r, "challengeNo")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid challenge number")
		return
	}

	diary, err := h.challengeService.GrowthDiary(ctx, userNo, challengeNo)
	if err != nil {
		respondError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, diary)
}
