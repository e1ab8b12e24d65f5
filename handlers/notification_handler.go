package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"plantPactAPI/internal/types/notification"
	"plantPactAPI/middleware"
	"plantPactAPI/services"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) Sting(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userNo, ok := middleware.UserNo(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req notification.StingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	n, err := h.notificationService.Sting(ctx, userNo, req.Message)
	if err != nil {
		respondError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, n)
}

func (h *NotificationHandler) StingCount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userNo, ok := middleware.UserNo(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	count, err := h.notificationService.StingCountToday(ctx, userNo)
	if err != nil {
		respondError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]int{"count": count})
}
