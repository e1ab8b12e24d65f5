package handlers

import (
	"context"
	"net/http"
	"time"

	"plantPactAPI/middleware"
	"plantPactAPI/services"
)

type ViewHandler struct {
	viewService *services.ViewService
}

func NewViewHandler(viewService *services.ViewService) *ViewHandler {
	return &ViewHandler{
		viewService: viewService,
	}
}

// Home is the single aggregate read behind the app's main screen.
func (h *ViewHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userNo, ok := middleware.UserNo(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	home, err := h.viewService.Home(ctx, userNo)
	if err != nil {
		respondError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, home)
}
