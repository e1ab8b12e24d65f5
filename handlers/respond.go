package handlers

import (
	"encoding/json"
	"net/http"

	"plantPactAPI/internal/apperr"
	"plantPactAPI/utils"
)

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondError maps a service error to its status, code and safe message.
// Internals of fatal errors are logged here and never reach the client.
func respondError(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		utils.Log.Errorw("internal error", "error", err)
	}
	respondWithJSON(w, status, map[string]string{
		"code":  apperr.CodeOf(err),
		"error": apperr.MessageOf(err),
	})
}
