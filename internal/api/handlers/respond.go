package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wonny/rankboard/internal/contracts"
	"github.com/wonny/rankboard/pkg/logger"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondFailure maps the ranking error taxonomy onto HTTP status codes
func respondFailure(w http.ResponseWriter, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, contracts.ErrInvalidArgument):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, contracts.ErrDataUnavailable):
		respondError(w, http.StatusNotFound, "No data available for the selected period")
	default:
		log.WithError(err).Error("Ranking request failed")
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
