package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/LoveUwUBotForeverMcBoss1999/tictactoe/internal/apperror"
)

type SummaryHandler struct {
	logger         *slog.Logger
	summaryService summaryService
}

func NewSummaryHandler(logger *slog.Logger, summaryService summaryService) *SummaryHandler {
	return &SummaryHandler{
		logger:         logger.With("component", "rest"),
		summaryService: summaryService,
	}
}

// GetSummary - live or archived session totals.
func (that *SummaryHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "GetSummary")

	sessionID := chi.URLParam(r, "sessionID")

	summary, err := that.summaryService.Summary(r.Context(), sessionID)
	if errors.Is(err, apperror.ErrSessionNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}

	if err != nil {
		log.Error("failed to get summary", "sessionID", sessionID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})

		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(body)
}
