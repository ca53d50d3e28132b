package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/at-ishikawa/cardsrs/internal/card"
	"github.com/at-ishikawa/cardsrs/internal/review"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// statusOf maps a use case error to its HTTP status code.
func statusOf(err error) int {
	switch {
	case errors.Is(err, review.ErrInvalidScore), errors.Is(err, review.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, card.ErrCardNotFound):
		return http.StatusNotFound
	case errors.Is(err, card.ErrConcurrencyConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, logger logrus.FieldLogger, err error) {
	status := statusOf(err)
	message := err.Error()
	switch status {
	case http.StatusInternalServerError:
		logger.WithError(err).WithField("request_id", requestIDFrom(r.Context())).Error("internal error")
		message = "internal server error"
	case http.StatusNotFound:
		message = card.ErrCardNotFound.Error()
	case http.StatusConflict:
		message = card.ErrConcurrencyConflict.Error()
	}
	writeJSON(w, status, errorResponse{Error: message})
}
