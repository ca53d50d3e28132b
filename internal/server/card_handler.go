package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/at-ishikawa/cardsrs/internal/card"
	"github.com/at-ishikawa/cardsrs/internal/review"
)

const maxBodyBytes = 1 << 20

// CardHandler serves the /api/cards endpoints.
type CardHandler struct {
	svc    CardService
	logger logrus.FieldLogger
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(svc CardService, logger logrus.FieldLogger) *CardHandler {
	return &CardHandler{svc: svc, logger: logger}
}

// Register adds the card routes to mux.
func (h *CardHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/cards", h.withUser(h.listCards))
	mux.HandleFunc("POST /api/cards", h.withUser(h.createCard))
	mux.HandleFunc("GET /api/cards/next", h.withUser(h.nextCard))
	mux.HandleFunc("POST /api/cards/submit-review", h.withUser(h.submitReview))
	mux.HandleFunc("GET /api/cards/statistics", h.withUser(h.statistics))
	mux.HandleFunc("GET /api/cards/{id}", h.withUser(h.getCard))
	mux.HandleFunc("PUT /api/cards/{id}", h.withUser(h.updateCard))
	mux.HandleFunc("DELETE /api/cards/{id}", h.withUser(h.deleteCard))
	mux.HandleFunc("GET /api/cards/{id}/reviews", h.withUser(h.listReviews))
}

type userHandlerFunc func(w http.ResponseWriter, r *http.Request, userID int64)

// withUser resolves the authenticated user from the X-User-Id header set by the
// authenticating proxy.
func (h *CardHandler) withUser(next userHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.Header.Get(userIDHeader), 10, 64)
		if err != nil || userID <= 0 {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
			return
		}
		next(w, r, userID)
	}
}

type cardView struct {
	*card.Card
	MasteryLevel card.Mastery `json:"mastery_level"`
}

func newCardView(c *card.Card) cardView {
	return cardView{Card: c, MasteryLevel: card.MasteryLevel(c)}
}

type listCardsResponse struct {
	Count    int        `json:"count"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
	Results  []cardView `json:"results"`
}

func (h *CardHandler) listCards(w http.ResponseWriter, r *http.Request, userID int64) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	result, err := h.svc.ListCards(r.Context(), userID, page, pageSize)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, listCardsResponse{
		Count:    result.Total,
		Page:     result.Page,
		PageSize: result.PageSize,
		Results: lo.Map(result.Cards, func(c card.Card, _ int) cardView {
			return newCardView(&c)
		}),
	})
}

type createCardResponse struct {
	Cards []cardView `json:"cards"`
}

func (h *CardHandler) createCard(w http.ResponseWriter, r *http.Request, userID int64) {
	var input review.CreateCardInput
	if err := decodeBody(w, r, &input); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	created, err := h.svc.CreateCard(r.Context(), userID, input)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, createCardResponse{
		Cards: lo.Map(created, func(c *card.Card, _ int) cardView {
			return newCardView(c)
		}),
	})
}

func (h *CardHandler) nextCard(w http.ResponseWriter, r *http.Request, userID int64) {
	c, err := h.svc.NextCard(r.Context(), userID)
	if errors.Is(err, review.ErrNoCardDue) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newCardView(c))
}

type submitReviewResponse struct {
	Card   cardView     `json:"card"`
	Review *card.Review `json:"review"`
}

func (h *CardHandler) submitReview(w http.ResponseWriter, r *http.Request, userID int64) {
	var input review.SubmitReviewInput
	if err := decodeBody(w, r, &input); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	result, err := h.svc.SubmitReview(r.Context(), userID, input)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, submitReviewResponse{
		Card:   newCardView(result.Card),
		Review: result.Review,
	})
}

func (h *CardHandler) statistics(w http.ResponseWriter, r *http.Request, userID int64) {
	stats, err := h.svc.Statistics(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *CardHandler) getCard(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	c, err := h.svc.GetCard(r.Context(), userID, id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newCardView(c))
}

func (h *CardHandler) updateCard(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var input review.UpdateCardInput
	if err := decodeBody(w, r, &input); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	input.ID = id
	c, err := h.svc.UpdateCard(r.Context(), userID, input)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newCardView(c))
}

func (h *CardHandler) deleteCard(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.svc.DeleteCard(r.Context(), userID, id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CardHandler) listReviews(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	reviews, err := h.svc.ListReviews(r.Context(), userID, id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid card id %q", review.ErrInvalidInput, r.PathValue("id"))
	}
	return id, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", review.ErrInvalidInput, err)
	}
	return nil
}
