// Package server exposes the card use cases as an HTTP JSON API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/at-ishikawa/cardsrs/internal/card"
	"github.com/at-ishikawa/cardsrs/internal/config"
	"github.com/at-ishikawa/cardsrs/internal/review"
	"github.com/at-ishikawa/cardsrs/internal/statistics"
)

// CardService is the set of use cases served over HTTP.
type CardService interface {
	SubmitReview(ctx context.Context, userID int64, input review.SubmitReviewInput) (*review.ReviewResult, error)
	NextCard(ctx context.Context, userID int64) (*card.Card, error)
	CreateCard(ctx context.Context, userID int64, input review.CreateCardInput) ([]*card.Card, error)
	UpdateCard(ctx context.Context, userID int64, input review.UpdateCardInput) (*card.Card, error)
	DeleteCard(ctx context.Context, userID, id int64) error
	GetCard(ctx context.Context, userID, id int64) (*card.Card, error)
	ListCards(ctx context.Context, userID int64, page, pageSize int) (*review.Page, error)
	ListReviews(ctx context.Context, userID, cardID int64) ([]card.Review, error)
	Statistics(ctx context.Context, userID int64) (statistics.Statistics, error)
}

// NewHandler builds the root handler: routes wrapped with request IDs, access logging,
// CORS and HTTP/2 cleartext support.
func NewHandler(cfg config.ServerConfig, svc CardService, logger logrus.FieldLogger) http.Handler {
	mux := http.NewServeMux()
	NewCardHandler(svc, logger).Register(mux)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", userIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         3600,
	})

	var handler http.Handler = mux
	handler = accessLog(handler, logger)
	handler = requestID(handler)
	handler = corsHandler.Handler(handler)
	return h2c.NewHandler(handler, &http2.Server{})
}

// New returns an http.Server listening on the configured port.
func New(cfg config.ServerConfig, svc CardService, logger logrus.FieldLogger) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           NewHandler(cfg, svc, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
