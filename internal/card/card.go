// Package card provides the flashcard entity, its review history and the repository
// that persists both.
package card

import (
	"time"

	"github.com/at-ishikawa/cardsrs/internal/srs"
)

// Card is a flashcard owned by a user.
type Card struct {
	ID     int64 `db:"id" json:"id"`
	UserID int64 `db:"user_id" json:"user_id"`
	// Number is the row number of the sheet the card was imported from, if any.
	Number       *int    `db:"csv_number" json:"number,omitempty"`
	Front        string  `db:"front" json:"front"`
	Back         string  `db:"back" json:"back"`
	Notes        string  `db:"notes" json:"notes"`
	Tags         Tags    `db:"tags" json:"tags"`
	PairID       *string `db:"pair_id" json:"pair_id,omitempty"`
	LinkedCardID *int64  `db:"linked_card_id" json:"linked_card_id,omitempty"`

	srs.State

	Version   int64     `db:"version" json:"version"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// New returns a card for userID with the scheduling state of a new item.
func New(userID int64, front, back string, now time.Time) *Card {
	return &Card{
		UserID:    userID,
		Front:     front,
		Back:      back,
		Tags:      Tags{},
		State:     srs.NewState(now),
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

// SRSState returns the scheduling state of the card.
func (c *Card) SRSState() srs.State {
	return c.State
}

// SetSRSState replaces the scheduling state of the card.
func (c *Card) SetSRSState(state srs.State) {
	c.State = state
}

// Review is one row of the append-only review history of a card.
type Review struct {
	ID                 int64     `db:"id" json:"id"`
	CardID             int64     `db:"card_id" json:"card_id"`
	ReviewedAt         time.Time `db:"reviewed_at" json:"reviewed_at"`
	UserScore          float64   `db:"user_score" json:"user_score"`
	Comment            *string   `db:"comment" json:"comment,omitempty"`
	TypedInput         *string   `db:"typed_input" json:"typed_input,omitempty"`
	IntervalAtReview   int       `db:"interval_at_review" json:"interval_at_review"`
	EaseFactorAtReview float64   `db:"ease_factor_at_review" json:"ease_factor_at_review"`
}

// NewReview converts a scheduler log entry into a review row of cardID.
// Empty comment and typed input are stored as NULL.
func NewReview(cardID int64, log srs.ReviewLog, typedInput string) *Review {
	return &Review{
		CardID:             cardID,
		ReviewedAt:         log.ReviewedAt.UTC(),
		UserScore:          log.UserScore,
		Comment:            nonEmpty(log.Comment),
		TypedInput:         nonEmpty(typedInput),
		IntervalAtReview:   log.IntervalAtReview,
		EaseFactorAtReview: log.EaseFactorAtReview,
	}
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
