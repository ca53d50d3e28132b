// Package review implements the use cases around cards: submitting a review, picking
// the next card to study and managing card content.
package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/at-ishikawa/cardsrs/internal/card"
	"github.com/at-ishikawa/cardsrs/internal/srs"
	"github.com/at-ishikawa/cardsrs/internal/statistics"
)

var (
	ErrInvalidScore = errors.New("invalid score")
	ErrInvalidInput = errors.New("invalid input")
	ErrNoCardDue    = errors.New("no card is due")
)

const (
	scoreField = "user_score"

	DefaultMaxAttempts = 3
	DefaultPageSize    = 20
	MaxPageSize        = 100
)

// SubmitReviewInput is a review of one card.
type SubmitReviewInput struct {
	CardID     int64    `json:"card_id" validate:"gt=0"`
	Score      *float64 `json:"user_score" validate:"required,gte=0,lte=1"`
	Comment    string   `json:"user_comment_addon" validate:"max=2000"`
	TypedInput string   `json:"typed_input" validate:"max=2000"`
}

// ReviewResult is the outcome of a submitted review.
type ReviewResult struct {
	Card   *card.Card
	Review *card.Review
	Log    srs.ReviewLog
}

// CreateCardInput describes a new card.
type CreateCardInput struct {
	Front         string   `json:"front" validate:"required,max=1000"`
	Back          string   `json:"back" validate:"required,max=1000"`
	Notes         string   `json:"notes" validate:"max=10000"`
	Tags          []string `json:"tags" validate:"max=20,dive,required,max=50"`
	CreateReverse bool     `json:"create_reverse"`
	Number        *int     `json:"number" validate:"omitempty,gt=0"`
}

// UpdateCardInput replaces the content of a card.
type UpdateCardInput struct {
	ID    int64    `json:"id" validate:"gt=0"`
	Front string   `json:"front" validate:"required,max=1000"`
	Back  string   `json:"back" validate:"required,max=1000"`
	Notes string   `json:"notes" validate:"max=10000"`
	Tags  []string `json:"tags" validate:"max=20,dive,required,max=50"`
}

// Page is one page of a user's cards.
type Page struct {
	Cards    []card.Card
	Total    int
	Page     int
	PageSize int
}

// Service runs the card use cases on top of a card.Repository.
type Service struct {
	repo        card.Repository
	scheduler   *srs.Scheduler
	validator   *validator.Validate
	translator  ut.Translator
	logger      logrus.FieldLogger
	clock       func() time.Time
	maxAttempts uint
	retryDelay  time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the source of the current time.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithMaxAttempts sets how many times a review is tried when it races with another write.
func WithMaxAttempts(attempts uint) Option {
	return func(s *Service) {
		if attempts > 0 {
			s.maxAttempts = attempts
		}
	}
}

// WithRetryDelay sets the base delay between attempts of a conflicting review.
func WithRetryDelay(delay time.Duration) Option {
	return func(s *Service) {
		s.retryDelay = delay
	}
}

// NewService creates a Service.
func NewService(repo card.Repository, logger logrus.FieldLogger, opts ...Option) (*Service, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("newValidator() > %w", err)
	}
	s := &Service{
		repo:        repo,
		scheduler:   srs.NewScheduler(),
		validator:   validate,
		translator:  trans,
		logger:      logger,
		clock:       time.Now,
		maxAttempts: DefaultMaxAttempts,
		retryDelay:  50 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SubmitReview grades a card of userID with the given score, appends the comment to
// its notes and stores the card together with the new review. When another write
// changed the card in between, the card is read again and graded from its fresh state.
func (s *Service) SubmitReview(ctx context.Context, userID int64, input SubmitReviewInput) (*ReviewResult, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}
	score := *input.Score
	logger := s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"card_id": input.CardID,
	})

	var result *ReviewResult
	err := retry.Do(
		func() error {
			c, err := s.repo.Get(ctx, userID, input.CardID)
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("repo.Get() > %w", err))
			}

			now := s.clock()
			log := s.scheduler.GradeItem(c, score, input.Comment, now)
			c.Notes = card.AppendComment(c.Notes, input.Comment, now)
			c.UpdatedAt = now.UTC()
			review := card.NewReview(c.ID, log, input.TypedInput)

			if err := s.repo.SaveReview(ctx, c, review); err != nil {
				if errors.Is(err, card.ErrConcurrencyConflict) {
					return err
				}
				return retry.Unrecoverable(fmt.Errorf("repo.SaveReview() > %w", err))
			}
			result = &ReviewResult{Card: c, Review: review, Log: log}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(s.maxAttempts),
		retry.Delay(s.retryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.WithError(err).WithField("attempt", n+1).Warn("retrying review after a concurrent update")
		}),
	)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"quality":          result.Log.Quality,
		"interval_days":    result.Card.IntervalDays,
		"next_review_date": result.Card.NextReviewDate.Format(time.DateOnly),
	}).Debug("review saved")
	return result, nil
}

// NextCard returns the card userID should study now, or ErrNoCardDue.
func (s *Service) NextCard(ctx context.Context, userID int64) (*card.Card, error) {
	c, err := s.repo.NextDue(ctx, userID, srs.Today(s.clock()))
	if err != nil {
		return nil, fmt.Errorf("repo.NextDue() > %w", err)
	}
	if c == nil {
		return nil, ErrNoCardDue
	}
	return c, nil
}

// CreateCard creates a card for userID, and its reverse when requested.
// The created cards are returned forward card first.
func (s *Service) CreateCard(ctx context.Context, userID int64, input CreateCardInput) ([]*card.Card, error) {
	input.Front = strings.TrimSpace(input.Front)
	input.Back = strings.TrimSpace(input.Back)
	if err := s.validate(input); err != nil {
		return nil, err
	}

	now := s.clock()
	forward := card.New(userID, input.Front, input.Back, now)
	forward.Notes = input.Notes
	forward.Tags = normalizeTags(input.Tags)
	forward.Number = input.Number

	if !input.CreateReverse {
		if err := s.repo.Create(ctx, forward); err != nil {
			return nil, fmt.Errorf("repo.Create() > %w", err)
		}
		return []*card.Card{forward}, nil
	}

	reverse := card.New(userID, input.Back, input.Front, now)
	reverse.Notes = input.Notes
	reverse.Tags = normalizeTags(input.Tags)
	if err := s.repo.CreatePair(ctx, forward, reverse); err != nil {
		return nil, fmt.Errorf("repo.CreatePair() > %w", err)
	}
	return []*card.Card{forward, reverse}, nil
}

// UpdateCard replaces the content of a card of userID. Scheduling state is kept.
func (s *Service) UpdateCard(ctx context.Context, userID int64, input UpdateCardInput) (*card.Card, error) {
	input.Front = strings.TrimSpace(input.Front)
	input.Back = strings.TrimSpace(input.Back)
	if err := s.validate(input); err != nil {
		return nil, err
	}

	c, err := s.repo.Get(ctx, userID, input.ID)
	if err != nil {
		return nil, fmt.Errorf("repo.Get() > %w", err)
	}
	c.Front = input.Front
	c.Back = input.Back
	c.Notes = input.Notes
	c.Tags = normalizeTags(input.Tags)
	c.UpdatedAt = s.clock().UTC()
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("repo.Update() > %w", err)
	}
	return c, nil
}

// DeleteCard deletes a card of userID and its linked reverse card.
func (s *Service) DeleteCard(ctx context.Context, userID, id int64) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("repo.Delete() > %w", err)
	}
	return nil
}

// GetCard returns a card of userID.
func (s *Service) GetCard(ctx context.Context, userID, id int64) (*card.Card, error) {
	c, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("repo.Get() > %w", err)
	}
	return c, nil
}

// ListCards returns one page of the cards of userID. Page numbers start at 1 and the
// page size falls back to DefaultPageSize when out of range.
func (s *Service) ListCards(ctx context.Context, userID int64, page, pageSize int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}
	cards, total, err := s.repo.List(ctx, userID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("repo.List() > %w", err)
	}
	return &Page{Cards: cards, Total: total, Page: page, PageSize: pageSize}, nil
}

// ListReviews returns the review history of a card of userID, oldest first.
func (s *Service) ListReviews(ctx context.Context, userID, cardID int64) ([]card.Review, error) {
	if _, err := s.repo.Get(ctx, userID, cardID); err != nil {
		return nil, fmt.Errorf("repo.Get() > %w", err)
	}
	reviews, err := s.repo.ListReviews(ctx, userID, cardID)
	if err != nil {
		return nil, fmt.Errorf("repo.ListReviews() > %w", err)
	}
	return reviews, nil
}

// Statistics computes the study statistics of userID as of now.
func (s *Service) Statistics(ctx context.Context, userID int64) (statistics.Statistics, error) {
	cards, err := s.repo.ListAll(ctx, userID)
	if err != nil {
		return statistics.Statistics{}, fmt.Errorf("repo.ListAll() > %w", err)
	}
	reviews, err := s.repo.ListAllReviews(ctx, userID)
	if err != nil {
		return statistics.Statistics{}, fmt.Errorf("repo.ListAllReviews() > %w", err)
	}
	return statistics.Calculate(cards, reviews, s.clock()), nil
}

func normalizeTags(tags []string) card.Tags {
	out := card.Tags{}
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
