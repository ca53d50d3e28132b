package card

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

//go:generate mockgen -source=repository.go -destination=../mocks/card/mock_repository.go -package=mock_card

// Repository defines operations for managing cards and their review history.
type Repository interface {
	Create(ctx context.Context, c *Card) error
	CreatePair(ctx context.Context, forward, reverse *Card) error
	Get(ctx context.Context, userID, id int64) (*Card, error)
	List(ctx context.Context, userID int64, page, pageSize int) ([]Card, int, error)
	ListAll(ctx context.Context, userID int64) ([]Card, error)
	Update(ctx context.Context, c *Card) error
	Delete(ctx context.Context, userID, id int64) error
	NextDue(ctx context.Context, userID int64, today time.Time) (*Card, error)
	SaveReview(ctx context.Context, c *Card, review *Review) error
	ListReviews(ctx context.Context, userID, cardID int64) ([]Review, error)
	ListAllReviews(ctx context.Context, userID int64) ([]Review, error)
	FindByFront(ctx context.Context, userID int64, front string) (*Card, error)
	FindByNumber(ctx context.Context, userID int64, number int) (*Card, error)
}

const cardColumns = `id, user_id, csv_number, front, back, notes, tags, pair_id, linked_card_id,
	ease_factor, interval_days, next_review_date, is_learning, learning_step,
	consecutive_correct_reviews, total_reviews, total_score_sum, version, created_at, updated_at`

const reviewColumns = `id, card_id, reviewed_at, user_score, comment, typed_input,
	interval_at_review, ease_factor_at_review`

// DBRepository implements Repository on sqlx. Queries use ? placeholders, which both
// the mysql and sqlite drivers accept.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// Create inserts a new card and sets its ID.
func (r *DBRepository) Create(ctx context.Context, card *Card) error {
	return insertCard(ctx, r.db, card)
}

// CreatePair inserts a forward card and its reverse, linked to each other and sharing a pair ID.
func (r *DBRepository) CreatePair(ctx context.Context, forward, reverse *Card) error {
	pairID := uuid.NewString()
	forward.PairID = &pairID
	reverse.PairID = &pairID

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db.BeginTxx() > %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := insertCard(ctx, tx, forward); err != nil {
		return err
	}
	reverse.LinkedCardID = &forward.ID
	if err := insertCard(ctx, tx, reverse); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE cards SET linked_card_id = ? WHERE id = ?",
		reverse.ID, forward.ID); err != nil {
		return fmt.Errorf("tx.ExecContext(link forward card) > %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("tx.Commit() > %w", err)
	}
	forward.LinkedCardID = &reverse.ID
	return nil
}

func insertCard(ctx context.Context, ext sqlx.ExtContext, card *Card) error {
	if card.Tags == nil {
		card.Tags = Tags{}
	}
	result, err := ext.ExecContext(ctx,
		`INSERT INTO cards (user_id, csv_number, front, back, notes, tags, pair_id, linked_card_id,
			ease_factor, interval_days, next_review_date, is_learning, learning_step,
			consecutive_correct_reviews, total_reviews, total_score_sum, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		card.UserID, card.Number, card.Front, card.Back, card.Notes, card.Tags, card.PairID, card.LinkedCardID,
		card.EaseFactor, card.IntervalDays, card.NextReviewDate.UTC(), card.IsLearning, card.LearningStep,
		card.ConsecutiveCorrectReviews, card.TotalReviews, card.TotalScoreSum, card.Version,
		card.CreatedAt.UTC(), card.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("ExecContext(insert card) > %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("result.LastInsertId() > %w", err)
	}
	card.ID = id
	return nil
}

// Get returns the card of userID with the given id, or ErrCardNotFound.
func (r *DBRepository) Get(ctx context.Context, userID, id int64) (*Card, error) {
	var card Card
	err := r.db.GetContext(ctx, &card,
		"SELECT "+cardColumns+" FROM cards WHERE user_id = ? AND id = ?", userID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(card) > %w", err)
	}
	return &card, nil
}

// List returns one page of the cards of userID in creation order, with the total count.
// page starts at 1.
func (r *DBRepository) List(ctx context.Context, userID int64, page, pageSize int) ([]Card, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM cards WHERE user_id = ?", userID); err != nil {
		return nil, 0, fmt.Errorf("db.GetContext(count cards) > %w", err)
	}
	if page < 1 {
		page = 1
	}
	cards := []Card{}
	if err := r.db.SelectContext(ctx, &cards,
		"SELECT "+cardColumns+" FROM cards WHERE user_id = ? ORDER BY id LIMIT ? OFFSET ?",
		userID, pageSize, (page-1)*pageSize); err != nil {
		return nil, 0, fmt.Errorf("db.SelectContext(cards) > %w", err)
	}
	return cards, total, nil
}

// ListAll returns every card of userID in creation order.
func (r *DBRepository) ListAll(ctx context.Context, userID int64) ([]Card, error) {
	cards := []Card{}
	if err := r.db.SelectContext(ctx, &cards,
		"SELECT "+cardColumns+" FROM cards WHERE user_id = ? ORDER BY id", userID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(all cards) > %w", err)
	}
	return cards, nil
}

// Update saves the content fields of card. The scheduling state is only written by SaveReview.
func (r *DBRepository) Update(ctx context.Context, card *Card) error {
	if card.Tags == nil {
		card.Tags = Tags{}
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE cards SET front = ?, back = ?, notes = ?, tags = ?, updated_at = ?, version = version + 1
		WHERE id = ? AND user_id = ? AND version = ?`,
		card.Front, card.Back, card.Notes, card.Tags, card.UpdatedAt.UTC(),
		card.ID, card.UserID, card.Version)
	if err != nil {
		return fmt.Errorf("db.ExecContext(update card) > %w", err)
	}
	if err := checkVersionedWrite(ctx, r.db, result, card); err != nil {
		return err
	}
	card.Version++
	return nil
}

// Delete removes a card with its reviews, and the card linked to it as its reverse.
func (r *DBRepository) Delete(ctx context.Context, userID, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db.BeginTxx() > %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var linkedID sql.NullInt64
	err = tx.GetContext(ctx, &linkedID,
		"SELECT linked_card_id FROM cards WHERE user_id = ? AND id = ?", userID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrCardNotFound
	}
	if err != nil {
		return fmt.Errorf("tx.GetContext(linked_card_id) > %w", err)
	}

	ids := []int64{id}
	if linkedID.Valid {
		ids = append(ids, linkedID.Int64)
	}
	query, args, err := sqlx.In("DELETE FROM cards WHERE user_id = ? AND id IN (?)", userID, ids)
	if err != nil {
		return fmt.Errorf("sqlx.In(delete cards) > %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
		return fmt.Errorf("tx.ExecContext(delete cards) > %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("tx.Commit() > %w", err)
	}
	return nil
}

// NextDue returns the card of userID to review on today, or nil when nothing is due.
// Graduated cards come before cards in the learning phase; within each group the
// earliest due date wins and ties go to the oldest card.
func (r *DBRepository) NextDue(ctx context.Context, userID int64, today time.Time) (*Card, error) {
	var card Card
	err := r.db.GetContext(ctx, &card,
		"SELECT "+cardColumns+` FROM cards
		WHERE user_id = ? AND next_review_date <= ?
		ORDER BY is_learning, next_review_date, id
		LIMIT 1`,
		userID, today.UTC())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(next due card) > %w", err)
	}
	return &card, nil
}

// SaveReview writes the scheduling state and notes of card and inserts review in one
// transaction. It fails with ErrConcurrencyConflict when the card changed after it was read.
func (r *DBRepository) SaveReview(ctx context.Context, card *Card, review *Review) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db.BeginTxx() > %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx,
		`UPDATE cards SET notes = ?, ease_factor = ?, interval_days = ?, next_review_date = ?,
			is_learning = ?, learning_step = ?, consecutive_correct_reviews = ?,
			total_reviews = ?, total_score_sum = ?, updated_at = ?, version = version + 1
		WHERE id = ? AND user_id = ? AND version = ?`,
		card.Notes, card.EaseFactor, card.IntervalDays, card.NextReviewDate.UTC(),
		card.IsLearning, card.LearningStep, card.ConsecutiveCorrectReviews,
		card.TotalReviews, card.TotalScoreSum, card.UpdatedAt.UTC(),
		card.ID, card.UserID, card.Version)
	if err != nil {
		return fmt.Errorf("tx.ExecContext(update card state) > %w", err)
	}
	if err := checkVersionedWrite(ctx, tx, result, card); err != nil {
		return err
	}

	review.CardID = card.ID
	inserted, err := tx.ExecContext(ctx,
		`INSERT INTO reviews (card_id, reviewed_at, user_score, comment, typed_input,
			interval_at_review, ease_factor_at_review)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		review.CardID, review.ReviewedAt.UTC(), review.UserScore, review.Comment, review.TypedInput,
		review.IntervalAtReview, review.EaseFactorAtReview)
	if err != nil {
		return fmt.Errorf("tx.ExecContext(insert review) > %w", err)
	}
	id, err := inserted.LastInsertId()
	if err != nil {
		return fmt.Errorf("result.LastInsertId() > %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("tx.Commit() > %w", err)
	}

	review.ID = id
	card.Version++
	return nil
}

// checkVersionedWrite tells apart a stale version from a missing card when a guarded
// update touched no row.
func checkVersionedWrite(ctx context.Context, q sqlx.QueryerContext, result sql.Result, card *Card) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("result.RowsAffected() > %w", err)
	}
	if affected > 0 {
		return nil
	}
	var exists int
	err = sqlx.GetContext(ctx, q, &exists,
		"SELECT COUNT(*) FROM cards WHERE id = ? AND user_id = ?", card.ID, card.UserID)
	if err != nil {
		return fmt.Errorf("GetContext(card exists) > %w", err)
	}
	if exists == 0 {
		return ErrCardNotFound
	}
	return ErrConcurrencyConflict
}

// ListReviews returns the reviews of a card of userID, oldest first.
func (r *DBRepository) ListReviews(ctx context.Context, userID, cardID int64) ([]Review, error) {
	reviews := []Review{}
	if err := r.db.SelectContext(ctx, &reviews,
		`SELECT r.id, r.card_id, r.reviewed_at, r.user_score, r.comment, r.typed_input,
			r.interval_at_review, r.ease_factor_at_review
		FROM reviews r JOIN cards c ON c.id = r.card_id
		WHERE c.user_id = ? AND r.card_id = ?
		ORDER BY r.reviewed_at, r.id`,
		userID, cardID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(reviews by card) > %w", err)
	}
	return reviews, nil
}

// ListAllReviews returns every review of the cards of userID, oldest first.
func (r *DBRepository) ListAllReviews(ctx context.Context, userID int64) ([]Review, error) {
	reviews := []Review{}
	if err := r.db.SelectContext(ctx, &reviews,
		`SELECT r.id, r.card_id, r.reviewed_at, r.user_score, r.comment, r.typed_input,
			r.interval_at_review, r.ease_factor_at_review
		FROM reviews r JOIN cards c ON c.id = r.card_id
		WHERE c.user_id = ?
		ORDER BY r.reviewed_at, r.id`,
		userID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(all reviews) > %w", err)
	}
	return reviews, nil
}

// FindByFront returns the oldest card of userID with the given front text, or nil if not found.
func (r *DBRepository) FindByFront(ctx context.Context, userID int64, front string) (*Card, error) {
	var card Card
	err := r.db.GetContext(ctx, &card,
		"SELECT "+cardColumns+" FROM cards WHERE user_id = ? AND front = ? ORDER BY id LIMIT 1",
		userID, front)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(card by front) > %w", err)
	}
	return &card, nil
}

// FindByNumber returns the card of userID imported from the given sheet row number, or nil if not found.
func (r *DBRepository) FindByNumber(ctx context.Context, userID int64, number int) (*Card, error) {
	var card Card
	err := r.db.GetContext(ctx, &card,
		"SELECT "+cardColumns+" FROM cards WHERE user_id = ? AND csv_number = ?",
		userID, number)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(card by number) > %w", err)
	}
	return &card, nil
}
