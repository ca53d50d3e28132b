// Package datasync imports cards from spreadsheets and moves cards with their review
// history between the database and YAML files.
package datasync

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/at-ishikawa/cardsrs/internal/card"
)

// ImportResult tracks counts for each import operation.
type ImportResult struct {
	Imported int
	Skipped  int
	Failed   int
	Reviews  int
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun bool
	// CreateReverse also creates the reverse card of every imported card.
	CreateReverse bool
}

// Importer writes cards read from files to a card.Repository.
type Importer struct {
	repo   card.Repository
	writer io.Writer
	clock  func() time.Time
}

// NewImporter creates a new Importer. Progress lines are written to writer.
func NewImporter(repo card.Repository, writer io.Writer) *Importer {
	return &Importer{
		repo:   repo,
		writer: writer,
		clock:  time.Now,
	}
}

// isDuplicate reports whether userID already owns a card with the given number, or
// with the same front text when there is no number.
func (imp *Importer) isDuplicate(ctx context.Context, userID int64, number *int, front string) (bool, error) {
	if number != nil {
		existing, err := imp.repo.FindByNumber(ctx, userID, *number)
		if err != nil {
			return false, fmt.Errorf("FindByNumber(%d) > %w", *number, err)
		}
		return existing != nil, nil
	}
	existing, err := imp.repo.FindByFront(ctx, userID, front)
	if err != nil {
		return false, fmt.Errorf("FindByFront(%s) > %w", front, err)
	}
	return existing != nil, nil
}

func (imp *Importer) create(ctx context.Context, c *card.Card, opts ImportOptions) error {
	if opts.DryRun {
		return nil
	}
	if !opts.CreateReverse {
		if err := imp.repo.Create(ctx, c); err != nil {
			return fmt.Errorf("Create() > %w", err)
		}
		return nil
	}
	reverse := card.New(c.UserID, c.Back, c.Front, c.CreatedAt)
	reverse.Notes = c.Notes
	reverse.Tags = c.Tags
	if err := imp.repo.CreatePair(ctx, c, reverse); err != nil {
		return fmt.Errorf("CreatePair() > %w", err)
	}
	return nil
}
