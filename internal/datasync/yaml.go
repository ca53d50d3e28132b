package datasync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/cardsrs/internal/card"
	"github.com/at-ishikawa/cardsrs/internal/srs"
)

const exportFormatVersion = 1

type exportFile struct {
	Version    int          `yaml:"version"`
	ExportedAt time.Time    `yaml:"exported_at"`
	Cards      []exportCard `yaml:"cards"`
}

type exportCard struct {
	Front                     string         `yaml:"front"`
	Back                      string         `yaml:"back"`
	Notes                     string         `yaml:"notes,omitempty"`
	Tags                      []string       `yaml:"tags,omitempty"`
	Number                    *int           `yaml:"number,omitempty"`
	PairID                    string         `yaml:"pair_id,omitempty"`
	EaseFactor                float64        `yaml:"ease_factor"`
	IntervalDays              int            `yaml:"interval_days"`
	NextReviewDate            string         `yaml:"next_review_date"`
	IsLearning                bool           `yaml:"is_learning"`
	LearningStep              *int           `yaml:"learning_step,omitempty"`
	ConsecutiveCorrectReviews int            `yaml:"consecutive_correct_reviews"`
	TotalReviews              int            `yaml:"total_reviews"`
	TotalScoreSum             float64        `yaml:"total_score_sum"`
	CreatedAt                 time.Time      `yaml:"created_at"`
	Reviews                   []exportReview `yaml:"reviews,omitempty"`
}

type exportReview struct {
	ReviewedAt         time.Time `yaml:"reviewed_at"`
	UserScore          float64   `yaml:"user_score"`
	Comment            string    `yaml:"comment,omitempty"`
	TypedInput         string    `yaml:"typed_input,omitempty"`
	IntervalAtReview   int       `yaml:"interval_at_review"`
	EaseFactorAtReview float64   `yaml:"ease_factor_at_review"`
}

// Exporter writes the cards of a user with their review history as YAML.
type Exporter struct {
	repo  card.Repository
	clock func() time.Time
}

// NewExporter creates a new Exporter.
func NewExporter(repo card.Repository) *Exporter {
	return &Exporter{
		repo:  repo,
		clock: time.Now,
	}
}

// ExportYAML writes every card of userID and its reviews to w. It returns the number of cards written.
func (e *Exporter) ExportYAML(ctx context.Context, userID int64, w io.Writer) (int, error) {
	cards, err := e.repo.ListAll(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("repo.ListAll() > %w", err)
	}
	reviews, err := e.repo.ListAllReviews(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("repo.ListAllReviews() > %w", err)
	}
	reviewsByCard := lo.GroupBy(reviews, func(r card.Review) int64 {
		return r.CardID
	})

	out := exportFile{
		Version:    exportFormatVersion,
		ExportedAt: e.clock().UTC(),
		Cards: lo.Map(cards, func(c card.Card, _ int) exportCard {
			return toExportCard(c, reviewsByCard[c.ID])
		}),
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(out); err != nil {
		return 0, fmt.Errorf("encoder.Encode() > %w", err)
	}
	if err := encoder.Close(); err != nil {
		return 0, fmt.Errorf("encoder.Close() > %w", err)
	}
	return len(cards), nil
}

func toExportCard(c card.Card, reviews []card.Review) exportCard {
	out := exportCard{
		Front:                     c.Front,
		Back:                      c.Back,
		Notes:                     c.Notes,
		Tags:                      c.Tags,
		Number:                    c.Number,
		PairID:                    lo.FromPtr(c.PairID),
		EaseFactor:                c.EaseFactor,
		IntervalDays:              c.IntervalDays,
		NextReviewDate:            c.NextReviewDate.Format(time.DateOnly),
		IsLearning:                c.IsLearning,
		LearningStep:              c.LearningStep,
		ConsecutiveCorrectReviews: c.ConsecutiveCorrectReviews,
		TotalReviews:              c.TotalReviews,
		TotalScoreSum:             c.TotalScoreSum,
		CreatedAt:                 c.CreatedAt.UTC(),
	}
	out.Reviews = lo.Map(reviews, func(r card.Review, _ int) exportReview {
		return exportReview{
			ReviewedAt:         r.ReviewedAt.UTC(),
			UserScore:          r.UserScore,
			Comment:            lo.FromPtr(r.Comment),
			TypedInput:         lo.FromPtr(r.TypedInput),
			IntervalAtReview:   r.IntervalAtReview,
			EaseFactorAtReview: r.EaseFactorAtReview,
		}
	})
	return out
}

// ImportYAML restores cards written by ExportYAML for userID. Cards whose number, or
// front text when they have none, already exist are skipped.
func (imp *Importer) ImportYAML(ctx context.Context, userID int64, r io.Reader, opts ImportOptions) (*ImportResult, error) {
	var in exportFile
	if err := yaml.NewDecoder(r).Decode(&in); err != nil {
		if errors.Is(err, io.EOF) {
			return &ImportResult{}, nil
		}
		return nil, fmt.Errorf("decoder.Decode() > %w", err)
	}
	if in.Version != exportFormatVersion {
		return nil, fmt.Errorf("unsupported export version %d", in.Version)
	}

	var result ImportResult
	for i, ec := range in.Cards {
		c, err := fromExportCard(userID, ec)
		if err != nil {
			fmt.Fprintf(imp.writer, "  [FAIL]  card %d: %v\n", i+1, err)
			result.Failed++
			continue
		}

		duplicate, err := imp.isDuplicate(ctx, userID, c.Number, c.Front)
		if err != nil {
			return nil, fmt.Errorf("isDuplicate() > %w", err)
		}
		if duplicate {
			fmt.Fprintf(imp.writer, "  [SKIP]  %q\n", c.Front)
			result.Skipped++
			continue
		}

		if !opts.DryRun {
			if err := imp.repo.Create(ctx, c); err != nil {
				return nil, fmt.Errorf("Create() > %w", err)
			}
			for _, er := range ec.Reviews {
				review := &card.Review{
					ReviewedAt:         er.ReviewedAt.UTC(),
					UserScore:          er.UserScore,
					Comment:            lo.EmptyableToPtr(er.Comment),
					TypedInput:         lo.EmptyableToPtr(er.TypedInput),
					IntervalAtReview:   er.IntervalAtReview,
					EaseFactorAtReview: er.EaseFactorAtReview,
				}
				if err := imp.repo.SaveReview(ctx, c, review); err != nil {
					return nil, fmt.Errorf("SaveReview() > %w", err)
				}
			}
		}
		fmt.Fprintf(imp.writer, "  [NEW]  %q (%d reviews)\n", c.Front, len(ec.Reviews))
		result.Imported++
		result.Reviews += len(ec.Reviews)
	}
	return &result, nil
}

func fromExportCard(userID int64, ec exportCard) (*card.Card, error) {
	if ec.Front == "" || ec.Back == "" {
		return nil, errors.New("front and back are required")
	}
	nextReviewDate, err := time.Parse(time.DateOnly, ec.NextReviewDate)
	if err != nil {
		return nil, fmt.Errorf("invalid next_review_date %q", ec.NextReviewDate)
	}
	createdAt := ec.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = nextReviewDate
	}

	c := card.New(userID, ec.Front, ec.Back, createdAt)
	c.Notes = ec.Notes
	c.Tags = append(card.Tags{}, ec.Tags...)
	c.Number = ec.Number
	c.PairID = lo.EmptyableToPtr(ec.PairID)
	c.State = srs.State{
		EaseFactor:                ec.EaseFactor,
		IntervalDays:              ec.IntervalDays,
		NextReviewDate:            nextReviewDate,
		IsLearning:                ec.IsLearning,
		LearningStep:              ec.LearningStep,
		ConsecutiveCorrectReviews: ec.ConsecutiveCorrectReviews,
		TotalReviews:              ec.TotalReviews,
		TotalScoreSum:             ec.TotalScoreSum,
	}
	if c.EaseFactor == 0 {
		c.EaseFactor = srs.InitialEaseFactor
	}
	return c, nil
}
