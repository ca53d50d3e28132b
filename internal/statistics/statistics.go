// Package statistics aggregates cards and their review history into study statistics.
package statistics

import (
	"time"

	"github.com/samber/lo"

	"github.com/at-ishikawa/cardsrs/internal/card"
	"github.com/at-ishikawa/cardsrs/internal/srs"
)

// DailyReviewDays is the number of days, today included, covered by Statistics.DailyReviews.
const DailyReviewDays = 7

// Statistics holds the study statistics of one user
type Statistics struct {
	TotalCards          int          `json:"total_cards"`
	NewCards            int          `json:"new_cards"`
	LearningCards       int          `json:"learning_cards"`
	ReviewingCards      int          `json:"reviewing_cards"`
	MasteredCards       int          `json:"mastered_cards"`
	DueToday            int          `json:"due_today"`
	ReviewsToday        int          `json:"reviews_today"`
	TotalReviewsAllTime int          `json:"total_reviews_all_time"`
	OverallAverageScore *float64     `json:"overall_average_score"` // nil until the first review
	AverageEaseFactor   float64      `json:"average_ease_factor"`
	DailyReviews        []DailyCount `json:"daily_reviews"` // oldest day first
}

// DailyCount is the number of reviews done on one calendar day
type DailyCount struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Count int     `json:"count"`
	Score float64 `json:"average_score"`
}

// Calculate computes the statistics of cards and reviews as seen on the calendar day of now.
// Review timestamps are assigned to days in the location of now.
func Calculate(cards []card.Card, reviews []card.Review, now time.Time) Statistics {
	today := srs.Today(now)
	stats := Statistics{
		TotalCards:          len(cards),
		TotalReviewsAllTime: len(reviews),
	}

	var easeSum float64
	for i := range cards {
		c := &cards[i]
		switch card.MasteryLevel(c).Level {
		case card.LevelNew:
			stats.NewCards++
		case card.LevelLearning:
			stats.LearningCards++
		case card.LevelMastered:
			stats.MasteredCards++
		default:
			stats.ReviewingCards++
		}
		if c.IsDue(now) {
			stats.DueToday++
		}
		easeSum += c.EaseFactor
	}
	if len(cards) > 0 {
		stats.AverageEaseFactor = easeSum / float64(len(cards))
	}

	if len(reviews) > 0 {
		average := lo.SumBy(reviews, func(r card.Review) float64 {
			return r.UserScore
		}) / float64(len(reviews))
		stats.OverallAverageScore = &average
	}

	byDay := lo.GroupBy(reviews, func(r card.Review) time.Time {
		return srs.Today(r.ReviewedAt.In(now.Location()))
	})
	stats.ReviewsToday = len(byDay[today])

	stats.DailyReviews = make([]DailyCount, 0, DailyReviewDays)
	for offset := DailyReviewDays - 1; offset >= 0; offset-- {
		day := today.AddDate(0, 0, -offset)
		dayReviews := byDay[day]
		count := DailyCount{
			Date:  day.Format(time.DateOnly),
			Count: len(dayReviews),
		}
		if len(dayReviews) > 0 {
			count.Score = lo.SumBy(dayReviews, func(r card.Review) float64 {
				return r.UserScore
			}) / float64(len(dayReviews))
		}
		stats.DailyReviews = append(stats.DailyReviews, count)
	}

	return stats
}
