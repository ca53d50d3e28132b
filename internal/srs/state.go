package srs

import "time"

// State is the scheduling state carried by every reviewable item.
type State struct {
	EaseFactor     float64   `db:"ease_factor" json:"ease_factor" yaml:"ease_factor"`
	IntervalDays   int       `db:"interval_days" json:"interval_days" yaml:"interval_days"`
	NextReviewDate time.Time `db:"next_review_date" json:"next_review_date" yaml:"next_review_date"`
	IsLearning     bool      `db:"is_learning" json:"is_learning" yaml:"is_learning"`
	// LearningStep is the index into LearningSteps the item currently sits on.
	// nil means the item has not reached the first learning step yet.
	LearningStep              *int    `db:"learning_step" json:"learning_step,omitempty" yaml:"learning_step,omitempty"`
	ConsecutiveCorrectReviews int     `db:"consecutive_correct_reviews" json:"consecutive_correct_reviews" yaml:"consecutive_correct_reviews"`
	TotalReviews              int     `db:"total_reviews" json:"total_reviews" yaml:"total_reviews"`
	TotalScoreSum             float64 `db:"total_score_sum" json:"total_score_sum" yaml:"total_score_sum"`
}

// NewState returns the state of a brand new item, due on the calendar day of now.
func NewState(now time.Time) State {
	return State{
		EaseFactor:     InitialEaseFactor,
		IntervalDays:   0,
		NextReviewDate: Today(now),
		IsLearning:     true,
	}
}

// AverageScore returns the mean of all scores so far, or 0 when never reviewed.
func (s State) AverageScore() float64 {
	if s.TotalReviews == 0 {
		return 0
	}
	return s.TotalScoreSum / float64(s.TotalReviews)
}

// IsDue reports whether the item should be shown on the calendar day of now.
func (s State) IsDue(now time.Time) bool {
	return !s.NextReviewDate.After(Today(now))
}

// currentLearningStep returns the step index the item is on, or -1 before the first step.
// Rows without an explicit step fall back to matching IntervalDays against LearningSteps.
func (s State) currentLearningStep() int {
	if s.LearningStep != nil {
		return *s.LearningStep
	}
	for i, days := range LearningSteps {
		if s.IntervalDays == days {
			return i
		}
	}
	return -1
}

func (s State) clone() State {
	out := s
	if s.LearningStep != nil {
		step := *s.LearningStep
		out.LearningStep = &step
	}
	return out
}

func (s *State) setLearningStep(step int) {
	s.LearningStep = &step
}

// Today truncates t to its calendar date, expressed as midnight UTC.
func Today(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
