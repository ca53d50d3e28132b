// Package srs implements the spaced repetition scheduler that grades an item and
// computes its next interval, ease factor and due date.
package srs

import (
	"math"
	"time"
)

const (
	InitialEaseFactor  = 2.5
	MinEaseFactor      = 1.3
	GraduatingInterval = 4
	LapseInterval      = 0
	LapseEasePenalty   = 0.20

	// MasteryThreshold is the score a review must exceed to extend the correct streak.
	MasteryThreshold = 0.8
)

// LearningSteps are the intervals in days of the learning phase, in order.
var LearningSteps = [...]int{1, 3}

// Schedulable is implemented by any entity carrying a scheduling State.
type Schedulable interface {
	SRSState() State
	SetSRSState(State)
}

// Scheduler grades reviews. It holds no mutable state and is safe for concurrent use.
type Scheduler struct{}

// NewScheduler creates a Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Grade applies a review with the given score to state and returns the new state with
// the log entry describing the review. The score is expected to be within [0, 1].
// The input state is not modified.
func (s *Scheduler) Grade(state State, score float64, comment string, now time.Time) (State, ReviewLog) {
	quality := ScoreToQuality(score)
	log := ReviewLog{
		ReviewedAt:         now,
		UserScore:          score,
		Quality:            quality,
		Comment:            comment,
		IntervalAtReview:   state.IntervalDays,
		EaseFactorAtReview: state.EaseFactor,
	}

	next := state.clone()
	if next.EaseFactor == 0 {
		next.EaseFactor = InitialEaseFactor
	}
	if score > MasteryThreshold {
		next.ConsecutiveCorrectReviews++
	} else {
		next.ConsecutiveCorrectReviews = 0
	}

	if next.IsLearning {
		s.gradeLearning(&next, quality)
	} else {
		s.gradeReview(&next, quality)
	}
	if quality.IsPass() {
		next.EaseFactor = math.Max(MinEaseFactor, next.EaseFactor+quality.easeDelta())
	}

	next.NextReviewDate = Today(now).AddDate(0, 0, next.IntervalDays)
	next.TotalReviews++
	next.TotalScoreSum += score
	return next, log
}

// GradeItem grades item in place and returns the log entry.
func (s *Scheduler) GradeItem(item Schedulable, score float64, comment string, now time.Time) ReviewLog {
	next, log := s.Grade(item.SRSState(), score, comment, now)
	item.SetSRSState(next)
	return log
}

func (s *Scheduler) gradeLearning(st *State, q Quality) {
	if !q.IsPass() {
		st.IntervalDays = 0
		st.LearningStep = nil
		return
	}

	nextStep := st.currentLearningStep() + 1
	if nextStep < len(LearningSteps) {
		st.IntervalDays = LearningSteps[nextStep]
		st.setLearningStep(nextStep)
		return
	}
	s.graduate(st)
}

func (s *Scheduler) gradeReview(st *State, q Quality) {
	if !q.IsPass() {
		s.lapse(st)
		return
	}

	if st.IntervalDays == 0 {
		st.IntervalDays = GraduatingInterval
		return
	}
	// Ties round to even.
	st.IntervalDays = int(math.RoundToEven(float64(st.IntervalDays) * st.EaseFactor))
}

func (s *Scheduler) graduate(st *State) {
	st.IsLearning = false
	st.IntervalDays = GraduatingInterval
	st.LearningStep = nil
}

func (s *Scheduler) lapse(st *State) {
	st.IsLearning = true
	st.IntervalDays = LapseInterval
	st.LearningStep = nil
	st.EaseFactor = math.Max(MinEaseFactor, st.EaseFactor-LapseEasePenalty)
}
