package srs

import "time"

// ReviewLog records one grading event. IntervalAtReview and EaseFactorAtReview hold
// the values the item had before the grading was applied.
type ReviewLog struct {
	ReviewedAt         time.Time
	UserScore          float64
	Quality            Quality
	Comment            string
	IntervalAtReview   int
	EaseFactorAtReview float64
}
