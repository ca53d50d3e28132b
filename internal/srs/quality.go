package srs

// Quality is the SM-2 style 0-5 recall grade derived from a continuous score.
type Quality int

const (
	// QualityBlackout is a complete failure to recall.
	QualityBlackout Quality = iota
	// QualityIncorrectRemembered is a wrong answer where the right one was recognized.
	QualityIncorrectRemembered
	// QualityIncorrectEasy is a wrong answer where the right one seemed easy once shown.
	QualityIncorrectEasy
	// QualityCorrectDifficult is a correct answer recalled with serious difficulty.
	QualityCorrectDifficult
	// QualityCorrect is a correct answer after some hesitation.
	QualityCorrect
	// QualityPerfect is a perfect answer.
	QualityPerfect
)

// PassingQuality is the lowest quality treated as a successful recall.
const PassingQuality = QualityCorrectDifficult

// ScoreToQuality maps a score in [0, 1] to a Quality bucket.
func ScoreToQuality(score float64) Quality {
	switch {
	case score >= 0.9:
		return QualityPerfect
	case score >= 0.8:
		return QualityCorrect
	case score >= 0.6:
		return QualityCorrectDifficult
	case score >= 0.4:
		return QualityIncorrectEasy
	case score >= 0.2:
		return QualityIncorrectRemembered
	default:
		return QualityBlackout
	}
}

// IsPass reports whether q counts as a successful recall.
func (q Quality) IsPass() bool {
	return q >= PassingQuality
}

// easeDelta returns the SM-2 ease factor adjustment for q.
func (q Quality) easeDelta() float64 {
	d := float64(QualityPerfect - q)
	return 0.1 - d*(0.08+d*0.02)
}
