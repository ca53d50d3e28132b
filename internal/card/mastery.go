package card

// Level classifies how well a card is known.
type Level string

const (
	LevelNew       Level = "new"
	LevelLearning  Level = "learning"
	LevelReviewing Level = "reviewing"
	LevelMastered  Level = "mastered"
)

const (
	masteredStreak       = 3
	masteredAverageScore = 0.85
)

// Mastery is the mastery classification of a card with the figures it is based on.
type Mastery struct {
	Level        Level   `json:"level"`
	AverageScore float64 `json:"average_score"`
	Streak       int     `json:"streak"`
}

// MasteryLevel classifies c from its review counters.
func MasteryLevel(c *Card) Mastery {
	m := Mastery{
		AverageScore: c.AverageScore(),
		Streak:       c.ConsecutiveCorrectReviews,
	}
	switch {
	case c.TotalReviews == 0:
		m.Level = LevelNew
	case c.IsLearning:
		m.Level = LevelLearning
	case m.Streak >= masteredStreak && m.AverageScore >= masteredAverageScore:
		m.Level = LevelMastered
	default:
		m.Level = LevelReviewing
	}
	return m
}
