package statistics

import (
	"fmt"
	"io"
	"strings"
)

// RenderMarkdown writes stats as a markdown report titled with the given date.
func RenderMarkdown(w io.Writer, stats Statistics, date string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Study statistics %s\n\n", date)

	b.WriteString("## Cards\n\n")
	fmt.Fprintf(&b, "- Total: %d\n", stats.TotalCards)
	fmt.Fprintf(&b, "- New: %d\n", stats.NewCards)
	fmt.Fprintf(&b, "- Learning: %d\n", stats.LearningCards)
	fmt.Fprintf(&b, "- Reviewing: %d\n", stats.ReviewingCards)
	fmt.Fprintf(&b, "- Mastered: %d\n", stats.MasteredCards)
	fmt.Fprintf(&b, "- Due today: %d\n", stats.DueToday)
	fmt.Fprintf(&b, "- Average ease factor: %.2f\n\n", stats.AverageEaseFactor)

	b.WriteString("## Reviews\n\n")
	fmt.Fprintf(&b, "- Today: %d\n", stats.ReviewsToday)
	fmt.Fprintf(&b, "- All time: %d\n", stats.TotalReviewsAllTime)
	if stats.OverallAverageScore != nil {
		fmt.Fprintf(&b, "- Average score: %.2f\n\n", *stats.OverallAverageScore)
	} else {
		b.WriteString("- Average score: -\n\n")
	}

	if len(stats.DailyReviews) > 0 {
		b.WriteString("## Last days\n\n")
		b.WriteString("| Date | Reviews | Average score |\n")
		b.WriteString("|------|---------|---------------|\n")
		for _, day := range stats.DailyReviews {
			score := "-"
			if day.Count > 0 {
				score = fmt.Sprintf("%.2f", day.Score)
			}
			fmt.Fprintf(&b, "| %s | %d | %s |\n", day.Date, day.Count, score)
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("io.WriteString() > %w", err)
	}
	return nil
}
