package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/at-ishikawa/cardsrs/internal/card"
	"github.com/at-ishikawa/cardsrs/internal/review"
	"github.com/at-ishikawa/cardsrs/internal/srs"
)

const dateLayout = "2006-01-02"

var errEnd = errors.New("end")

// ReviewService is the part of review.Service used by the terminal session.
type ReviewService interface {
	NextCard(ctx context.Context, userID int64) (*card.Card, error)
	SubmitReview(ctx context.Context, userID int64, input review.SubmitReviewInput) (*review.ReviewResult, error)
}

// Session is one step of an interactive loop. Returning errEnd finishes the loop.
type Session interface {
	Session(ctx context.Context) error
}

// ReviewCLI reviews the due cards of a user in the terminal.
type ReviewCLI struct {
	svc          ReviewService
	userID       int64
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	italic       *color.Color
	green        *color.Color
	red          *color.Color
	reviewed     int
}

// NewReviewCLI creates a review session reading answers from in and writing to out.
func NewReviewCLI(svc ReviewService, userID int64, in io.Reader, out io.Writer) *ReviewCLI {
	return &ReviewCLI{
		svc:          svc,
		userID:       userID,
		stdinReader:  bufio.NewReader(in),
		stdoutWriter: out,
		bold:         color.New(color.Bold),
		italic:       color.New(color.Italic),
		green:        color.New(color.FgGreen),
		red:          color.New(color.FgRed),
	}
}

// Run repeats session until it ends, fails or the process is interrupted.
func (cli *ReviewCLI) Run(ctx context.Context, session Session) error {
	ctx, cancel := signal.NotifyContext(
		ctx,
		os.Interrupt,
	)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)

	LOOP:
		for {
			select {
			case <-ctx.Done():
				break LOOP
			default:
			}

			if err := session.Session(ctx); err != nil {
				if errors.Is(err, errEnd) {
					break
				}
				errCh <- err
				break
			}
		}
	}()
	select {
	case <-ctx.Done():
		_, _ = fmt.Fprintln(cli.stdoutWriter, "Received interrupt signal, exiting...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error: %w", err)
		}
	}
	return nil
}

// Session shows the next due card, reads the answer, the score and an optional comment,
// and submits the review.
func (cli *ReviewCLI) Session(ctx context.Context) error {
	current, err := cli.svc.NextCard(ctx, cli.userID)
	if errors.Is(err, review.ErrNoCardDue) {
		_, _ = fmt.Fprintf(cli.stdoutWriter, "No more cards to review! Reviewed %d card(s).\n", cli.reviewed)
		return errEnd
	}
	if err != nil {
		return fmt.Errorf("svc.NextCard() > %w", err)
	}

	_, _ = fmt.Fprintln(cli.stdoutWriter)
	_, _ = cli.bold.Fprintf(cli.stdoutWriter, "%s\n", current.Front)
	typed, err := cli.prompt("Your answer: ")
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cli.stdoutWriter, "Answer: %s\n", cli.italic.Sprint(current.Back))
	if notes := strings.TrimSpace(current.Notes); notes != "" {
		_, _ = fmt.Fprintf(cli.stdoutWriter, "Notes:\n%s\n", notes)
	}

	score, err := cli.readScore(typed, current.Back)
	if err != nil {
		return err
	}
	comment, err := cli.prompt("Comment (optional): ")
	if err != nil {
		return err
	}

	result, err := cli.svc.SubmitReview(ctx, cli.userID, review.SubmitReviewInput{
		CardID:     current.ID,
		Score:      &score,
		Comment:    comment,
		TypedInput: typed,
	})
	if err != nil {
		return fmt.Errorf("svc.SubmitReview() > %w", err)
	}
	cli.reviewed++

	next := result.Card.NextReviewDate.Format(dateLayout)
	if srs.ScoreToQuality(score).IsPass() {
		_, _ = fmt.Fprint(cli.stdoutWriter, "✅ ")
		_, _ = cli.green.Fprintf(cli.stdoutWriter, "Next review on %s (in %d day(s))\n", next, result.Card.IntervalDays)
	} else {
		_, _ = fmt.Fprint(cli.stdoutWriter, "❌ ")
		_, _ = cli.red.Fprintf(cli.stdoutWriter, "Next review on %s (in %d day(s))\n", next, result.Card.IntervalDays)
	}
	return nil
}

// readScore asks for a score between 0 and 1 until a valid one is entered.
// An empty score grades the typed answer: 1 when it matches the back of the card, 0 otherwise.
func (cli *ReviewCLI) readScore(typed, back string) (float64, error) {
	for {
		line, err := cli.prompt("Score (0-1, empty to check your answer): ")
		if err != nil {
			return 0, err
		}
		if line == "" {
			if strings.EqualFold(strings.TrimSpace(typed), strings.TrimSpace(back)) {
				return 1, nil
			}
			return 0, nil
		}
		score, err := strconv.ParseFloat(line, 64)
		if err == nil && score >= 0 && score <= 1 {
			return score, nil
		}
		_, _ = cli.red.Fprintf(cli.stdoutWriter, "%q is not a score between 0 and 1\n", line)
	}
}

func (cli *ReviewCLI) prompt(label string) (string, error) {
	_, _ = fmt.Fprint(cli.stdoutWriter, label)
	line, err := cli.stdinReader.ReadString('\n')
	if errors.Is(err, io.EOF) && line == "" {
		return "", errEnd
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("error reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
