package cli

import (
	"bytes"
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/cardsrs/internal/card"
	"github.com/at-ishikawa/cardsrs/internal/review"
	"github.com/at-ishikawa/cardsrs/internal/testutil"
)

var testNow = time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

func newTestReviewCLI(t *testing.T, input string, fronts ...string) (*ReviewCLI, *card.DBRepository, *bytes.Buffer) {
	t.Helper()
	repo := card.NewDBRepository(testutil.NewTestDB(t))
	logger, _ := test.NewNullLogger()
	svc, err := review.NewService(repo, logger,
		review.WithClock(func() time.Time { return testNow }),
		review.WithRetryDelay(0),
	)
	require.NoError(t, err)

	for i, front := range fronts {
		c := card.New(1, front, "hello", testNow.Add(time.Duration(i)*time.Minute))
		require.NoError(t, repo.Create(context.Background(), c))
	}

	var out bytes.Buffer
	return NewReviewCLI(svc, 1, strings.NewReader(input), &out), repo, &out
}

func TestReviewCLI_Session(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantOutput   []string
		wantInterval int
		wantScore    float64
		wantNotes    string
		wantTyped    *string
	}{
		{
			name:         "empty score checks the typed answer",
			input:        "Hello\n\n\n",
			wantOutput:   []string{"hola", "Answer: hello", "✅ Next review on 2025-03-11 (in 1 day(s))"},
			wantInterval: 1,
			wantScore:    1,
			wantTyped:    ptr("Hello"),
		},
		{
			name:         "wrong typed answer with a comment",
			input:        "adios\n\nmixed it up\n",
			wantOutput:   []string{"❌ Next review on 2025-03-10 (in 0 day(s))"},
			wantInterval: 0,
			wantScore:    0,
			wantNotes:    "15:30 Mar 10, 2025: mixed it up",
			wantTyped:    ptr("adios"),
		},
		{
			name:         "invalid score is asked again",
			input:        "\n1.5\nabc\n0.7\n\n",
			wantOutput:   []string{`"1.5" is not a score between 0 and 1`, `"abc" is not a score between 0 and 1`, "✅"},
			wantInterval: 1,
			wantScore:    0.7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli, repo, out := newTestReviewCLI(t, tt.input, "hola")

			require.NoError(t, cli.Session(context.Background()))
			for _, want := range tt.wantOutput {
				assert.Contains(t, out.String(), want)
			}
			assert.Equal(t, 1, cli.reviewed)

			cards, err := repo.ListAll(context.Background(), 1)
			require.NoError(t, err)
			require.Len(t, cards, 1)
			assert.Equal(t, tt.wantInterval, cards[0].IntervalDays)
			assert.Equal(t, tt.wantNotes, cards[0].Notes)

			reviews, err := repo.ListAllReviews(context.Background(), 1)
			require.NoError(t, err)
			require.Len(t, reviews, 1)
			assert.Equal(t, tt.wantScore, reviews[0].UserScore)
			assert.Equal(t, tt.wantTyped, reviews[0].TypedInput)
		})
	}
}

func TestReviewCLI_Session_End(t *testing.T) {
	t.Run("no card due", func(t *testing.T) {
		cli, _, out := newTestReviewCLI(t, "")
		err := cli.Session(context.Background())
		assert.ErrorIs(t, err, errEnd)
		assert.Contains(t, out.String(), "No more cards to review! Reviewed 0 card(s).")
	})

	t.Run("input closed", func(t *testing.T) {
		cli, repo, _ := newTestReviewCLI(t, "", "hola")
		err := cli.Session(context.Background())
		assert.ErrorIs(t, err, errEnd)

		reviews, err := repo.ListAllReviews(context.Background(), 1)
		require.NoError(t, err)
		assert.Empty(t, reviews)
	})
}

func TestReviewCLI_Run(t *testing.T) {
	cli, repo, out := newTestReviewCLI(t, "hello\n0.95\n\nhello\n0.9\n\n", "hola", "buenos días")

	require.NoError(t, cli.Run(context.Background(), cli))
	assert.Contains(t, out.String(), "No more cards to review! Reviewed 2 card(s).")

	reviews, err := repo.ListAllReviews(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
}

type failingSession struct {
	calls int
}

func (s *failingSession) Session(context.Context) error {
	s.calls++
	if s.calls == 2 {
		return errors.New("broken")
	}
	return nil
}

func TestReviewCLI_Run_Error(t *testing.T) {
	cli, _, _ := newTestReviewCLI(t, "")
	session := &failingSession{}

	err := cli.Run(context.Background(), session)
	assert.EqualError(t, err, "error: broken")
	assert.Equal(t, 2, session.calls)
}

func TestReviewCLI_Run_Canceled(t *testing.T) {
	cli, _, _ := newTestReviewCLI(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, cli.Run(ctx, blockingSession{}))
}

// lateErrorSession fails only after the loop it runs in was interrupted.
type lateErrorSession struct {
	started chan struct{}
	release chan struct{}
}

func (s *lateErrorSession) Session(context.Context) error {
	close(s.started)
	<-s.release
	return errors.New("broken after interrupt")
}

func TestReviewCLI_Run_ErrorAfterInterrupt(t *testing.T) {
	cli, _, _ := newTestReviewCLI(t, "")
	require.Error(t, cli.Run(context.Background(), &failingSession{}))
	before := runtime.NumGoroutine()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	session := &lateErrorSession{started: make(chan struct{}), release: make(chan struct{})}
	runErr := make(chan error, 1)
	go func() {
		runErr <- cli.Run(ctx, session)
	}()

	<-session.started
	cancel()
	require.NoError(t, <-runErr)
	close(session.release)

	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before
	}, time.Second, 10*time.Millisecond)
}

type blockingSession struct{}

func (blockingSession) Session(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func ptr[T any](v T) *T {
	return &v
}
