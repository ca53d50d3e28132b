package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/cardsrs/internal/card"
	"github.com/at-ishikawa/cardsrs/internal/config"
	mock_card "github.com/at-ishikawa/cardsrs/internal/mocks/card"
	"github.com/at-ishikawa/cardsrs/internal/review"
	"github.com/at-ishikawa/cardsrs/internal/testutil"
)

var testNow = time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

var testServerConfig = config.ServerConfig{
	Port: 8080,
	CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
}

func newTestHandler(t *testing.T, repo card.Repository) (http.Handler, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	svc, err := review.NewService(repo, logger,
		review.WithClock(func() time.Time { return testNow }),
		review.WithRetryDelay(0),
	)
	require.NoError(t, err)
	return NewHandler(testServerConfig, svc, logger), hook
}

func newSQLiteHandler(t *testing.T) http.Handler {
	t.Helper()
	handler, _ := newTestHandler(t, card.NewDBRepository(testutil.NewTestDB(t)))
	return handler
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string, userID int64) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID > 0 {
		req.Header.Set(userIDHeader, fmt.Sprint(userID))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var got T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	return got
}

func createCard(t *testing.T, handler http.Handler, body string) []map[string]any {
	t.Helper()
	rec := doRequest(t, handler, http.MethodPost, "/api/cards", body, 1)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	got := decode[createCardResponse](t, rec)
	var cards []map[string]any
	raw, err := json.Marshal(got.Cards)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &cards))
	return cards
}

func TestHandler_Unauthenticated(t *testing.T) {
	handler := newSQLiteHandler(t)

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{name: "list", method: http.MethodGet, path: "/api/cards"},
		{name: "next", method: http.MethodGet, path: "/api/cards/next"},
		{name: "submit review", method: http.MethodPost, path: "/api/cards/submit-review"},
		{name: "get", method: http.MethodGet, path: "/api/cards/1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, handler, tt.method, tt.path, "", 0)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "authentication required", decode[errorResponse](t, rec).Error)
		})
	}

	t.Run("non numeric user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/cards", nil)
		req.Header.Set(userIDHeader, "alice")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHandler_ReviewFlow(t *testing.T) {
	handler := newSQLiteHandler(t)

	cards := createCard(t, handler, `{"front":"hola","back":"hello","notes":"greeting","tags":["basics"]}`)
	require.Len(t, cards, 1)
	id := int64(cards[0]["id"].(float64))
	assert.Equal(t, true, cards[0]["is_learning"])
	assert.Equal(t, "new", cards[0]["mastery_level"].(map[string]any)["level"])

	rec := doRequest(t, handler, http.MethodGet, "/api/cards/next", "", 1)
	require.Equal(t, http.StatusOK, rec.Code)
	next := decode[map[string]any](t, rec)
	assert.Equal(t, float64(id), next["id"])

	body := fmt.Sprintf(`{"card_id":%d,"user_score":0.95,"user_comment_addon":"easy","typed_input":"hello"}`, id)
	rec = doRequest(t, handler, http.MethodPost, "/api/cards/submit-review", body, 1)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := decode[map[string]any](t, rec)
	reviewed := result["card"].(map[string]any)
	assert.Equal(t, float64(1), reviewed["interval_days"])
	assert.Equal(t, float64(1), reviewed["total_reviews"])
	assert.Equal(t, "greeting\n15:30 Mar 10, 2025: easy", reviewed["notes"])
	assert.Equal(t, "learning", reviewed["mastery_level"].(map[string]any)["level"])
	rv := result["review"].(map[string]any)
	assert.Equal(t, 0.95, rv["user_score"])
	assert.Equal(t, "hello", rv["typed_input"])

	rec = doRequest(t, handler, http.MethodGet, "/api/cards/next", "", 1)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = doRequest(t, handler, http.MethodGet, fmt.Sprintf("/api/cards/%d/reviews", id), "", 1)
	require.Equal(t, http.StatusOK, rec.Code)
	reviews := decode[[]card.Review](t, rec)
	require.Len(t, reviews, 1)
	assert.Equal(t, 0, reviews[0].IntervalAtReview)

	rec = doRequest(t, handler, http.MethodGet, "/api/cards/statistics", "", 1)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[map[string]any](t, rec)
	assert.Equal(t, float64(1), stats["total_cards"])
	assert.Equal(t, float64(1), stats["reviews_today"])
	assert.Equal(t, float64(0), stats["due_today"])
}

func TestHandler_SubmitReview_Errors(t *testing.T) {
	handler := newSQLiteHandler(t)
	cards := createCard(t, handler, `{"front":"hola","back":"hello"}`)
	id := int64(cards[0]["id"].(float64))

	tests := []struct {
		name       string
		body       string
		userID     int64
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing score",
			body:       fmt.Sprintf(`{"card_id":%d}`, id),
			userID:     1,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid score",
		},
		{
			name:       "score out of range",
			body:       fmt.Sprintf(`{"card_id":%d,"user_score":1.5}`, id),
			userID:     1,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid score",
		},
		{
			name:       "malformed body",
			body:       `{"card_id":`,
			userID:     1,
			wantStatus: http.StatusBadRequest,
			wantError:  "malformed request body",
		},
		{
			name:       "unknown card",
			body:       `{"card_id":999,"user_score":0.5}`,
			userID:     1,
			wantStatus: http.StatusNotFound,
			wantError:  "card not found",
		},
		{
			name:       "card of another user",
			body:       fmt.Sprintf(`{"card_id":%d,"user_score":0.5}`, id),
			userID:     2,
			wantStatus: http.StatusNotFound,
			wantError:  "card not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, handler, http.MethodPost, "/api/cards/submit-review", tt.body, tt.userID)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, decode[errorResponse](t, rec).Error, tt.wantError)
		})
	}
}

func TestHandler_CardCRUD(t *testing.T) {
	handler := newSQLiteHandler(t)

	cards := createCard(t, handler, `{"front":"perro","back":"dog","create_reverse":true}`)
	require.Len(t, cards, 2)
	assert.Equal(t, "dog", cards[1]["front"])
	assert.Equal(t, cards[0]["pair_id"], cards[1]["pair_id"])
	id := int64(cards[0]["id"].(float64))

	rec := doRequest(t, handler, http.MethodGet, "/api/cards?page=1&page_size=1", "", 1)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[map[string]any](t, rec)
	assert.Equal(t, float64(2), list["count"])
	assert.Equal(t, float64(1), list["page_size"])
	assert.Len(t, list["results"], 1)

	rec = doRequest(t, handler, http.MethodPut, fmt.Sprintf("/api/cards/%d", id),
		`{"front":"el perro","back":"the dog","notes":"animal","tags":["animals"]}`, 1)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[map[string]any](t, rec)
	assert.Equal(t, "el perro", updated["front"])
	assert.Equal(t, []any{"animals"}, updated["tags"])

	rec = doRequest(t, handler, http.MethodGet, fmt.Sprintf("/api/cards/%d", id), "", 1)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "the dog", decode[map[string]any](t, rec)["back"])

	rec = doRequest(t, handler, http.MethodGet, fmt.Sprintf("/api/cards/%d", id), "", 2)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, handler, http.MethodDelete, fmt.Sprintf("/api/cards/%d", id), "", 1)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, handler, http.MethodGet, "/api/cards", "", 1)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), decode[map[string]any](t, rec)["count"])

	rec = doRequest(t, handler, http.MethodGet, "/api/cards/abc", "", 1)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, handler, http.MethodPost, "/api/cards", `{"front":"","back":"x"}`, 1)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_InternalError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_card.NewMockRepository(ctrl)
	repo.EXPECT().NextDue(gomock.Any(), int64(1), gomock.Any()).Return(nil, errors.New("connection refused"))

	handler, hook := newTestHandler(t, repo)
	rec := doRequest(t, handler, http.MethodGet, "/api/cards/next", "", 1)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decode[errorResponse](t, rec).Error)

	var errorEntries int
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.ErrorLevel {
			errorEntries++
		}
	}
	assert.Equal(t, 2, errorEntries, "the error and the access log entry")
}

func TestHandler_Middleware(t *testing.T) {
	handler, hook := newTestHandler(t, card.NewDBRepository(testutil.NewTestDB(t)))

	t.Run("health and generated request id", func(t *testing.T) {
		hook.Reset()
		rec := doRequest(t, handler, http.MethodGet, "/healthz", "", 0)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", decode[map[string]string](t, rec)["status"])
		assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

		entry := hook.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, "request handled", entry.Message)
		assert.Equal(t, http.StatusOK, entry.Data["status"])
		assert.Equal(t, rec.Header().Get(requestIDHeader), entry.Data["request_id"])
	})

	t.Run("client request id is kept", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set(requestIDHeader, "req-123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, "req-123", rec.Header().Get(requestIDHeader))
	})

	t.Run("cors preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/cards", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "content-type,x-user-id")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("cors preflight rejects a header outside the allowed list", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/cards", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "x-api-key")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("cors rejects unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestNew(t *testing.T) {
	logger, _ := test.NewNullLogger()
	srv := New(testServerConfig, nil, logger)
	assert.Equal(t, ":8080", srv.Addr)
	assert.Equal(t, 10*time.Second, srv.ReadHeaderTimeout)
}
