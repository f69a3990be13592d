package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memodrop/braindump/internal/api"
	"github.com/memodrop/braindump/internal/api/shared"
	"github.com/memodrop/braindump/internal/domain"
	"github.com/memodrop/braindump/internal/mocks"
	"github.com/memodrop/braindump/internal/service/braindump"
)

// reviewTestEnv wires a ReviewHandler over the in-memory stores behind a chi
// router, with a stub middleware injecting the authenticated user.
type reviewTestEnv struct {
	router     chi.Router
	userID     uuid.UUID
	categoryID uuid.UUID
	cards      *mocks.MockCardStore
	placements *mocks.MockPlacementStore
}

func newReviewTestEnv(t *testing.T) *reviewTestEnv {
	t.Helper()

	userID := uuid.New()
	cards := mocks.NewMockCardStore()
	categories := mocks.NewMockCategoryStore()
	placements := mocks.NewMockPlacementStore()
	placements.Cards = cards

	category, err := domain.NewCategory(userID, "Flags", "", domain.ReviewModeStrict)
	require.NoError(t, err)
	require.NoError(t, categories.Create(context.Background(), category))

	svc, err := braindump.NewService(
		braindump.Config{MaxPostpone: 24 * time.Hour},
		mocks.NewMockTxRunner(), cards, categories, placements, nil, nil)
	require.NoError(t, err)

	handler := api.NewReviewHandler(svc, nil)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Get("/api/categories/{id}/review/next", handler.NextCard)
	r.Post("/api/placements/{id}/answer", handler.SubmitAnswer)
	r.Post("/api/placements/{id}/postpone", handler.PostponeCard)
	r.Post("/api/placements/{id}/expedite", handler.ExpediteCard)
	r.Post("/api/placements/{id}/reset", handler.ResetCard)
	r.Post("/api/placements/{id}/area", handler.SetArea)

	return &reviewTestEnv{
		router:     r,
		userID:     userID,
		categoryID: category.ID,
		cards:      cards,
		placements: placements,
	}
}

func (e *reviewTestEnv) addPlacement(t *testing.T, area int) *domain.CardPlacement {
	t.Helper()

	card, err := domain.NewCard(e.categoryID, "question", "answer", "")
	require.NoError(t, err)
	require.NoError(t, e.cards.Create(context.Background(), card))

	placement, err := domain.NewCardPlacement(card.ID, e.userID)
	require.NoError(t, err)
	require.NoError(t, placement.SetArea(area))
	placement.PostponeUntil = time.Now().UTC().Add(-time.Minute)
	require.NoError(t, e.placements.Create(context.Background(), placement))
	return placement
}

func (e *reviewTestEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestNextCard(t *testing.T) {
	t.Parallel()
	env := newReviewTestEnv(t)
	placement := env.addPlacement(t, 2)

	rec := env.do(t, http.MethodGet, "/api/categories/"+env.categoryID.String()+"/review/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.SelectionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, placement.ID.String(), resp.Placement.ID)
	assert.Equal(t, 2, resp.Placement.Area)
	assert.Equal(t, "question", resp.Card.Question)
}

func TestNextCardNoContent(t *testing.T) {
	t.Parallel()
	env := newReviewTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/categories/"+env.categoryID.String()+"/review/next", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestNextCardInvalidRange(t *testing.T) {
	t.Parallel()
	env := newReviewTestEnv(t)
	env.addPlacement(t, 2)

	path := "/api/categories/" + env.categoryID.String() + "/review/next?min_area=5&max_area=2"
	rec := env.do(t, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	path = "/api/categories/" + env.categoryID.String() + "/review/next?min_area=abc"
	rec = env.do(t, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNextCardUnknownCategory(t *testing.T) {
	t.Parallel()
	env := newReviewTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/categories/"+uuid.NewString()+"/review/next", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitAnswer(t *testing.T) {
	t.Parallel()
	env := newReviewTestEnv(t)
	placement := env.addPlacement(t, 3)

	correct := false
	rec := env.do(t, http.MethodPost,
		"/api/placements/"+placement.ID.String()+"/answer",
		api.AnswerRequest{Correct: &correct})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.PlacementResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Area, "strict mode resets on an incorrect answer")
}

func TestSubmitAnswerMissingBody(t *testing.T) {
	t.Parallel()
	env := newReviewTestEnv(t)
	placement := env.addPlacement(t, 3)

	rec := env.do(t, http.MethodPost,
		"/api/placements/"+placement.ID.String()+"/answer", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostponeTooLong(t *testing.T) {
	t.Parallel()
	env := newReviewTestEnv(t)
	placement := env.addPlacement(t, 2)

	rec := env.do(t, http.MethodPost,
		"/api/placements/"+placement.ID.String()+"/postpone",
		api.PostponeRequest{Seconds: int64((48 * time.Hour).Seconds())})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetAreaOutOfRange(t *testing.T) {
	t.Parallel()
	env := newReviewTestEnv(t)
	placement := env.addPlacement(t, 2)

	rec := env.do(t, http.MethodPost,
		"/api/placements/"+placement.ID.String()+"/area",
		api.SetAreaRequest{Area: 9})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlacementActionsInvalidID(t *testing.T) {
	t.Parallel()
	env := newReviewTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/placements/not-a-uuid/reset", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/placements/"+uuid.NewString()+"/expedite", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
