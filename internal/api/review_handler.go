package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/memodrop/braindump/internal/api/shared"
	"github.com/memodrop/braindump/internal/domain"
	"github.com/memodrop/braindump/internal/service/braindump"
)

// ReviewHandler handles review session HTTP requests
type ReviewHandler struct {
	reviewService braindump.Service
	logger        *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService braindump.Service, logger *slog.Logger) *ReviewHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewHandler{
		reviewService: reviewService,
		logger:        logger.With(slog.String("component", "review_handler")),
	}
}

// queryArea reads an optional integer query parameter, falling back to def.
func queryArea(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// NextCard handles GET /api/categories/{id}/review/next requests.
// Optional min_area and max_area query parameters narrow the draw; they
// default to the full range. Responds 204 when nothing is due.
func (h *ReviewHandler) NextCard(w http.ResponseWriter, r *http.Request) {
	userID, categoryID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	minArea, err := queryArea(r, "min_area", domain.AreaFloor)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid min_area parameter")
		return
	}
	maxArea, err := queryArea(r, "max_area", domain.AreaCeiling)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid max_area parameter")
		return
	}

	selection, err := h.reviewService.SelectCard(r.Context(), userID, categoryID, minArea, maxArea)
	if errors.Is(err, braindump.ErrNoEligibleCards) {
		// A drained session is an expected outcome, not an error.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SelectionResponse{
		Card:      cardToResponse(selection.Card),
		Placement: placementToResponse(selection.Placement),
	})
}

// SubmitAnswer handles POST /api/placements/{id}/answer requests
func (h *ReviewHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, placementID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req AnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	placement, err := h.reviewService.RecordAnswer(r.Context(), userID, placementID, *req.Correct)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, placementToResponse(placement))
}

// PostponeCard handles POST /api/placements/{id}/postpone requests
func (h *ReviewHandler) PostponeCard(w http.ResponseWriter, r *http.Request) {
	userID, placementID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req PostponeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	placement, err := h.reviewService.PostponeCard(
		r.Context(), userID, placementID, time.Duration(req.Seconds)*time.Second)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, placementToResponse(placement))
}

// ExpediteCard handles POST /api/placements/{id}/expedite requests
func (h *ReviewHandler) ExpediteCard(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.reviewService.ExpediteCard)
}

// ResetCard handles POST /api/placements/{id}/reset requests
func (h *ReviewHandler) ResetCard(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.reviewService.ResetCard)
}

// SetArea handles POST /api/placements/{id}/area requests
func (h *ReviewHandler) SetArea(w http.ResponseWriter, r *http.Request) {
	userID, placementID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req SetAreaRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	placement, err := h.reviewService.SetCardArea(r.Context(), userID, placementID, req.Area)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, placementToResponse(placement))
}

// mutate runs one of the bodyless placement actions and writes the updated
// placement.
func (h *ReviewHandler) mutate(
	w http.ResponseWriter,
	r *http.Request,
	action func(ctx context.Context, userID, placementID uuid.UUID) (*domain.CardPlacement, error),
) {
	userID, placementID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	placement, err := action(r.Context(), userID, placementID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, placementToResponse(placement))
}
