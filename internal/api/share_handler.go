package api

import (
	"log/slog"
	"net/http"

	"github.com/memodrop/braindump/internal/api/shared"
	"github.com/memodrop/braindump/internal/service/sharing"
)

// ShareHandler handles share workflow HTTP requests
type ShareHandler struct {
	sharingService sharing.Service
	logger         *slog.Logger
}

// NewShareHandler creates a new ShareHandler
func NewShareHandler(sharingService sharing.Service, logger *slog.Logger) *ShareHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ShareHandler{
		sharingService: sharingService,
		logger:         logger.With(slog.String("component", "share_handler")),
	}
}

// RequestShare handles POST /api/categories/{id}/shares requests.
// The 202 response is identical whether or not the named user exists, so the
// endpoint cannot be used to probe usernames.
func (h *ShareHandler) RequestShare(w http.ResponseWriter, r *http.Request) {
	userID, categoryID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req ShareRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if err := h.sharingService.Request(r.Context(), categoryID, userID, req.Username); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// ListCategoryShares handles GET /api/categories/{id}/shares requests
func (h *ShareHandler) ListCategoryShares(w http.ResponseWriter, r *http.Request) {
	userID, categoryID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	contracts, err := h.sharingService.ListForCategory(r.Context(), categoryID, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := make([]ContractResponse, 0, len(contracts))
	for _, contract := range contracts {
		response = append(response, contractToResponse(contract))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// ListPendingShares handles GET /api/shares/pending requests
func (h *ShareHandler) ListPendingShares(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	contracts, err := h.sharingService.ListPending(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := make([]ContractResponse, 0, len(contracts))
	for _, contract := range contracts {
		response = append(response, contractToResponse(contract))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// AcceptShare handles POST /api/shares/{id}/accept requests.
// The placement fan-out runs in the background; 202 means it was queued.
func (h *ShareHandler) AcceptShare(w http.ResponseWriter, r *http.Request) {
	userID, contractID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.sharingService.Accept(r.Context(), contractID, userID); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// DeclineShare handles POST /api/shares/{id}/decline requests
func (h *ShareHandler) DeclineShare(w http.ResponseWriter, r *http.Request) {
	userID, contractID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.sharingService.Decline(r.Context(), contractID, userID); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RevokeShare handles POST /api/shares/{id}/revoke requests.
// The fork-and-migrate job runs in the background; 202 means it was queued.
func (h *ShareHandler) RevokeShare(w http.ResponseWriter, r *http.Request) {
	userID, contractID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.sharingService.Revoke(r.Context(), contractID, userID); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
