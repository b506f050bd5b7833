// Package handler exposes the account lifecycle operations over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"doorway/internal/account/models"
	id "doorway/pkg/domain"
	dErrors "doorway/pkg/domain-errors"
	"doorway/pkg/platform/httputil"
	"doorway/pkg/requestcontext"
)

// Service defines the interface for gated account operations.
// Returns domain objects, not HTTP response DTOs.
type Service interface {
	DeleteAccount(ctx context.Context, actorID, targetID id.AccountID) (*models.DeletionResult, error)
	SetAgentVerification(ctx context.Context, actorID, targetID id.AccountID, verified bool) (*models.Account, error)
	VerificationStatus(ctx context.Context, actorID, targetID id.AccountID) (verified, canToggle bool, err error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the account routes. The caller is expected to have
// bearer-token auth middleware already applied to the router.
func (h *Handler) Register(r chi.Router) {
	r.Delete("/accounts/{id}", h.HandleDeleteAccount)
	r.Patch("/agents/{id}/verify", h.HandleSetVerification)
	r.Get("/agents/{id}/verify", h.HandleGetVerification)
}

// HandleDeleteAccount runs the cascading deletion for a target account.
// The aggregate outcome drives the status code: a clean run is 200, a
// partial run is 207 so callers know some resources survived, and a run
// that removed nothing is 500.
func (h *Handler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actorID := requestcontext.AccountID(ctx)
	if actorID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing authenticated actor"))
		return
	}

	targetID, err := id.ParseAccountID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid account id"))
		return
	}

	result, err := h.service.DeleteAccount(ctx, actorID, targetID)
	if err != nil {
		h.logger.ErrorContext(ctx, "account deletion rejected",
			"error", err,
			"request_id", requestID,
			"target_id", targetID.String(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, deletionStatus(result.Outcome()), toDeletionResponse(result))
}

// HandleSetVerification toggles the trust badge on an agent account.
func (h *Handler) HandleSetVerification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actorID := requestcontext.AccountID(ctx)
	if actorID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing authenticated actor"))
		return
	}

	targetID, err := id.ParseAccountID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid account id"))
		return
	}

	var req SetVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	verified, err := req.verifiedState()
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, err.Error()))
		return
	}

	updated, err := h.service.SetAgentVerification(ctx, actorID, targetID, verified)
	if err != nil {
		h.logger.ErrorContext(ctx, "agent verification update rejected",
			"error", err,
			"request_id", requestID,
			"target_id", targetID.String(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toVerificationResponse(actorID, updated))
}

// HandleGetVerification reports the current badge state of an agent and
// whether the requesting actor may toggle it.
func (h *Handler) HandleGetVerification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID := requestcontext.AccountID(ctx)
	if actorID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing authenticated actor"))
		return
	}

	targetID, err := id.ParseAccountID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid account id"))
		return
	}

	verified, canToggle, err := h.service.VerificationStatus(ctx, actorID, targetID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, &VerificationStatusResponse{
		AccountID: targetID.String(),
		Verified:  verified,
		CanToggle: canToggle,
	})
}

func deletionStatus(outcome models.CascadeOutcome) int {
	switch outcome {
	case models.OutcomeSuccess:
		return http.StatusOK
	case models.OutcomePartial:
		return http.StatusMultiStatus
	default:
		return http.StatusInternalServerError
	}
}
