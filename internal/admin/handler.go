package admin

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"doorway/internal/audit"
	"doorway/pkg/platform/httputil"
	"doorway/pkg/requestcontext"
)

// Handler handles admin monitoring endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// New creates a new admin handler.
func New(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register registers admin routes with the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/stats", h.HandleGetStats)
	r.Get("/admin/audit/recent", h.HandleGetRecentAuditEvents)
	r.Get("/admin/audit/actor/{id}", h.HandleGetActorAuditEvents)
}

// HandleGetStats returns activity statistics derived from the audit trail.
func (h *Handler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	stats, err := h.service.GetStats(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get stats",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, stats)
}

// HandleGetRecentAuditEvents returns recent audit events.
func (h *Handler) HandleGetRecentAuditEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	// Default window keeps the response small for dashboards.
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	events, err := h.service.GetRecentAuditEvents(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get recent audit events",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toEventsResponse(events))
}

// HandleGetActorAuditEvents returns the trail recorded for one actor.
func (h *Handler) HandleGetActorAuditEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	actorID := chi.URLParam(r, "id")

	events, err := h.service.GetActorAuditEvents(ctx, actorID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get actor audit events",
			"error", err,
			"request_id", requestID,
			"actor_id", actorID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toEventsResponse(events))
}

// EventResponse is the wire shape for one audit entry.
type EventResponse struct {
	Timestamp time.Time `json:"timestamp"`
	ActorID   string    `json:"actor_id"`
	TargetID  string    `json:"target_id"`
	Subject   string    `json:"subject"`
	Action    string    `json:"action"`
	Decision  string    `json:"decision"`
	Reason    string    `json:"reason,omitempty"`
	Email     string    `json:"email,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

type EventsResponse struct {
	Events []EventResponse `json:"events"`
	Count  int             `json:"count"`
}

func toEventsResponse(events []audit.Event) *EventsResponse {
	resp := &EventsResponse{Events: make([]EventResponse, 0, len(events))}
	for _, e := range events {
		resp.Events = append(resp.Events, EventResponse{
			Timestamp: e.Timestamp,
			ActorID:   e.ActorID.String(),
			TargetID:  e.TargetID.String(),
			Subject:   e.Subject,
			Action:    e.Action,
			Decision:  e.Decision,
			Reason:    e.Reason,
			Email:     e.Email,
			RequestID: e.RequestID,
			Detail:    e.Detail,
		})
	}
	resp.Count = len(resp.Events)
	return resp
}
