package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/alanyoungcy/polyboard/internal/domain"
)

// LeaderboardProvider is the service surface the leaderboard endpoints need.
type LeaderboardProvider interface {
	Latest(ctx context.Context) (domain.Leaderboard, error)
	Refresh(ctx context.Context) (domain.Leaderboard, error)
	RefreshHistory(ctx context.Context, count int) ([]domain.StreamMessage, error)
}

// LeaderboardHandler serves the computed leaderboard over REST.
type LeaderboardHandler struct {
	svc    LeaderboardProvider
	logger *slog.Logger
}

// NewLeaderboardHandler creates a LeaderboardHandler.
func NewLeaderboardHandler(svc LeaderboardProvider, logger *slog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{svc: svc, logger: logger}
}

// GetLeaderboard returns the latest leaderboard. An optional "limit" query
// parameter returns only the first entries, never more than the computed
// top N.
// GET /api/leaderboard
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	lb, err := h.svc.Latest(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: get leaderboard failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "leaderboard unavailable")
		return
	}

	if limit := queryInt(r, "limit", 0); limit > 0 && limit < len(lb.Entries) {
		lb.Entries = lb.Entries[:limit]
	}

	writeJSON(w, http.StatusOK, lb)
}

// TriggerRefresh recomputes the leaderboard immediately and returns it.
// POST /api/leaderboard/refresh
func (h *LeaderboardHandler) TriggerRefresh(w http.ResponseWriter, r *http.Request) {
	lb, err := h.svc.Refresh(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: leaderboard refresh failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadGateway, "refresh failed: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

// ListRefreshes returns recent refresh events, oldest first.
// GET /api/leaderboard/refreshes
func (h *LeaderboardHandler) ListRefreshes(w http.ResponseWriter, r *http.Request) {
	count := queryInt(r, "limit", 50)
	msgs, err := h.svc.RefreshHistory(r.Context(), count)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list refreshes failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "refresh history unavailable")
		return
	}

	events := make([]json.RawMessage, 0, len(msgs))
	for _, m := range msgs {
		events = append(events, json.RawMessage(m.Payload))
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}
