package httpapi

import (
	"net/http"

	"cardlink/internal/domain"
)

type badgeResponse struct {
	PendingCount int  `json:"pending_count"`
	Primed       bool `json:"primed"`
}

// handleNotificationsBadge serves the watcher's latest pending count.
// Unlike the contact listings this never costs a backend round-trip;
// the watcher keeps itself current through the contacts-updated signal.
func (a *api) handleNotificationsBadge(w http.ResponseWriter, r *http.Request) {
	if _, ok := CurrentActor(r.Context()); !ok {
		WriteDomainError(w, domain.ErrUnauthenticated)
		return
	}

	count, primed := a.badge.PendingCount()
	WriteJSON(w, http.StatusOK, badgeResponse{PendingCount: count, Primed: primed})
}
