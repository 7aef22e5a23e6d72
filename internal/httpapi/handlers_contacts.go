package httpapi

import (
	"net/http"
	"strings"

	"cardlink/internal/domain"
)

func (a *api) handleContactsList(w http.ResponseWriter, r *http.Request) {
	if _, ok := CurrentActor(r.Context()); !ok {
		WriteDomainError(w, domain.ErrUnauthenticated)
		return
	}

	edges, err := a.contactsSvc.LoadAll(r.Context())
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, edges)
}

func (a *api) handleContactsPending(w http.ResponseWriter, r *http.Request) {
	if _, ok := CurrentActor(r.Context()); !ok {
		WriteDomainError(w, domain.ErrUnauthenticated)
		return
	}

	edges, err := a.contactsSvc.PendingRequests(r.Context())
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, edges)
}

func (a *api) handleContactsByFolder(w http.ResponseWriter, r *http.Request) {
	if _, ok := CurrentActor(r.Context()); !ok {
		WriteDomainError(w, domain.ErrUnauthenticated)
		return
	}

	edges, err := a.contactsSvc.LoadByFolder(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, edges)
}

func (a *api) handleContactsSearch(w http.ResponseWriter, r *http.Request) {
	if _, ok := CurrentActor(r.Context()); !ok {
		WriteDomainError(w, domain.ErrUnauthenticated)
		return
	}

	edges, err := a.contactsSvc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, edges)
}

type snapshotResponse struct {
	Edges []domain.ContactEdge `json:"edges"`
	State domain.ViewState     `json:"state"`
}

// handleContactsSnapshot exposes the last-known view without a backend
// round-trip, so a view can tell "consistent" from "stale after a
// local-only reconciliation".
func (a *api) handleContactsSnapshot(w http.ResponseWriter, r *http.Request) {
	if _, ok := CurrentActor(r.Context()); !ok {
		WriteDomainError(w, domain.ErrUnauthenticated)
		return
	}

	edges, state := a.contactsSvc.Snapshot()
	WriteJSON(w, http.StatusOK, snapshotResponse{Edges: edges, State: state})
}

type confirmRequest struct {
	Confirmed bool `json:"confirmed"`
}

func (a *api) handleContactRemove(w http.ResponseWriter, r *http.Request) {
	actor, ok := CurrentActor(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthenticated)
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		WriteDomainError(w, domain.NewValidationError(map[string]string{"id": "required"}))
		return
	}

	var req confirmRequest
	if _, err := decodeJSONAllowEmpty(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	if err := a.lifecycleSvc.Remove(r.Context(), actor, id, req.Confirmed); err != nil {
		WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type acceptRequest struct {
	FolderID      string `json:"folder_id"`
	NewFolderName string `json:"new_folder_name"`
}

func (a *api) handleRequestAccept(w http.ResponseWriter, r *http.Request) {
	actor, ok := CurrentActor(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthenticated)
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		WriteDomainError(w, domain.NewValidationError(map[string]string{"id": "required"}))
		return
	}

	var req acceptRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}
	if req.FolderID != "" && req.NewFolderName != "" {
		WriteDomainError(w, domain.NewValidationError(map[string]string{"folder_id": "choose an existing folder or a new one, not both"}))
		return
	}

	var err error
	if req.NewFolderName != "" {
		err = a.lifecycleSvc.AcceptWithNewFolder(r.Context(), actor, id, req.NewFolderName)
	} else {
		err = a.lifecycleSvc.Accept(r.Context(), actor, id, req.FolderID)
	}
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) handleRequestReject(w http.ResponseWriter, r *http.Request) {
	actor, ok := CurrentActor(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthenticated)
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		WriteDomainError(w, domain.NewValidationError(map[string]string{"id": "required"}))
		return
	}

	var req confirmRequest
	if _, err := decodeJSONAllowEmpty(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	if err := a.lifecycleSvc.Reject(r.Context(), actor, id, req.Confirmed); err != nil {
		WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
