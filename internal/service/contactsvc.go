package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"cardlink/internal/dedup"
	"cardlink/internal/domain"
)

type ContactsClient interface {
	GetContacts(ctx context.Context) ([]json.RawMessage, error)
	GetContactsByFolder(ctx context.Context, folderID string) ([]json.RawMessage, error)
	SearchContacts(ctx context.Context, query string) ([]json.RawMessage, error)
}

// ContactsService is the relationship store: every read issues a fresh
// backend fetch, runs it through canonicalization, and filters by
// status. It keeps no cache; the snapshot below exists only so the
// removal fallback has a last-known view to prune when the
// post-delete refresh fails.
type ContactsService struct {
	Client ContactsClient

	mu       sync.Mutex
	snapshot []domain.ContactEdge
	state    domain.ViewState
}

// LoadAll returns the accepted edges of the general contact view.
// Pending and rejected edges never appear here; pending ones surface
// only through PendingRequests.
func (s *ContactsService) LoadAll(ctx context.Context) ([]domain.ContactEdge, error) {
	edges, err := s.refresh(ctx)
	if err != nil {
		return nil, err
	}
	return filterStatus(edges, domain.ContactStatusAccepted), nil
}

// PendingRequests is the pending-request projection, seeded from the
// same contacts fetch filtered client-side.
func (s *ContactsService) PendingRequests(ctx context.Context) ([]domain.ContactEdge, error) {
	edges, err := s.refresh(ctx)
	if err != nil {
		return nil, err
	}
	return filterStatus(edges, domain.ContactStatusPending), nil
}

func (s *ContactsService) LoadByFolder(ctx context.Context, folderID string) ([]domain.ContactEdge, error) {
	folderID = strings.TrimSpace(folderID)
	if folderID == "" {
		return nil, domain.NewValidationError(map[string]string{"folder_id": "required"})
	}
	raws, err := s.Client.GetContactsByFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}
	// The folder endpoint returns already-filed contacts, usually as
	// bare user objects without a status field.
	edges, err := dedup.Canonicalize(raws, domain.ContactStatusAccepted)
	if err != nil {
		return nil, err
	}
	return filterStatus(edges, domain.ContactStatusAccepted), nil
}

// Search returns canonical matches regardless of status. A profile the
// user is not connected to yet is still a legitimate search hit.
func (s *ContactsService) Search(ctx context.Context, query string) ([]domain.ContactEdge, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.NewValidationError(map[string]string{"q": "required"})
	}
	raws, err := s.Client.SearchContacts(ctx, query)
	if err != nil {
		return nil, err
	}
	return dedup.Canonicalize(raws, domain.ContactStatusPending)
}

// refresh fetches the full edge set, canonicalizes it, and replaces the
// last-known snapshot. Any successful refresh reconciles a stale view.
func (s *ContactsService) refresh(ctx context.Context) ([]domain.ContactEdge, error) {
	raws, err := s.Client.GetContacts(ctx)
	if err != nil {
		return nil, err
	}
	edges, err := dedup.Canonicalize(raws, domain.ContactStatusPending)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.snapshot = append([]domain.ContactEdge(nil), edges...)
	s.state = domain.ViewStateConsistent
	s.mu.Unlock()

	return edges, nil
}

// Snapshot returns the last-known edge set and whether it reflects
// confirmed server truth or a local-only reconciliation.
func (s *ContactsService) Snapshot() ([]domain.ContactEdge, domain.ViewState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.state
	if state == "" {
		state = domain.ViewStateConsistent
	}
	return append([]domain.ContactEdge(nil), s.snapshot...), state
}

// PruneLocal removes an edge from the last-known snapshot without
// server confirmation and marks the view stale. The inconsistency
// window is bounded: the next successful refresh replaces the snapshot
// wholesale and clears the flag.
func (s *ContactsService) PruneLocal(edgeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.snapshot[:0]
	for _, e := range s.snapshot {
		if e.ID != edgeID {
			kept = append(kept, e)
		}
	}
	s.snapshot = kept
	s.state = domain.ViewStateStale
}

// SnapshotPendingCount is the best-guess pending count when a fresh
// fetch is unavailable.
func (s *ContactsService) SnapshotPendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, e := range s.snapshot {
		if e.Status == domain.ContactStatusPending {
			count++
		}
	}
	return count
}

func filterStatus(edges []domain.ContactEdge, status domain.ContactStatus) []domain.ContactEdge {
	out := make([]domain.ContactEdge, 0, len(edges))
	for _, e := range edges {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out
}
