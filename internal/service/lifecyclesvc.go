package service

import (
	"context"
	"strings"

	"cardlink/internal/domain"
)

type LifecycleClient interface {
	SetContactStatus(ctx context.Context, contactID string, status domain.ContactStatus, folderID string) error
	RemoveContact(ctx context.Context, contactID string) error
}

type Publisher interface {
	Publish(event string, payload any)
}

// LifecycleService drives the Pending → Accepted/Rejected transition
// and contact removal. It is pessimistic: no local state changes before
// the backend confirms, because folder assignment is server-
// authoritative. After each confirmed mutation it re-fetches the
// pending projection and broadcasts the new count.
type LifecycleService struct {
	Client   LifecycleClient
	Contacts *ContactsService
	Folders  *FoldersService
	Bus      Publisher
}

// Accept files the pending edge into folderID. A missing folder is a
// local validation failure: the call payload requires a folder id, so
// no backend call is made and the edge stays pending.
func (s *LifecycleService) Accept(ctx context.Context, actor domain.Actor, edgeID, folderID string) error {
	if actor.UserID == "" {
		return domain.ErrUnauthenticated
	}
	edgeID = strings.TrimSpace(edgeID)
	if edgeID == "" {
		return domain.NewValidationError(map[string]string{"id": "required"})
	}
	folderID = strings.TrimSpace(folderID)
	if folderID == "" {
		return domain.NewValidationError(map[string]string{"folder_id": "required"})
	}

	if err := s.Client.SetContactStatus(ctx, edgeID, domain.ContactStatusAccepted, folderID); err != nil {
		return err
	}
	s.refreshAndPublish(ctx)
	return nil
}

// AcceptWithNewFolder creates the folder inline, re-lists the registry,
// pre-selects the new folder, and only then issues the accept — in that
// order, because the accept payload needs the folder id. Folder
// creation is tier-gated the same as any other registry mutation.
func (s *LifecycleService) AcceptWithNewFolder(ctx context.Context, actor domain.Actor, edgeID, folderName string) error {
	if actor.UserID == "" {
		return domain.ErrUnauthenticated
	}
	edgeID = strings.TrimSpace(edgeID)
	if edgeID == "" {
		return domain.NewValidationError(map[string]string{"id": "required"})
	}

	created, err := s.Folders.Create(ctx, actor, folderName)
	if err != nil {
		return err
	}

	folders, err := s.Folders.List(ctx)
	if err != nil {
		return err
	}
	selected := ""
	for _, f := range folders {
		if f.ID == created.ID {
			selected = f.ID
			break
		}
	}
	if selected == "" {
		// Created but not visible in the re-list; trust the creation
		// response rather than abort a folder that now exists.
		selected = created.ID
	}

	return s.Accept(ctx, actor, edgeID, selected)
}

// Reject needs no folder but does need explicit destructive-intent
// confirmation before any call is issued.
func (s *LifecycleService) Reject(ctx context.Context, actor domain.Actor, edgeID string, confirmed bool) error {
	if actor.UserID == "" {
		return domain.ErrUnauthenticated
	}
	edgeID = strings.TrimSpace(edgeID)
	if edgeID == "" {
		return domain.NewValidationError(map[string]string{"id": "required"})
	}
	if !confirmed {
		return domain.ErrConfirmationRequired
	}

	if err := s.Client.SetContactStatus(ctx, edgeID, domain.ContactStatusRejected, ""); err != nil {
		return err
	}
	s.refreshAndPublish(ctx)
	return nil
}

// Remove deletes an accepted contact server-side, then reconciles the
// local view. If the post-delete refresh itself fails, the edge is
// pruned from the last-known snapshot so the view does not appear to
// regress; the snapshot is marked stale until the next successful load.
func (s *LifecycleService) Remove(ctx context.Context, actor domain.Actor, contactID string, confirmed bool) error {
	if actor.UserID == "" {
		return domain.ErrUnauthenticated
	}
	contactID = strings.TrimSpace(contactID)
	if contactID == "" {
		return domain.NewValidationError(map[string]string{"id": "required"})
	}
	if !confirmed {
		return domain.ErrConfirmationRequired
	}

	if err := s.Client.RemoveContact(ctx, contactID); err != nil {
		return err
	}

	if _, err := s.Contacts.LoadAll(ctx); err != nil {
		s.Contacts.PruneLocal(contactID)
	}
	s.publish(s.Contacts.SnapshotPendingCount())
	return nil
}

// refreshAndPublish re-fetches the pending projection and broadcasts
// the count. The mutation already succeeded at this point, so a failed
// refresh degrades to the best guess from the snapshot instead of
// surfacing an error.
func (s *LifecycleService) refreshAndPublish(ctx context.Context) {
	pending, err := s.Contacts.PendingRequests(ctx)
	count := s.Contacts.SnapshotPendingCount()
	if err == nil {
		count = len(pending)
	}
	s.publish(count)
}

func (s *LifecycleService) publish(pendingCount int) {
	if s.Bus == nil {
		return
	}
	s.Bus.Publish(domain.EventContactsUpdated, domain.ContactsUpdated{PendingCount: pendingCount})
}
