package service

import (
	"context"
	"strings"

	"cardlink/internal/domain"
)

type FoldersClient interface {
	ListFolders(ctx context.Context) ([]domain.Folder, error)
	CreateFolder(ctx context.Context, name string) (domain.Folder, error)
	RenameFolder(ctx context.Context, folderID, name string) error
	DeleteFolder(ctx context.Context, folderID string) error
}

// FoldersService is the folder registry. Mutations are gated on
// membership tier before any network call: the backend enforces the
// same rule, but a free account must learn about it from the fixed
// local message, not from a round-trip.
type FoldersService struct {
	Client FoldersClient
}

// List returns the four reserved virtual folders unioned with whatever
// the backend reports. Name collisions collapse and the reserved entry
// wins.
func (s *FoldersService) List(ctx context.Context) ([]domain.Folder, error) {
	remote, err := s.Client.ListFolders(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Folder, 0, len(domain.ReservedFolderNames)+len(remote))
	seen := make(map[string]bool, len(domain.ReservedFolderNames)+len(remote))
	for _, name := range domain.ReservedFolderNames {
		out = append(out, domain.Folder{ID: strings.ToLower(name), Name: name, Reserved: true})
		seen[strings.ToLower(name)] = true
	}
	for _, f := range remote {
		key := strings.ToLower(strings.TrimSpace(f.Name))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, f)
	}
	return out, nil
}

func (s *FoldersService) Create(ctx context.Context, actor domain.Actor, name string) (domain.Folder, error) {
	if err := s.gate(actor); err != nil {
		return domain.Folder{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Folder{}, domain.NewValidationError(map[string]string{"name": "required"})
	}
	if domain.IsReservedFolderName(name) {
		return domain.Folder{}, domain.ErrReservedFolder
	}
	return s.Client.CreateFolder(ctx, name)
}

func (s *FoldersService) Rename(ctx context.Context, actor domain.Actor, folderID, name string) error {
	if err := s.gate(actor); err != nil {
		return err
	}
	folderID = strings.TrimSpace(folderID)
	if folderID == "" {
		return domain.NewValidationError(map[string]string{"id": "required"})
	}
	if isReservedFolderID(folderID) {
		return domain.ErrReservedFolder
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.NewValidationError(map[string]string{"name": "required"})
	}
	if domain.IsReservedFolderName(name) {
		return domain.ErrReservedFolder
	}
	return s.Client.RenameFolder(ctx, folderID, name)
}

// Delete removes a folder outright. There is no undo; edges filed in it
// fall back to the All view server-side, the client does not reassign
// them.
func (s *FoldersService) Delete(ctx context.Context, actor domain.Actor, folderID string) error {
	if err := s.gate(actor); err != nil {
		return err
	}
	folderID = strings.TrimSpace(folderID)
	if folderID == "" {
		return domain.NewValidationError(map[string]string{"id": "required"})
	}
	if isReservedFolderID(folderID) {
		return domain.ErrReservedFolder
	}
	return s.Client.DeleteFolder(ctx, folderID)
}

func (s *FoldersService) gate(actor domain.Actor) error {
	if actor.UserID == "" {
		return domain.ErrUnauthenticated
	}
	if !actor.Tier.CanManageFolders() {
		return domain.ErrMembershipRequired
	}
	return nil
}

// Reserved folders are addressed by their lowercased name as a virtual id.
func isReservedFolderID(id string) bool {
	return domain.IsReservedFolderName(id)
}
