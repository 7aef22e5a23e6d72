package domain

// ContactStatus is the wire-encoded lifecycle state of a contact edge.
type ContactStatus int

const (
	ContactStatusPending  ContactStatus = 0
	ContactStatusAccepted ContactStatus = 1
	ContactStatusRejected ContactStatus = 2
)

func (s ContactStatus) String() string {
	switch s {
	case ContactStatusPending:
		return "pending"
	case ContactStatusAccepted:
		return "accepted"
	case ContactStatusRejected:
		return "rejected"
	}
	return "unknown"
}

// CompanySummary is the optional company card attached to a profile.
type CompanySummary struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	Logo string `json:"logo,omitempty"`
}

// ProfileSnapshot is the denormalized counterpart profile carried on an
// edge. Different backend endpoints populate different subsets of it.
type ProfileSnapshot struct {
	NameEnglish string          `json:"name_english,omitempty"`
	NameArabic  string          `json:"name_arabic,omitempty"`
	Username    string          `json:"username,omitempty"`
	Avatar      string          `json:"avatar,omitempty"`
	Company     *CompanySummary `json:"company,omitempty"`
}

// ContactEdge is a directed relationship claim between the
// authenticated owner and a counterpart. Exactly one canonical edge
// exists per (owner, counterpart) pair after deduplication.
type ContactEdge struct {
	ID                string          `json:"id"`
	OwnerUserID       string          `json:"owner_user_id,omitempty"`
	CounterpartUserID string          `json:"counterpart_user_id,omitempty"`
	Status            ContactStatus   `json:"status"`
	FolderID          string          `json:"folder_id,omitempty"`
	Profile           ProfileSnapshot `json:"profile"`
}

// ViewState tags whether the last-known contact snapshot reflects
// confirmed server truth or a local-only reconciliation.
type ViewState string

const (
	ViewStateConsistent ViewState = "consistent"
	ViewStateStale      ViewState = "stale"
)

// ContactsUpdated is the payload broadcast on the contacts-updated
// channel after a successful mutation.
type ContactsUpdated struct {
	PendingCount int `json:"pending_count"`
}

// EventContactsUpdated is the single named channel views listen on.
const EventContactsUpdated = "contacts-updated"
