// Package dedup normalizes the contact record shapes the backend emits
// into canonical edges and collapses duplicates. The backend does not
// guarantee one record per counterpart; this package does.
package dedup

import (
	"encoding/json"
	"strings"

	"cardlink/internal/domain"
)

type recordShape int

const (
	shapeUnknown recordShape = iota
	shapeEdge                // full edge with user details (or a canonical edge round-tripped)
	shapeTriple              // {user, company, is_contact}
	shapeFlat                // bare user-like object
)

type profilePayload struct {
	OwnerNameEnglish string                 `json:"owner_name_english"`
	OwnerNameArabic  string                 `json:"owner_name_arabic"`
	NameEnglish      string                 `json:"name_english"`
	NameArabic       string                 `json:"name_arabic"`
	Username         string                 `json:"username"`
	Avatar           string                 `json:"avatar"`
	Company          *domain.CompanySummary `json:"company"`
}

func (p *profilePayload) snapshot() domain.ProfileSnapshot {
	if p == nil {
		return domain.ProfileSnapshot{}
	}
	nameEN := p.OwnerNameEnglish
	if nameEN == "" {
		nameEN = p.NameEnglish
	}
	nameAR := p.OwnerNameArabic
	if nameAR == "" {
		nameAR = p.NameArabic
	}
	return domain.ProfileSnapshot{
		NameEnglish: nameEN,
		NameArabic:  nameAR,
		Username:    p.Username,
		Avatar:      p.Avatar,
		Company:     p.Company,
	}
}

type userPayload struct {
	ID string `json:"id"`
	profilePayload
}

// rawProbe is a superset of every known record shape; classification is
// by which discriminating fields are present.
type rawProbe struct {
	User        *userPayload    `json:"user"`
	IsContact   *bool           `json:"is_contact"`
	Status      *int            `json:"status"`
	ID          string          `json:"id"`
	ContactID   string          `json:"contact_id"`
	OwnerUserID string          `json:"owner_user_id"`
	TargetID    string          `json:"counterpart_user_id"`
	FolderID    string          `json:"folder_id"`
	UserDetails *profilePayload `json:"user_details"`
	Profile     *profilePayload `json:"profile"`
	profilePayload
}

func classify(p *rawProbe) recordShape {
	switch {
	case p.User != nil:
		return shapeTriple
	case p.Status != nil || p.UserDetails != nil || p.Profile != nil:
		return shapeEdge
	case p.ContactID != "" || p.ID != "" || p.OwnerNameEnglish != "" || p.NameEnglish != "" || p.Username != "":
		return shapeFlat
	default:
		return shapeUnknown
	}
}

// Canonicalize parses raw backend records into canonical edges and
// collapses duplicates. fallback is the status assumed for records that
// carry neither an explicit status nor is_contact=true. A record whose
// shape matches nothing known fails the whole batch; a recognized
// record with no addressable identity is dropped silently, since no
// later action could reference it.
func Canonicalize(raws []json.RawMessage, fallback domain.ContactStatus) ([]domain.ContactEdge, error) {
	edges := make([]domain.ContactEdge, 0, len(raws))
	seen := make(map[string]bool, len(raws))

	for _, raw := range raws {
		edge, ok, err := normalize(raw, fallback)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		keys := mergeKeys(edge)
		if len(keys) == 0 {
			continue
		}
		duplicate := false
		for _, key := range keys {
			if seen[key] {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		for _, key := range keys {
			seen[key] = true
		}
		edges = append(edges, edge)
	}
	return edges, nil
}

func normalize(raw json.RawMessage, fallback domain.ContactStatus) (domain.ContactEdge, bool, error) {
	var probe rawProbe
	if err := json.Unmarshal(raw, &probe); err != nil {
		return domain.ContactEdge{}, false, newShapeError(raw)
	}

	switch classify(&probe) {
	case shapeEdge:
		details := probe.UserDetails
		if details == nil {
			details = probe.Profile
		}
		if details == nil {
			details = &probe.profilePayload
		}
		edge := domain.ContactEdge{
			ID:                firstNonEmpty(probe.ID, probe.ContactID),
			OwnerUserID:       probe.OwnerUserID,
			CounterpartUserID: probe.TargetID,
			Status:            statusOf(probe.Status, probe.IsContact, fallback),
			FolderID:          probe.FolderID,
			Profile:           details.snapshot(),
		}
		return edge, true, nil

	case shapeTriple:
		edge := domain.ContactEdge{
			ID:                probe.User.ID,
			CounterpartUserID: probe.User.ID,
			Status:            statusOf(probe.Status, probe.IsContact, fallback),
			Profile:           probe.User.profilePayload.snapshot(),
		}
		if edge.Profile.Company == nil && probe.Company != nil {
			edge.Profile.Company = probe.Company
		}
		return edge, true, nil

	case shapeFlat:
		edge := domain.ContactEdge{
			ID:                firstNonEmpty(probe.ContactID, probe.ID),
			CounterpartUserID: firstNonEmpty(probe.ContactID, probe.ID),
			Status:            statusOf(probe.Status, probe.IsContact, fallback),
			Profile:           probe.profilePayload.snapshot(),
		}
		return edge, true, nil

	default:
		return domain.ContactEdge{}, false, newShapeError(raw)
	}
}

func statusOf(status *int, isContact *bool, fallback domain.ContactStatus) domain.ContactStatus {
	if status != nil {
		switch domain.ContactStatus(*status) {
		case domain.ContactStatusPending, domain.ContactStatusAccepted, domain.ContactStatusRejected:
			return domain.ContactStatus(*status)
		}
	}
	if isContact != nil && *isContact {
		return domain.ContactStatusAccepted
	}
	return fallback
}

// mergeKeys lists every identity under which a record can be addressed,
// in priority order: normalized English display name, edge/user id,
// username. Sharing any one of them makes two records the same logical
// contact; the first seen wins whole, later duplicates are discarded
// without field merging. Two distinct people sharing a display name are
// conflated; callers live with that.
func mergeKeys(edge domain.ContactEdge) []string {
	keys := make([]string, 0, 3)
	if name := strings.ToLower(strings.TrimSpace(edge.Profile.NameEnglish)); name != "" {
		keys = append(keys, "name:"+name)
	}
	if edge.ID != "" {
		keys = append(keys, "id:"+edge.ID)
	}
	if username := strings.ToLower(strings.TrimSpace(edge.Profile.Username)); username != "" {
		keys = append(keys, "username:"+username)
	}
	return keys
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func newShapeError(raw json.RawMessage) error {
	payload := string(raw)
	if len(payload) > 256 {
		payload = payload[:256] + "…"
	}
	return &domain.UnrecognizedShapeError{Payload: payload}
}
