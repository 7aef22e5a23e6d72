package domain

// MembershipTier gates folder management. Free accounts may file
// contacts into existing folders but never mutate the registry.
type MembershipTier string

const (
	TierFree     MembershipTier = "free"
	TierPremium  MembershipTier = "premium"
	TierBusiness MembershipTier = "business"
)

func (t MembershipTier) CanManageFolders() bool {
	return t == TierPremium || t == TierBusiness
}

// Actor is the authenticated caller as derived from the access token.
type Actor struct {
	UserID string
	Tier   MembershipTier
}
