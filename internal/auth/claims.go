package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"cardlink/internal/domain"
)

// TokenProvider yields the bearer token attached to outbound backend
// calls. Token issuance and refresh belong to the auth collaborator;
// this package only reads what the token already carries.
type TokenProvider func(ctx context.Context) (string, error)

func StaticToken(token string) TokenProvider {
	return func(context.Context) (string, error) { return token, nil }
}

type accessClaims struct {
	Tier string `json:"tier"`
	jwt.RegisteredClaims
}

// ActorFromToken derives the acting user from an access token. The
// signature is not checked here: the backend verifies every call it
// receives, and the client needs only the subject id and membership
// tier for local gating. A token the backend would reject still fails
// at the first round-trip with a 401.
func ActorFromToken(token string) (domain.Actor, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Actor{}, domain.ErrUnauthenticated
	}

	claims := &accessClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return domain.Actor{}, domain.ErrUnauthenticated
	}
	if claims.Subject == "" {
		return domain.Actor{}, domain.ErrUnauthenticated
	}

	tier := domain.MembershipTier(strings.ToLower(strings.TrimSpace(claims.Tier)))
	switch tier {
	case domain.TierPremium, domain.TierBusiness:
	default:
		tier = domain.TierFree
	}

	return domain.Actor{UserID: claims.Subject, Tier: tier}, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing authorization header")
	}
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", errors.New("malformed authorization header")
	}
	return strings.TrimSpace(header[len(prefix):]), nil
}
