package httpapi

import (
	"context"
	"net/http"

	"cardlink/internal/auth"
	"cardlink/internal/domain"
)

type authCtxKey int

const actorKey authCtxKey = iota

// requireActor resolves the acting user from the request's bearer token,
// falling back to the token the gateway was configured with. Requests
// without a usable identity never reach a handler.
func (a *api) requireActor(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := a.defaultToken
		if header := r.Header.Get("Authorization"); header != "" {
			t, err := auth.BearerToken(header)
			if err != nil {
				WriteDomainError(w, domain.ErrUnauthenticated)
				return
			}
			token = t
		}

		actor, err := auth.ActorFromToken(token)
		if err != nil {
			WriteDomainError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), actorKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

func CurrentActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	return actor, ok
}
