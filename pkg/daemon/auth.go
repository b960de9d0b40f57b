package daemon

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/lestrrat-go/jwx/jwk"
	"github.com/lestrrat-go/jwx/jwt"
	"github.com/rs/zerolog/log"
)

// FetchKeySet downloads the JSON web key set used to verify tokens.
func FetchKeySet(ctx context.Context, url string) (jwk.Set, error) {
	set, err := jwk.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS from %s: %w", url, err)
	}
	return set, nil
}

// RequireToken rejects requests without a bearer token signed by a key in
// set, or whose claims are no longer valid.
func RequireToken(set jwk.Set) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			token, err := jwt.Parse([]byte(raw), jwt.WithKeySet(set))
			if err == nil {
				err = jwt.Validate(token)
			}
			if err != nil {
				log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("rejected token")
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
