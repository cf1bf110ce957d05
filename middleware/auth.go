package middleware

import (
	"context"
	"net/http"

	"steamCompareAPI/internal/session"
	"steamCompareAPI/internal/types/profile"
)

type contextKey string

const SteamIDKey contextKey = "steamID"
const ProfileKey contextKey = "profile"

// SessionAuth guards protected routes. Requests without a valid session are
// redirected to the landing page — pages and API routes alike, so an expired
// session never leaks a JSON error body.
func SessionAuth(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := sessions.Get(r)
			if !ok {
				RecordAuthRedirect()
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), ProfileKey, p)
			ctx = context.WithValue(ctx, SteamIDKey, p.SteamID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSteamID extracts the authenticated user's Steam ID from context.
func GetSteamID(ctx context.Context) (string, bool) {
	steamID, ok := ctx.Value(SteamIDKey).(string)
	return steamID, ok
}

// GetProfile extracts the authenticated user's profile from context.
func GetProfile(ctx context.Context) (*profile.Profile, bool) {
	p, ok := ctx.Value(ProfileKey).(*profile.Profile)
	return p, ok
}
