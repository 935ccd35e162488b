package middleware

import (
	"net/http"

	"menuboard/internal/auth"
	"menuboard/internal/store"
)

const sessionCookieName = "menuboard_session"

// SessionCookieName is exposed for the auth handler, which sets and clears
// the cookie.
const SessionCookieName = sessionCookieName

// RequireAuth validates the session cookie and populates AuthContext.
// Unauthenticated requests are redirected to the login page, never rendered
// as an in-page error.
func RequireAuth(sessionStore *store.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err != nil || cookie.Value == "" {
				redirectToLogin(w, r)
				return
			}

			sess, err := sessionStore.GetByToken(cookie.Value)
			if err != nil || sess == nil {
				redirectToLogin(w, r)
				return
			}

			ac := auth.AuthContext{
				UserID:    sess.UserID,
				SessionID: sess.ID,
			}

			ctx := auth.WithAuth(r.Context(), ac)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
