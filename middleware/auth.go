package middleware

import (
	"errors"
	"net/http"

	"gitea.com/go-chi/session"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"

	"github.com/blogem/object-log/repositories"
	"github.com/blogem/object-log/services"
	"github.com/blogem/object-log/userctx"
)

// SessionUserKey is the session key holding the logged-in user's ID
const SessionUserKey = "user_id"

// LoadUser puts the logged-in user, if any, into the request context
func LoadUser(users services.UserService, log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := session.GetSession(r)
			if sess == nil {
				next.ServeHTTP(w, r)
				return
			}

			id, err := cast.ToInt64E(sess.Get(SessionUserKey))
			if err != nil || id == 0 {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetUser(r.Context(), id)
			if err != nil {
				// Stale session, e.g. the database was reset
				if !errors.Is(err, repositories.ErrNotFound) {
					log.WithError(err).Warn("failed to load session user")
				}
				sess.Delete(SessionUserKey)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(userctx.SetUser(r.Context(), user)))
		})
	}
}

// RequireAuth ensures the user is authenticated
// If not authenticated, redirects to /login and stores the intended destination
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userctx.GetUser(r.Context()) == nil {
			if sess := session.GetSession(r); sess != nil {
				// Store the intended destination for redirect after login
				sess.Set("redirect_after_login", r.URL.Path)
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}
