package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/jutta-lagani/storefront/internal/core/domain"
	"github.com/jutta-lagani/storefront/internal/core/service"
)

type contextKey int

const actorContextKey contextKey = iota

// withActor resolves the current actor from the session cookie. Visitors
// without a cookie get a fresh anonymous token, which also keys their guest
// cart.
func (h *HTTPHandler) withActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.sessionToken(r)
		if token == "" {
			token = uuid.NewString()
			h.setSessionCookie(w, token)
		}

		actor := domain.Actor{Token: token}

		accountID, ok, err := h.sessions.GetSession(r.Context(), token)
		if err != nil {
			writeError(w, err)
			return
		}
		if ok {
			account, err := h.accounts.GetAccount(r.Context(), accountID)
			switch {
			case err == nil:
				actor.Account = account
			case errors.Is(err, service.ErrNotFound):
				// A session pointing at a vanished account degrades to anonymous.
			default:
				writeError(w, err)
				return
			}
		}

		ctx := context.WithValue(r.Context(), actorContextKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *HTTPHandler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !actorFrom(r).Authenticated() {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "login required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *HTTPHandler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := actorFrom(r)
		if !actor.Authenticated() {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "login required"})
			return
		}
		if err := h.admin.Authorize(actor.Account); err != nil {
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func actorFrom(r *http.Request) domain.Actor {
	actor, _ := r.Context().Value(actorContextKey).(domain.Actor)
	return actor
}

func (h *HTTPHandler) sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(h.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (h *HTTPHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *HTTPHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
