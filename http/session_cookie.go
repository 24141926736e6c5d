package http

import (
	"net/http"

	"synergy-engine/service"
)

const (
	sessionCookieName = "synergy_session"
	sessionHeaderName = "X-Session-ID"
)

// sessionID returns the caller's session ID, issuing a new one (and its
// cookie) when the request carries none or an invalid one.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if id := r.Header.Get(sessionHeaderName); service.ValidSessionID(id) {
		return id
	}
	if c, err := r.Cookie(sessionCookieName); err == nil && service.ValidSessionID(c.Value) {
		return c.Value
	}

	id := service.NewSessionID()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set(sessionHeaderName, id)
	return id
}
