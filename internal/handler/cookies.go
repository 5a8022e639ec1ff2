package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	userCookieName         = "user_id"
	conversationCookieName = "conversation_id"

	userCookieMaxAge         = 30 * 24 * time.Hour
	conversationCookieMaxAge = 7 * 24 * time.Hour
)

// identity returns the caller's user and conversation identifiers, minting
// fresh cookies for any that are absent.
func identity(w http.ResponseWriter, r *http.Request) (userID, conversationID string) {
	userID = ensureCookie(w, r, userCookieName, userCookieMaxAge)
	conversationID = ensureCookie(w, r, conversationCookieName, conversationCookieMaxAge)
	return userID, conversationID
}

func ensureCookie(w http.ResponseWriter, r *http.Request, name string, maxAge time.Duration) string {
	if c, err := r.Cookie(name); err == nil && c.Value != "" {
		return c.Value
	}

	value := uuid.NewString()
	setCookie(w, name, value, maxAge)
	return value
}

func setCookie(w http.ResponseWriter, name, value string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}
