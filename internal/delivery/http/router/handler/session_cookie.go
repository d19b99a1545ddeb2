// Package handler contains the HTTP handlers for the API routes.
package handler

import (
	"net/http"
	"time"

	"tokenpath/internal/domain/constants"

	"github.com/labstack/echo/v4"
)

// setSessionCookie writes the session token as an HTTP-only cookie. The
// cookie is the only place the token lives; it never appears in a response
// body.
func setSessionCookie(c echo.Context, token string, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int((7 * 24 * time.Hour).Seconds()),
	})
}

// clearSessionCookie expires the session cookie immediately. Browsers drop
// cookies with an epoch expiry regardless of their original attributes.
func clearSessionCookie(c echo.Context, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}
