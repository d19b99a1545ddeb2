package middleware

import (
	"net/http"
	"strings"

	"tokenpath/internal/domain/constants"
	"tokenpath/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// publicPathPrefixes lists the page routes reachable without a session.
// Everything else under the page surface requires a valid session cookie.
var publicPathPrefixes = []string{
	"/login",
	"/learn",
	"/identity",
	"/proofs",
	"/rewards",
	"/resume",
	"/settings",
	"/vault",
}

// SessionGuard redirects browsers away from protected pages when their
// session cookie is missing or fails verification. API routes are not its
// concern; AuthMiddleware owns those.
type SessionGuard struct {
	tokenSvc service.TokenService
}

// NewSessionGuard is the constructor for SessionGuard.
func NewSessionGuard(tokenSvc service.TokenService) *SessionGuard {
	return &SessionGuard{tokenSvc: tokenSvc}
}

// Guard checks page requests against the public path list and verifies the
// session cookie signature for protected pages.
func (g *SessionGuard) Guard(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path

		// API routes carry their own auth; the guard only covers pages.
		if strings.HasPrefix(path, "/api/") || path == "/health" {
			return next(c)
		}

		if isPublicPath(path) {
			return next(c)
		}

		cookie, err := c.Cookie(constants.SessionCookieName)
		if err != nil || cookie.Value == "" {
			return c.Redirect(http.StatusFound, "/login")
		}

		// Full signature verification: a forged cookie must not open the
		// wallet surface.
		if _, err := g.tokenSvc.ValidateSession(cookie.Value); err != nil {
			return c.Redirect(http.StatusFound, "/login")
		}

		return next(c)
	}
}

func isPublicPath(path string) bool {
	if path == "/" {
		return true
	}
	for _, prefix := range publicPathPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}

	return false
}
