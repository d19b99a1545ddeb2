package middleware

import (
	"net/http"

	deliverycontext "tokenpath/internal/delivery/context"
	"tokenpath/internal/domain/constants"
	"tokenpath/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware authenticates requests by their session cookie.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate validates the session cookie and puts the verified claims on
// the context. Requests without a valid session get a 401.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(constants.SessionCookieName)
		if err != nil || cookie.Value == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Session cookie is missing"})
		}

		claims, err := m.tokenSvc.ValidateSession(cookie.Value)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired session"})
		}

		c.Set(string(deliverycontext.KeySessionClaims), claims)

		return next(c)
	}
}

// SessionClaims extracts the verified claims placed by Authenticate.
func SessionClaims(c echo.Context) (*service.SessionClaims, bool) {
	claims, ok := c.Get(string(deliverycontext.KeySessionClaims)).(*service.SessionClaims)

	return claims, ok
}
