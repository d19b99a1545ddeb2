package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"tokenpath/config"
	httpmiddleware "tokenpath/internal/delivery/http/middleware"
	"tokenpath/internal/delivery/http/response"
	"tokenpath/internal/domain/constants"
	"tokenpath/internal/domain/entity"
	domainerrors "tokenpath/internal/domain/errors"
	"tokenpath/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AuthHandler serves the authentication API routes.
type AuthHandler struct {
	authUC       usecase.AuthUsecase
	walletUC     usecase.WalletUsecase
	secureCookie bool
}

// AuthHandlerParams holds dependencies for the AuthHandler
type AuthHandlerParams struct {
	fx.In

	AuthUC   usecase.AuthUsecase
	WalletUC usecase.WalletUsecase
	Config   *config.Config
}

// NewAuthHandler is the constructor for AuthHandler.
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		authUC:       params.AuthUC,
		walletUC:     params.WalletUC,
		secureCookie: params.Config.Env.Env == constants.EnvProduction,
	}
}

// userPayload is the account representation returned to clients.
type userPayload struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	IsGuest       bool   `json:"isGuest"`
	WalletAddress string `json:"walletAddress,omitempty"`
	WalletPending bool   `json:"walletPending,omitempty"`
}

// lineLoginRequest is the LINE login body. The adapter re-parses the full
// body; the DTO only gates malformed requests before they reach it.
type lineLoginRequest struct {
	IDToken json.RawMessage `json:"idToken" validate:"required"`
}

// providerLoginRequest is the generic login body: the provider credential
// wrapped in an authData envelope.
type providerLoginRequest struct {
	AuthData json.RawMessage `json:"authData" validate:"required"`
}

// LoginLine handles the LINE login route. The whole body is handed to the
// LINE adapter, which owns credential validation.
func (h *AuthHandler) LoginLine(c echo.Context) error {
	body, err := readLoginBody(c, &lineLoginRequest{})
	if err != nil {
		return err
	}

	return h.login(c, entity.ProviderTypeLine, body)
}

// LoginProvider handles the generic provider login route.
func (h *AuthHandler) LoginProvider(c echo.Context) error {
	providerType, ok := entity.ParseProviderType(c.Param("provider"))
	if !ok {
		return domainerrors.ErrUnsupportedProvider.WithDetails(c.Param("provider"))
	}

	var req providerLoginRequest
	if _, err := readLoginBody(c, &req); err != nil {
		return err
	}

	return h.login(c, providerType, req.AuthData)
}

// readLoginBody reads the request body, decodes it into the given DTO, and
// validates it. The raw body is returned for adapters that parse it whole.
func readLoginBody(c echo.Context, req any) ([]byte, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("failed to read request body")
	}
	if err := json.Unmarshal(body, req); err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("malformed JSON body")
	}
	if err := c.Validate(req); err != nil {
		return nil, err
	}

	return body, nil
}

func (h *AuthHandler) login(c echo.Context, providerType entity.ProviderType, credential json.RawMessage) error {
	out, err := h.authUC.Login(c.Request().Context(), providerType, credential)
	if err != nil {
		return err
	}

	setSessionCookie(c, out.Token, h.secureCookie)

	return response.Success(c, http.StatusOK, map[string]any{
		"message":  "Authentication successful",
		"provider": string(out.Provider),
		"user": userPayload{
			ID:            out.Account.ID,
			Email:         out.Account.Email,
			Name:          out.Account.Name,
			WalletPending: out.WalletPending,
		},
	}, "")
}

// LoginGuest provisions an anonymous account and logs it in.
func (h *AuthHandler) LoginGuest(c echo.Context) error {
	out, err := h.authUC.GuestLogin(c.Request().Context())
	if err != nil {
		return err
	}

	setSessionCookie(c, out.Token, h.secureCookie)

	return response.Success(c, http.StatusOK, map[string]any{
		"message": "Guest session created",
		"user": userPayload{
			ID:      out.Account.ID,
			Email:   out.Account.Email,
			Name:    out.Account.Name,
			IsGuest: true,
		},
	}, "")
}

// Logout clears the session cookie and tears down provider state.
func (h *AuthHandler) Logout(c echo.Context) error {
	providerType, ok := entity.ParseProviderType(c.Param("provider"))
	if !ok {
		return domainerrors.ErrUnsupportedProvider.WithDetails(c.Param("provider"))
	}

	clearSessionCookie(c, h.secureCookie)

	if err := h.authUC.Logout(c.Request().Context(), providerType); err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Logged out"}, "")
}

// Me returns the session-bound account and its wallet state.
func (h *AuthHandler) Me(c echo.Context) error {
	claims, ok := httpmiddleware.SessionClaims(c)
	if !ok {
		return domainerrors.ErrSessionInvalid
	}

	out, err := h.authUC.Me(c.Request().Context(), claims.AccountID, claims.IsGuest)
	if err != nil {
		return err
	}

	payload := userPayload{
		ID:      out.Account.ID,
		Email:   out.Account.Email,
		Name:    out.Account.Name,
		IsGuest: out.IsGuest,
	}
	if out.Wallet != nil {
		payload.WalletAddress = out.Wallet.WalletAddress
		payload.WalletPending = !out.Wallet.Provisioned()
	}

	return response.Success(c, http.StatusOK, payload, "")
}

// Balance returns the wallet balance for the current session. Accounts
// without a provisioned wallet get a zero-value balance, never an error.
func (h *AuthHandler) Balance(c echo.Context) error {
	claims, ok := httpmiddleware.SessionClaims(c)
	if !ok {
		return domainerrors.ErrSessionInvalid
	}

	balance, err := h.walletUC.Balance(c.Request().Context(), claims.AccountID)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, balance, "")
}

// Providers reports which providers are available and which one a fresh
// client should start with.
func (h *AuthHandler) Providers(c echo.Context) error {
	availability := h.authUC.Availability()

	return response.Success(c, http.StatusOK, map[string]any{
		"line":     availability.Line,
		"telegram": availability.Telegram,
		"default":  string(h.authUC.DefaultProvider()),
	}, "")
}
