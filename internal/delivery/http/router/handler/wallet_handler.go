package handler

import (
	"net/http"

	httpmiddleware "tokenpath/internal/delivery/http/middleware"
	"tokenpath/internal/delivery/http/response"
	domainerrors "tokenpath/internal/domain/errors"
	"tokenpath/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// WalletHandler serves the wallet API routes.
type WalletHandler struct {
	walletUC usecase.WalletUsecase
}

// WalletHandlerParams holds dependencies for the WalletHandler
type WalletHandlerParams struct {
	fx.In

	WalletUC usecase.WalletUsecase
}

// NewWalletHandler is the constructor for WalletHandler.
func NewWalletHandler(params WalletHandlerParams) *WalletHandler {
	return &WalletHandler{walletUC: params.WalletUC}
}

// Create provisions a wallet for the current session synchronously.
func (h *WalletHandler) Create(c echo.Context) error {
	claims, ok := httpmiddleware.SessionClaims(c)
	if !ok {
		return domainerrors.ErrSessionInvalid
	}

	record, err := h.walletUC.CreateWallet(c.Request().Context(), claims.AccountID)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, map[string]string{
		"walletAddress": record.WalletAddress,
	}, "")
}

// QRCode renders the session's wallet address as a PNG QR code.
func (h *WalletHandler) QRCode(c echo.Context) error {
	claims, ok := httpmiddleware.SessionClaims(c)
	if !ok {
		return domainerrors.ErrSessionInvalid
	}

	png, err := h.walletUC.WalletQR(c.Request().Context(), claims.AccountID)
	if err != nil {
		return err
	}

	return c.Blob(http.StatusOK, "image/png", png)
}
