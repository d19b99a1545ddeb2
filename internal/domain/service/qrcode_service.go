package service

// QRCodeService generates receive QR codes for wallet addresses.
type QRCodeService interface {
	// GenerateWalletQR renders the wallet address as a PNG QR code.
	GenerateWalletQR(address string) ([]byte, error)
}
