// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

// Balance is a token balance as reported by the external wallet engine.
type Balance struct {
	WalletAddress string `json:"walletAddress"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	Decimals      int    `json:"decimals"`
	Value         string `json:"value"`
	DisplayValue  string `json:"displayValue"`
}

// EmptyBalance is the well-formed zero balance returned for accounts whose
// wallet has not been provisioned yet. Callers get a 200 with this payload,
// never an error, so a pending wallet does not break the balance surface.
func EmptyBalance() *Balance {
	return &Balance{
		WalletAddress: "",
		Name:          "",
		Symbol:        "",
		Decimals:      0,
		Value:         "",
		DisplayValue:  "",
	}
}
