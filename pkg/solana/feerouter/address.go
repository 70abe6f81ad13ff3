package feerouter

import (
	"crypto/ed25519"

	"github.com/code-payments/fee-router/pkg/solana"
)

var (
	routerStatePrefix = []byte("router_state")
)

// GetRouterStateAddress returns the program derived address that records the
// program's initialization
func GetRouterStateAddress() (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		routerStatePrefix,
	)
}
