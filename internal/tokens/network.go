package tokens

import (
	"fmt"
	"strings"

	"solana-token-registry/internal/solana"
)

// Network selects which deployment's mint table is active.
type Network uint8

const (
	Devnet Network = iota
	Mainnet
)

// String returns the lowercase network name.
func (n Network) String() string {
	switch n {
	case Devnet:
		return "devnet"
	case Mainnet:
		return "mainnet"
	default:
		return fmt.Sprintf("Network(%d)", uint8(n))
	}
}

// ParseNetwork parses "devnet" or "mainnet" (also "mainnet-beta").
func ParseNetwork(s string) (Network, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "devnet":
		return Devnet, nil
	case "mainnet", "mainnet-beta":
		return Mainnet, nil
	default:
		return 0, fmt.Errorf("%w: unknown network %q", ErrInvalidArgument, s)
	}
}

// tableEntry is one row of a network's mint table.
// pricedAs names the token whose feed prices this one; usually itself.
type tableEntry struct {
	token    SupportedToken
	mint     solana.PublicKey
	pricedAs SupportedToken
}

func table(n Network) ([]tableEntry, error) {
	switch n {
	case Devnet:
		return devnetTable, nil
	case Mainnet:
		return mainnetTable, nil
	default:
		return nil, fmt.Errorf("%w: unknown network %d", ErrInvalidArgument, uint8(n))
	}
}

var nativeMint = solana.MustPublicKey("So11111111111111111111111111111111111111112")

var devnetTable = []tableEntry{
	{token: USDC, mint: solana.MustPublicKey("4zMMC9srt5Ri5X14GAgXhaHii3GnPAEERYPJgZJDncDU"), pricedAs: USDC},
	{token: USDT, mint: solana.MustPublicKey("EJwZgeZrdC8TXTQbQBoL6bfuAnFUUy1PVCMB4DYPzVaS"), pricedAs: USDT},
	{token: SOL, mint: nativeMint, pricedAs: SOL},
	{token: FIDA, mint: solana.MustPublicKey("fidaWCioBQjieRrUQDxxS5Uxmq1CLi2VuVRyv4dEBey"), pricedAs: FIDA},
	// Test token without a Pyth feed; quoted off USDC.
	{token: FWC, mint: solana.MustPublicKey("FLEYqPkSSUoZXywYaKoN7eRPDFWDM6THLz2kuW9zKwHE"), pricedAs: USDC},
}

// FWC is not deployed on mainnet.
var mainnetTable = []tableEntry{
	{token: USDC, mint: solana.MustPublicKey("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"), pricedAs: USDC},
	{token: USDT, mint: solana.MustPublicKey("Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB"), pricedAs: USDT},
	{token: SOL, mint: nativeMint, pricedAs: SOL},
	{token: FIDA, mint: solana.MustPublicKey("FLEYqPkSSUoZXywYaKoN7eRPDFWDM6THLz2kuW9zKwHE"), pricedAs: FIDA},
}
