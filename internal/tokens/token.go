// Package tokens is the static allow-list of fungible tokens the settlement
// program accepts: mint addresses, decimals and Pyth price feeds.
package tokens

import (
	"fmt"
	"strings"

	"solana-token-registry/internal/pyth"
)

// SupportedToken is the closed set of recognized tokens.
type SupportedToken uint8

const (
	USDC SupportedToken = iota
	USDT
	SOL
	FIDA
	FWC

	numTokens = int(FWC) + 1
)

// All returns every variant in declaration order.
func All() []SupportedToken {
	return []SupportedToken{USDC, USDT, SOL, FIDA, FWC}
}

// Valid reports whether t is a declared variant.
func (t SupportedToken) Valid() bool {
	return int(t) < numTokens
}

// String returns the token symbol.
func (t SupportedToken) String() string {
	switch t {
	case USDC:
		return "USDC"
	case USDT:
		return "USDT"
	case SOL:
		return "SOL"
	case FIDA:
		return "FIDA"
	case FWC:
		return "FWC"
	default:
		return fmt.Sprintf("SupportedToken(%d)", uint8(t))
	}
}

// ParseSymbol is the case-insensitive inverse of String.
func ParseSymbol(s string) (SupportedToken, error) {
	for _, t := range All() {
		if strings.EqualFold(s, t.String()) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: symbol %q", ErrUnsupportedToken, s)
}

// MarshalText implements encoding.TextMarshaler.
func (t SupportedToken) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedToken, uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *SupportedToken) UnmarshalText(text []byte) error {
	parsed, err := ParseSymbol(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// decimals returns the mint's decimal scaling. Identical on every network.
func (t SupportedToken) decimals() uint8 {
	switch t {
	case SOL:
		return 9
	case USDC, USDT, FIDA, FWC:
		return 6
	default:
		return 0
	}
}

// ownFeed returns the Pyth feed id published for the token itself.
// Feed ids are chain-agnostic. FWC has no feed of its own.
func (t SupportedToken) ownFeed() (pyth.FeedID, bool) {
	switch t {
	case USDC:
		return usdcFeed, true
	case USDT:
		return usdtFeed, true
	case SOL:
		return solFeed, true
	case FIDA:
		return fidaFeed, true
	default:
		return pyth.FeedID{}, false
	}
}

var (
	usdcFeed = pyth.FeedID{
		234, 160, 32, 198, 28, 196, 121, 113, 40, 19, 70, 28, 225, 83, 137, 74, 150, 166,
		192, 11, 33, 237, 12, 252, 39, 152, 209, 249, 169, 233, 201, 74,
	}
	usdtFeed = pyth.FeedID{
		43, 137, 185, 220, 143, 223, 159, 52, 112, 154, 91, 16, 107, 71, 47, 15, 57, 187,
		108, 169, 206, 4, 176, 253, 127, 46, 151, 22, 136, 226, 229, 59,
	}
	solFeed = pyth.FeedID{
		239, 13, 139, 111, 218, 44, 235, 164, 29, 161, 93, 64, 149, 209, 218, 57, 42, 13,
		47, 142, 208, 198, 199, 188, 15, 76, 250, 200, 194, 128, 181, 109,
	}
	fidaFeed = pyth.FeedID{
		200, 6, 87, 183, 246, 243, 234, 194, 114, 24, 208, 157, 90, 78, 84, 228, 123, 37,
		118, 141, 159, 94, 16, 172, 21, 254, 44, 249, 0, 136, 20, 0,
	}
)
