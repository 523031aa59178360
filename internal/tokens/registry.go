package tokens

import (
	"fmt"
	"sync"

	"solana-token-registry/internal/pyth"
	"solana-token-registry/internal/solana"
)

// Info is the full attribute set of one token on one network.
type Info struct {
	Token            SupportedToken   `json:"token"`
	Mint             solana.PublicKey `json:"mint"`
	Decimals         uint8            `json:"decimals"`
	PriceFeed        pyth.FeedID      `json:"price_feed"`
	PriceFeedAccount solana.PublicKey `json:"price_feed_account"`
	PricedAs         SupportedToken   `json:"priced_as"`
}

// Registry is the immutable token table of one network.
// It is safe for concurrent use; nothing is written after New returns.
type Registry struct {
	network Network
	tokens  []SupportedToken
	infos   [numTokens]*Info
	byMint  map[solana.PublicKey]SupportedToken
}

// New builds the registry for network, validating its table and deriving
// every price feed account from its feed id.
func New(network Network) (*Registry, error) {
	entries, err := table(network)
	if err != nil {
		return nil, err
	}
	return newFromTable(network, entries)
}

// MustNew is like New but panics on error.
func MustNew(network Network) *Registry {
	r, err := New(network)
	if err != nil {
		panic(err)
	}
	return r
}

func newFromTable(network Network, entries []tableEntry) (*Registry, error) {
	r := &Registry{
		network: network,
		byMint:  make(map[solana.PublicKey]SupportedToken, len(entries)),
	}
	feeds := make(map[pyth.FeedID]SupportedToken, len(entries))

	for _, e := range entries {
		if !e.token.Valid() {
			return nil, fmt.Errorf("%s table: unknown token %d", network, uint8(e.token))
		}
		if r.infos[e.token] != nil {
			return nil, fmt.Errorf("%s table: duplicate entry for %s", network, e.token)
		}
		if e.mint.IsZero() {
			return nil, fmt.Errorf("%s table: %s has no mint", network, e.token)
		}
		if other, ok := r.byMint[e.mint]; ok {
			return nil, fmt.Errorf("%s table: mint %s shared by %s and %s", network, e.mint, other, e.token)
		}

		feed, ok := e.pricedAs.ownFeed()
		if !ok {
			return nil, fmt.Errorf("%s table: %s priced as %s which has no price feed", network, e.token, e.pricedAs)
		}
		if e.pricedAs == e.token {
			if other, ok := feeds[feed]; ok {
				return nil, fmt.Errorf("%s table: feed %s shared by %s and %s", network, feed, other, e.token)
			}
			feeds[feed] = e.token
		}

		account, err := pyth.DeriveFeedAccount(pyth.DefaultShard, feed)
		if err != nil {
			return nil, fmt.Errorf("%s table: %s: %w", network, e.token, err)
		}

		r.infos[e.token] = &Info{
			Token:            e.token,
			Mint:             e.mint,
			Decimals:         e.token.decimals(),
			PriceFeed:        feed,
			PriceFeedAccount: account,
			PricedAs:         e.pricedAs,
		}
		r.byMint[e.mint] = e.token
		r.tokens = append(r.tokens, e.token)
	}

	// A borrowed feed must belong to a token listed on this network.
	for _, t := range r.tokens {
		info := r.infos[t]
		if info.PricedAs != t && r.infos[info.PricedAs] == nil {
			return nil, fmt.Errorf("%s table: %s priced as %s which is not listed", network, t, info.PricedAs)
		}
	}

	return r, nil
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	return MustNew(BuildNetwork)
})

// Default returns the process-wide registry for BuildNetwork.
func Default() *Registry {
	return defaultRegistry()
}

// Network returns the network the registry was built for.
func (r *Registry) Network() Network {
	return r.network
}

// Tokens returns the tokens listed on this network in table order.
func (r *Registry) Tokens() []SupportedToken {
	out := make([]SupportedToken, len(r.tokens))
	copy(out, r.tokens)
	return out
}

// Supports reports whether token is listed on this network.
func (r *Registry) Supports(token SupportedToken) bool {
	return token.Valid() && r.infos[token] != nil
}

// Info returns a copy of the token's attributes.
func (r *Registry) Info(token SupportedToken) (Info, bool) {
	if !r.Supports(token) {
		return Info{}, false
	}
	return *r.infos[token], true
}

// lookup is Info with ErrUnsupportedToken for tokens not listed here.
func (r *Registry) lookup(token SupportedToken) (*Info, error) {
	if !r.Supports(token) {
		return nil, fmt.Errorf("%w: %s not listed on %s", ErrUnsupportedToken, token, r.network)
	}
	return r.infos[token], nil
}

// Mint returns the token's mint address. Tokens not listed on this network
// fail with ErrUnsupportedToken.
func (r *Registry) Mint(token SupportedToken) (solana.PublicKey, error) {
	info, err := r.lookup(token)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return info.Mint, nil
}

// FromMint resolves a mint address to its token. It is the exact inverse
// of Mint; unknown addresses fail with ErrUnsupportedToken.
func (r *Registry) FromMint(mint solana.PublicKey) (SupportedToken, error) {
	token, ok := r.byMint[mint]
	if !ok {
		return 0, fmt.Errorf("%w: mint %s", ErrUnsupportedToken, mint)
	}
	return token, nil
}

// FromMintString parses a base58 mint address and resolves it.
func (r *Registry) FromMintString(mint string) (SupportedToken, error) {
	pk, err := solana.ParsePublicKey(mint)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return r.FromMint(pk)
}

// Decimals returns the token's decimal scaling.
func (r *Registry) Decimals(token SupportedToken) (uint8, error) {
	info, err := r.lookup(token)
	if err != nil {
		return 0, err
	}
	return info.Decimals, nil
}

// PriceFeed returns the Pyth feed id used to price the token.
func (r *Registry) PriceFeed(token SupportedToken) (pyth.FeedID, error) {
	info, err := r.lookup(token)
	if err != nil {
		return pyth.FeedID{}, err
	}
	return info.PriceFeed, nil
}

// PriceFeedAccountKey returns the account the push oracle publishes the
// token's price to. Always DeriveFeedAccount(0, PriceFeed(token)).
func (r *Registry) PriceFeedAccountKey(token SupportedToken) (solana.PublicKey, error) {
	info, err := r.lookup(token)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return info.PriceFeedAccount, nil
}
