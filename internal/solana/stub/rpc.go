package stub

import (
	"context"
	"sync"

	"solana-token-registry/internal/solana"
)

// RPCClient implements solana.RPCClient for testing.
// Accounts not present in the store read as missing.
type RPCClient struct {
	mu       sync.Mutex
	Accounts map[solana.PublicKey]*solana.Account
	Slot     int64
	Err      error // returned by every call when set
	Batches  [][]solana.PublicKey
}

// NewRPCClient creates a new stub RPC client.
func NewRPCClient() *RPCClient {
	return &RPCClient{
		Accounts: make(map[solana.PublicKey]*solana.Account),
	}
}

// GetMultipleAccounts returns the stored accounts in key order and records the batch.
func (c *RPCClient) GetMultipleAccounts(ctx context.Context, keys []solana.PublicKey) (*solana.Accounts, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Batches = append(c.Batches, append([]solana.PublicKey(nil), keys...))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.Err != nil {
		return nil, c.Err
	}

	out := &solana.Accounts{Slot: c.Slot, Accounts: make([]*solana.Account, len(keys))}
	for i, k := range keys {
		out.Accounts[i] = c.Accounts[k]
	}
	return out, nil
}

// AddAccount adds an account to the stub store.
func (c *RPCClient) AddAccount(key solana.PublicKey, acct *solana.Account) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Accounts[key] = acct
}

// RemoveAccount deletes an account from the stub store.
func (c *RPCClient) RemoveAccount(key solana.PublicKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.Accounts, key)
}

var _ solana.RPCClient = (*RPCClient)(nil)
