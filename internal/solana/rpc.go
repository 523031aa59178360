package solana

import "context"

// RPCClient defines the subset of Solana JSON-RPC used for account reads.
type RPCClient interface {
	// GetMultipleAccounts retrieves accounts in order, batching requests as
	// needed. Missing accounts are nil entries.
	GetMultipleAccounts(ctx context.Context, keys []PublicKey) (*Accounts, error)
}
