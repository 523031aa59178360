// Package pyth derives and decodes Pyth pull-oracle price feed accounts on Solana.
package pyth

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"solana-token-registry/internal/solana"
)

// Program IDs of the Pyth Solana receiver deployment (same on mainnet and devnet).
var (
	// PushOracleProgramID owns the sharded price feed accounts.
	PushOracleProgramID = solana.MustPublicKey("pythWSnswVUd12oZpeFP8e9CVaEqJg25g1Vtc2biRsT")

	// ReceiverProgramID defines the PriceUpdateV2 account layout.
	ReceiverProgramID = solana.MustPublicKey("rec5EKMGg6MxZYaMdyBfgwp4d5rB9T1VQH5pJv5LtFJ")
)

// DefaultShard is the shard every sponsored feed is published on.
const DefaultShard uint16 = 0

// FeedIDLength is the size of a Pyth price feed id.
const FeedIDLength = 32

// FeedID identifies a Pyth price feed across all chains.
type FeedID [FeedIDLength]byte

// ParseFeedID decodes a 64-char hex feed id, with or without a 0x prefix.
func ParseFeedID(s string) (FeedID, error) {
	var id FeedID
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) != hex.EncodedLen(FeedIDLength) {
		return id, fmt.Errorf("invalid feed id length %d", len(s))
	}
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return id, fmt.Errorf("decode feed id: %w", err)
	}
	return id, nil
}

// MustFeedID is like ParseFeedID but panics on error.
func MustFeedID(s string) FeedID {
	id, err := ParseFeedID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the lowercase hex encoding without prefix.
func (id FeedID) String() string {
	return hex.EncodeToString(id[:])
}

// MarshalText implements encoding.TextMarshaler.
func (id FeedID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *FeedID) UnmarshalText(text []byte) error {
	parsed, err := ParseFeedID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// DeriveFeedAccount returns the price feed account the push oracle maintains
// for (shard, feed). Seeds: shard as little-endian u16, then the feed id.
func DeriveFeedAccount(shard uint16, feed FeedID) (solana.PublicKey, error) {
	var shardSeed [2]byte
	binary.LittleEndian.PutUint16(shardSeed[:], shard)

	key, _, err := solana.FindProgramAddress([][]byte{shardSeed[:], feed[:]}, PushOracleProgramID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("derive feed account for %s: %w", feed, err)
	}
	return key, nil
}
