package solana

import (
	"encoding/binary"
	"fmt"
)

// MintAccountSize is the size of an SPL Token mint account.
// Token-2022 mints with extensions are larger; the base layout is shared.
const MintAccountSize = 82

// Mint is a decoded SPL Token mint account.
// Layout: mint_authority COption<Pubkey>(36) | supply u64 | decimals u8 |
// is_initialized bool | freeze_authority COption<Pubkey>(36).
type Mint struct {
	MintAuthority   *PublicKey
	Supply          uint64
	Decimals        uint8
	IsInitialized   bool
	FreezeAuthority *PublicKey
}

// DecodeMint parses raw mint account data.
func DecodeMint(data []byte) (*Mint, error) {
	if len(data) < MintAccountSize {
		return nil, fmt.Errorf("mint account data too short: %d", len(data))
	}

	mintAuthority, err := decodeCOptionKey(data[0:36])
	if err != nil {
		return nil, fmt.Errorf("mint authority: %w", err)
	}
	freezeAuthority, err := decodeCOptionKey(data[46:82])
	if err != nil {
		return nil, fmt.Errorf("freeze authority: %w", err)
	}

	return &Mint{
		MintAuthority:   mintAuthority,
		Supply:          binary.LittleEndian.Uint64(data[36:44]),
		Decimals:        data[44],
		IsInitialized:   data[45] != 0,
		FreezeAuthority: freezeAuthority,
	}, nil
}

func decodeCOptionKey(b []byte) (*PublicKey, error) {
	switch tag := binary.LittleEndian.Uint32(b[0:4]); tag {
	case 0:
		return nil, nil
	case 1:
		pk, err := PublicKeyFromBytes(b[4:36])
		if err != nil {
			return nil, err
		}
		return &pk, nil
	default:
		return nil, fmt.Errorf("invalid COption tag %d", tag)
	}
}
