package pyth

import (
	"encoding/binary"
	"fmt"
	"time"

	"solana-token-registry/internal/solana"
)

// Verification levels of a posted price update.
const (
	VerificationPartial = "partial"
	VerificationFull    = "full"
)

// PriceUpdate is a decoded PriceUpdateV2 account.
//
// Layout: discriminator(8) | write_authority(32) | verification_level(1 or 2) |
// feed_id(32) | price i64 | conf u64 | exponent i32 | publish_time i64 |
// prev_publish_time i64 | ema_price i64 | ema_conf u64 | posted_slot u64.
type PriceUpdate struct {
	WriteAuthority    solana.PublicKey
	VerificationLevel string
	NumSignatures     uint8 // only for partial verification
	FeedID            FeedID
	Price             int64
	Conf              uint64
	Exponent          int32
	PublishTime       time.Time
	PrevPublishTime   time.Time
	EMAPrice          int64
	EMAConf           uint64
	PostedSlot        uint64
}

const priceMessageSize = 32 + 8 + 8 + 4 + 8 + 8 + 8 + 8

// DecodePriceUpdate parses raw PriceUpdateV2 account data.
func DecodePriceUpdate(data []byte) (*PriceUpdate, error) {
	const header = 8 + 32
	if len(data) < header+1 {
		return nil, fmt.Errorf("price update data too short: %d", len(data))
	}

	u := &PriceUpdate{}
	copy(u.WriteAuthority[:], data[8:40])

	off := header
	switch tag := data[off]; tag {
	case 0:
		if len(data) < off+2 {
			return nil, fmt.Errorf("price update data too short: %d", len(data))
		}
		u.VerificationLevel = VerificationPartial
		u.NumSignatures = data[off+1]
		off += 2
	case 1:
		u.VerificationLevel = VerificationFull
		off++
	default:
		return nil, fmt.Errorf("invalid verification level %d", tag)
	}

	if len(data) < off+priceMessageSize+8 {
		return nil, fmt.Errorf("price update data too short: %d", len(data))
	}

	le := binary.LittleEndian
	copy(u.FeedID[:], data[off:off+32])
	off += 32
	u.Price = int64(le.Uint64(data[off:]))
	u.Conf = le.Uint64(data[off+8:])
	u.Exponent = int32(le.Uint32(data[off+16:]))
	u.PublishTime = time.Unix(int64(le.Uint64(data[off+20:])), 0).UTC()
	u.PrevPublishTime = time.Unix(int64(le.Uint64(data[off+28:])), 0).UTC()
	u.EMAPrice = int64(le.Uint64(data[off+36:]))
	u.EMAConf = le.Uint64(data[off+44:])
	u.PostedSlot = le.Uint64(data[off+52:])

	return u, nil
}

