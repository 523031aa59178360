package solana

// Well-known program IDs.
var (
	SystemProgramID    = MustPublicKey("11111111111111111111111111111111")
	TokenProgramID     = MustPublicKey("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	Token2022ProgramID = MustPublicKey("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")
)

// Account is a decoded account as returned by getMultipleAccounts.
type Account struct {
	Lamports   uint64
	Owner      PublicKey
	Data       []byte
	Executable bool
	RentEpoch  uint64
}

// Accounts is the result of a batched account read.
// Accounts[i] is nil when keys[i] does not exist.
type Accounts struct {
	Slot     int64
	Accounts []*Account
}

// IsTokenProgram reports whether owner is the SPL Token or Token-2022 program.
func IsTokenProgram(owner PublicKey) bool {
	return owner == TokenProgramID || owner == Token2022ProgramID
}
