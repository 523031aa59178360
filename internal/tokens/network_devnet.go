//go:build !mainnet

package tokens

// BuildNetwork is the network whose table Default serves.
// Build with -tags mainnet to select the mainnet table.
const BuildNetwork = Devnet
