//go:build mainnet

package tokens

// BuildNetwork is the network whose table Default serves.
const BuildNetwork = Mainnet
