package consts

const (
	NetworkDevnet  = "devnet"
	NetworkMainnet = "mainnet-beta"

	DevnetEndpoint  = "https://api.devnet.solana.com"
	MainnetEndpoint = "https://api.mainnet-beta.solana.com"
)

// Holder 派生用的 slot，两个网络目前一致
const HolderSlot uint64 = 0

// DefaultEndpoint 网络对应的公共 RPC 节点，未知网络返回空
func DefaultEndpoint(network string) string {
	switch network {
	case NetworkDevnet:
		return DevnetEndpoint
	case NetworkMainnet:
		return MainnetEndpoint
	}
	return ""
}
