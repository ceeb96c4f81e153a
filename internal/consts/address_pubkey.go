package consts

import (
	"listings-sdk-sol/pkg/types"
)

// 公钥形式的地址常量（types.Pubkey），用于指令构造与派生
var (
	// Programs
	SystemProgram          types.Pubkey
	TokenProgram           types.Pubkey
	AssociatedTokenProgram types.Pubkey
	TokenMetaProgram       types.Pubkey
	SysvarRent             types.Pubkey

	ListingsProgram types.Pubkey
	CnftProgram     types.Pubkey

	DevnetHolderCreator  types.Pubkey
	MainnetHolderCreator types.Pubkey

	DevnetGlobalStore  types.Pubkey
	MainnetGlobalStore types.Pubkey
)

// init 自动将 base58 字符串地址转换为 types.Pubkey
func init() {
	SystemProgram = types.PubkeyFromBase58(SystemProgramStr)
	TokenProgram = types.PubkeyFromBase58(TokenProgramStr)
	AssociatedTokenProgram = types.PubkeyFromBase58(AssociatedTokenProgramStr)
	TokenMetaProgram = types.PubkeyFromBase58(TokenMetaProgramIdStr)
	SysvarRent = types.PubkeyFromBase58(SysvarRentStr)

	ListingsProgram = types.PubkeyFromBase58(ListingsProgramStr)
	CnftProgram = types.PubkeyFromBase58(CnftProgramStr)

	DevnetHolderCreator = types.PubkeyFromBase58(DevnetHolderCreatorStr)
	MainnetHolderCreator = types.PubkeyFromBase58(MainnetHolderCreatorStr)

	DevnetGlobalStore = types.PubkeyFromBase58(DevnetGlobalStoreStr)
	MainnetGlobalStore = types.PubkeyFromBase58(MainnetGlobalStoreStr)
}
