package instructions

import (
	sdktypes "github.com/blocto/solana-go-sdk/types"

	"listings-sdk-sol/pkg/types"
)

func writable(k types.Pubkey) sdktypes.AccountMeta {
	return sdktypes.AccountMeta{PubKey: k.ToCommon(), IsWritable: true}
}

func readonly(k types.Pubkey) sdktypes.AccountMeta {
	return sdktypes.AccountMeta{PubKey: k.ToCommon()}
}

func signer(k types.Pubkey) sdktypes.AccountMeta {
	return sdktypes.AccountMeta{PubKey: k.ToCommon(), IsSigner: true}
}

func signerWritable(k types.Pubkey) sdktypes.AccountMeta {
	return sdktypes.AccountMeta{PubKey: k.ToCommon(), IsSigner: true, IsWritable: true}
}

// AccountMeta 供调用方构造附加账户
func AccountMeta(k types.Pubkey, isSigner, isWritable bool) sdktypes.AccountMeta {
	return sdktypes.AccountMeta{PubKey: k.ToCommon(), IsSigner: isSigner, IsWritable: isWritable}
}
