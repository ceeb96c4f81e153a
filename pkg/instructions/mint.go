package instructions

import (
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/associated_token_account"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/program/token"
	sdktypes "github.com/blocto/solana-go-sdk/types"

	"listings-sdk-sol/pkg/types"
)

// MintAccountSize SPL mint 账户大小
const MintAccountSize = token.MintAccountSize

// TokenPrograms 铸币指令的目标程序，取自客户端配置
type TokenPrograms struct {
	Token           types.Pubkey
	AssociatedToken types.Pubkey
}

// CreateMintAccount 为 mint 分配账户空间，owner 为 Token 程序
func CreateMintAccount(progs TokenPrograms, payer, mint types.Pubkey, lamports uint64) sdktypes.Instruction {
	return system.CreateAccount(system.CreateAccountParam{
		From:     payer.ToCommon(),
		New:      mint.ToCommon(),
		Owner:    progs.Token.ToCommon(),
		Lamports: lamports,
		Space:    MintAccountSize,
	})
}

// InitializeMint 初始化 mint；freeze 权限与 mint 权限相同
func InitializeMint(progs TokenPrograms, mint, authority types.Pubkey, decimals uint8) sdktypes.Instruction {
	freeze := authority.ToCommon()
	ix := token.InitializeMint(token.InitializeMintParam{
		Decimals:   decimals,
		Mint:       mint.ToCommon(),
		MintAuth:   authority.ToCommon(),
		FreezeAuth: &freeze,
	})
	ix.ProgramID = progs.Token.ToCommon()
	return ix
}

// CreateAssociatedTokenAccount sdk 固定使用主网程序 ID，这里替换成配置中的程序
func CreateAssociatedTokenAccount(progs TokenPrograms, payer, owner, mint, ata types.Pubkey) sdktypes.Instruction {
	ix := associated_token_account.Create(associated_token_account.CreateParam{
		Funder:                 payer.ToCommon(),
		Owner:                  owner.ToCommon(),
		Mint:                   mint.ToCommon(),
		AssociatedTokenAccount: ata.ToCommon(),
	})
	ix.ProgramID = progs.AssociatedToken.ToCommon()
	for i := range ix.Accounts {
		if ix.Accounts[i].PubKey == common.TokenProgramID {
			ix.Accounts[i].PubKey = progs.Token.ToCommon()
		}
	}
	return ix
}

func MintTo(progs TokenPrograms, mint, to, authority types.Pubkey, amount uint64) sdktypes.Instruction {
	ix := token.MintTo(token.MintToParam{
		Mint:    mint.ToCommon(),
		To:      to.ToCommon(),
		Auth:    authority.ToCommon(),
		Signers: []common.PublicKey{},
		Amount:  amount,
	})
	ix.ProgramID = progs.Token.ToCommon()
	return ix
}
