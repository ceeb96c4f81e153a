package transport

import (
	"context"

	sdktypes "github.com/blocto/solana-go-sdk/types"

	"listings-sdk-sol/pkg/types"
)

// AccountInfo 链上账户快照
type AccountInfo struct {
	Address    types.Pubkey
	Owner      types.Pubkey
	Lamports   uint64
	Executable bool
	Data       []byte
}

// AccountReader 账户读取；账户不存在时返回 nil, nil
type AccountReader interface {
	GetAccount(ctx context.Context, addr types.Pubkey) (*AccountInfo, error)
	GetMultipleAccounts(ctx context.Context, addrs []types.Pubkey) ([]*AccountInfo, error)
}

// Submitter 交易提交；Submit 阻塞到交易确认或失败
type Submitter interface {
	GetMinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error)
	Submit(ctx context.Context, feePayer types.Pubkey, instructions []sdktypes.Instruction, signers []sdktypes.Account) (string, error)
}

type Transport interface {
	AccountReader
	Submitter
}
