package listings

import (
	"fmt"

	sdktypes "github.com/blocto/solana-go-sdk/types"

	"listings-sdk-sol/internal/consts"
	"listings-sdk-sol/pkg/instructions"
	"listings-sdk-sol/pkg/pda"
	"listings-sdk-sol/pkg/types"
)

// HolderSeeds 派生 holder 账户的参数
type HolderSeeds struct {
	Creator types.Pubkey
	Slot    uint64
}

// ExtraAccount 购买指令追加的 remaining account
type ExtraAccount struct {
	Pubkey     types.Pubkey
	IsSigner   bool
	IsWritable bool
}

// Config 客户端配置；所有地址都显式给出，不依赖包级默认值
type Config struct {
	Network     string
	Programs    pda.Programs
	Holder      HolderSeeds
	GlobalStore types.Pubkey

	// NoCurrency 免费或原生币计价时派生 registry 使用的币种占位地址
	NoCurrency types.Pubkey

	// 购买时未使用的 pack / burn progress / pool vault 占位地址
	PackPlaceholder         types.Pubkey
	BurnProgressPlaceholder types.Pubkey
	PoolVaultPlaceholder    types.Pubkey

	// 创建商品时 itemReserveList 账户
	ItemReserveList types.Pubkey

	// 购买指令追加账户
	ExtraAccounts []ExtraAccount
}

// NetworkConfig 返回 devnet / mainnet-beta 预设
func NetworkConfig(network string) (Config, error) {
	cfg := Config{
		Network: network,
		Programs: pda.Programs{
			Listings:        consts.ListingsProgram,
			TokenMetadata:   consts.TokenMetaProgram,
			Token:           consts.TokenProgram,
			AssociatedToken: consts.AssociatedTokenProgram,
		},
		NoCurrency:              consts.CnftProgram,
		PackPlaceholder:         consts.CnftProgram,
		BurnProgressPlaceholder: consts.CnftProgram,
		PoolVaultPlaceholder:    consts.CnftProgram,
		ItemReserveList:         consts.ListingsProgram,
	}
	switch network {
	case consts.NetworkDevnet:
		cfg.Holder = HolderSeeds{Creator: consts.DevnetHolderCreator, Slot: consts.HolderSlot}
		cfg.GlobalStore = consts.DevnetGlobalStore
	case consts.NetworkMainnet:
		cfg.Holder = HolderSeeds{Creator: consts.MainnetHolderCreator, Slot: consts.HolderSlot}
		cfg.GlobalStore = consts.MainnetGlobalStore
	default:
		return Config{}, fmt.Errorf("unknown network %q", network)
	}
	// 全局商店需要作为可写的 remaining account 传入
	cfg.ExtraAccounts = []ExtraAccount{{Pubkey: cfg.GlobalStore, IsWritable: true}}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Programs.Listings.IsZero() {
		return fmt.Errorf("listings program id is empty")
	}
	if c.Programs.TokenMetadata.IsZero() || c.Programs.Token.IsZero() || c.Programs.AssociatedToken.IsZero() {
		return fmt.Errorf("token program ids are incomplete")
	}
	if c.Holder.Creator.IsZero() {
		return fmt.Errorf("holder creator is empty")
	}
	if c.GlobalStore.IsZero() {
		return fmt.Errorf("global store is empty")
	}
	if c.NoCurrency.IsZero() {
		return fmt.Errorf("no-currency sentinel is empty")
	}
	return nil
}

func (c *Config) extraAccountMetas() []sdktypes.AccountMeta {
	metas := make([]sdktypes.AccountMeta, 0, len(c.ExtraAccounts))
	for _, a := range c.ExtraAccounts {
		metas = append(metas, sdktypes.AccountMeta{PubKey: a.Pubkey.ToCommon(), IsSigner: a.IsSigner, IsWritable: a.IsWritable})
	}
	return metas
}

func (c *Config) tokenPrograms() instructions.TokenPrograms {
	return instructions.TokenPrograms{Token: c.Programs.Token, AssociatedToken: c.Programs.AssociatedToken}
}

// registryCurrency 第一个价格为 SPL 时取其 mint，否则取 NoCurrency
func (c *Config) registryCurrency(first types.Pubkey, ok bool) types.Pubkey {
	if ok {
		return first
	}
	return c.NoCurrency
}
