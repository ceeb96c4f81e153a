package listings

import (
	"context"
	"time"

	sdktypes "github.com/blocto/solana-go-sdk/types"

	"listings-sdk-sol/pkg/accounts"
	"listings-sdk-sol/pkg/instructions"
	"listings-sdk-sol/pkg/logger"
	"listings-sdk-sol/pkg/pda"
	"listings-sdk-sol/pkg/receipt"
	"listings-sdk-sol/pkg/types"
)

type BuyResult struct {
	Signature               string
	Identifier              uint64
	Creator                 types.Pubkey
	Store                   types.Pubkey
	Collection              types.Pubkey
	Currency                types.Pubkey // 购买侧 registry 一律以 NoCurrency 派生，与商品定价币种无关
	Item                    pda.Address
	Payment                 pda.Address
	UserActivity            pda.Address
	CreatorRegistry         pda.Address
	CollectorRegistry       pda.Address
	CollectorGlobalRegistry pda.Address
}

// BuySingleEdition 购买一个单品版次，买家是唯一签名者
func (c *Client) BuySingleEdition(ctx context.Context, payer sdktypes.Account, item types.Pubkey, distributionBumps []uint8) (res *BuyResult, err error) {
	start := time.Now()
	defer func() { observe(OpBuySingle, start, err) }()

	if err := checkPayer(payer); err != nil {
		return nil, err
	}
	if item.IsZero() {
		return nil, invalid("Item account is required")
	}
	if err := validateDistributionBumps(distributionBumps); err != nil {
		return nil, err
	}
	buyer := types.PubkeyFromCommon(payer.PublicKey)

	// 1. 读取商品记录
	single, err := accounts.FetchSingle(ctx, c.transport, item, c.cfg.Programs.Listings)
	if err != nil {
		return nil, wrap(OpBuySingle, StageFetch, err)
	}
	if single == nil {
		return nil, invalid("Item account %s not found", item)
	}

	// 2. 校验记录里的关联账户
	out := &BuyResult{
		Identifier: single.Identifier,
		Creator:    single.Creator,
		Store:      single.Holder,
		Collection: single.Collection(),
		Currency:   c.cfg.NoCurrency,
	}
	if out.Creator.IsZero() {
		return nil, invalid("Missing creator")
	}
	if out.Store.IsZero() {
		return nil, invalid("Missing store")
	}
	if out.Collection.IsZero() {
		return nil, invalid("Missing collection")
	}

	// 3. 派生地址
	if out.Item, err = c.deriver.Item(out.Creator, out.Store, out.Identifier); err != nil {
		return nil, wrap(OpBuySingle, StageDerive, err)
	}
	if out.Item.Key != item {
		return nil, invalid("Item address %s does not match its record (derived %s)", item, out.Item.Key)
	}
	if out.Payment, err = c.deriver.Payment(buyer, out.Item.Key); err != nil {
		return nil, wrap(OpBuySingle, StageDerive, err)
	}
	if out.UserActivity, err = c.deriver.UserActivity(buyer, out.Store); err != nil {
		return nil, wrap(OpBuySingle, StageDerive, err)
	}
	if out.CollectorRegistry, err = c.deriver.CollectorArtistRegistry(buyer, out.Creator, out.Store, out.Currency); err != nil {
		return nil, wrap(OpBuySingle, StageDerive, err)
	}
	if out.CreatorRegistry, err = c.deriver.CreatorRegistry(out.Creator, out.Store, out.Currency); err != nil {
		return nil, wrap(OpBuySingle, StageDerive, err)
	}
	if out.CollectorGlobalRegistry, err = c.deriver.CollectorGlobalRegistry(buyer, out.Store, out.Currency); err != nil {
		return nil, wrap(OpBuySingle, StageDerive, err)
	}

	// 4. 组装指令
	buyIx, err := instructions.BuySingle(instructions.BuySingleParam{
		ProgramID:         c.cfg.Programs.Listings,
		Payment:           out.Payment.Key,
		Item:              out.Item.Key,
		Pack:              c.cfg.PackPlaceholder,
		BurnProgress:      c.cfg.BurnProgressPlaceholder,
		PoolVault:         c.cfg.PoolVaultPlaceholder,
		Holder:            out.Store,
		Owner:             buyer,
		Payer:             buyer,
		Store:             out.Store,
		GlobalStore:       c.cfg.GlobalStore,
		Creator:           out.Creator,
		Collection:        out.Collection,
		TokenProgram:      c.cfg.Programs.Token,
		DistributionBumps: distributionBumps,
		Identifier:        out.Identifier,
		ExtraAccounts:     c.cfg.extraAccountMetas(),
	})
	if err != nil {
		return nil, wrap(OpBuySingle, StageBuild, err)
	}
	registerIx, err := instructions.RegisterCollector(instructions.RegisterCollectorParam{
		ProgramID:               c.cfg.Programs.Listings,
		CollectorArtistRegistry: out.CollectorRegistry.Key,
		CollectorGlobalRegistry: out.CollectorGlobalRegistry.Key,
		UserActivity:            out.UserActivity.Key,
		CreatorRegistry:         out.CreatorRegistry.Key,
		Store:                   out.Store,
		Payer:                   buyer,
		CreatorBump:             out.CreatorRegistry.Bump,
		ActivityBump:            out.UserActivity.Bump,
	})
	if err != nil {
		return nil, wrap(OpBuySingle, StageBuild, err)
	}

	// 5. 提交
	sig, err := c.submit(ctx, buyer, []sdktypes.Instruction{buyIx, registerIx}, []sdktypes.Account{payer})
	if err != nil {
		return nil, wrapSubmit(OpBuySingle, sig, err)
	}
	out.Signature = sig
	logger.Infof("[Listings] 购买成功: item=%s, buyer=%s, sig=%s", item, buyer, sig)

	c.publish(ctx, &receipt.Receipt{
		Type:      receipt.TypeItemPurchased,
		Signature: sig,
		Payer:     buyer,
		Accounts: map[string]types.Pubkey{
			"item":     out.Item.Key,
			"store":    out.Store,
			"creator":  out.Creator,
			"payment":  out.Payment.Key,
			"currency": out.Currency,
		},
		Fields: map[string]any{"identifier": int64(out.Identifier)},
		At:     time.Now(),
	})
	return out, nil
}
