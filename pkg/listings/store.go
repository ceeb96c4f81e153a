package listings

import (
	"context"
	"time"

	sdktypes "github.com/blocto/solana-go-sdk/types"

	"listings-sdk-sol/pkg/instructions"
	"listings-sdk-sol/pkg/logger"
	"listings-sdk-sol/pkg/model"
	"listings-sdk-sol/pkg/pda"
	"listings-sdk-sol/pkg/receipt"
	"listings-sdk-sol/pkg/types"
)

type StoreResult struct {
	Signature string
	StoreID   uint16
	Holder    pda.Address
	Store     pda.Address
}

// StorePlan 已派生地址和待提交的指令
type StorePlan struct {
	StoreID      uint16
	Holder       pda.Address
	Store        pda.Address
	Instructions []sdktypes.Instruction
}

// PlanCreateStore 校验参数、派生地址并构造指令，不访问网络
func (c *Client) PlanCreateStore(payer sdktypes.Account, name string, cfg model.StoreConfig, opts ...CallOption) (*StorePlan, error) {
	if err := checkPayer(payer); err != nil {
		return nil, err
	}
	if err := validateStoreName(name); err != nil {
		return nil, err
	}
	if err := validateStoreConfig(cfg); err != nil {
		return nil, err
	}

	o := applyCallOptions(opts)
	storeID := c.ids.StoreID()
	if o.storeID != nil {
		storeID = *o.storeID
	}
	creator := types.PubkeyFromCommon(payer.PublicKey)

	holder, err := c.deriver.Holder(c.cfg.Holder.Creator, c.cfg.Holder.Slot)
	if err != nil {
		return nil, wrap(OpCreateStore, StageDerive, err)
	}
	store, err := c.deriver.Store(holder.Key, creator, storeID)
	if err != nil {
		return nil, wrap(OpCreateStore, StageDerive, err)
	}

	ix, err := instructions.CreateStore(instructions.CreateStoreParam{
		ProgramID: c.cfg.Programs.Listings,
		Holder:    holder.Key,
		Store:     store.Key,
		Payer:     creator,
		Name:      name,
		Config:    cfg,
		StoreID:   storeID,
	})
	if err != nil {
		return nil, wrap(OpCreateStore, StageBuild, err)
	}
	return &StorePlan{StoreID: storeID, Holder: holder, Store: store, Instructions: []sdktypes.Instruction{ix}}, nil
}

// CreateStore 创建商店，payer 同时是商店创建者
func (c *Client) CreateStore(ctx context.Context, payer sdktypes.Account, name string, cfg model.StoreConfig, opts ...CallOption) (res *StoreResult, err error) {
	start := time.Now()
	defer func() { observe(OpCreateStore, start, err) }()

	plan, err := c.PlanCreateStore(payer, name, cfg, opts...)
	if err != nil {
		return nil, err
	}

	creator := types.PubkeyFromCommon(payer.PublicKey)
	sig, err := c.submit(ctx, creator, plan.Instructions, []sdktypes.Account{payer})
	if err != nil {
		return nil, wrapSubmit(OpCreateStore, sig, err)
	}
	logger.Infof("[Listings] 商店已创建: store=%s, id=%d, sig=%s", plan.Store.Key, plan.StoreID, sig)

	c.publish(ctx, &receipt.Receipt{
		Type:      receipt.TypeStoreCreated,
		Signature: sig,
		Payer:     creator,
		Accounts:  map[string]types.Pubkey{"holder": plan.Holder.Key, "store": plan.Store.Key},
		Fields:    map[string]any{"store_id": int64(plan.StoreID), "name": name},
		At:        time.Now(),
	})
	return &StoreResult{Signature: sig, StoreID: plan.StoreID, Holder: plan.Holder, Store: plan.Store}, nil
}
