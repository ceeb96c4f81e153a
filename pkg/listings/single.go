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
	"listings-sdk-sol/pkg/upload"
)

// SingleArgs 单品参数；Metadata.URI 由上传结果填充
type SingleArgs struct {
	Store         types.Pubkey
	Collection    types.Pubkey
	Supply        int64
	Metadata      model.ShortMetadataArgs
	SaleConfig    model.SaleConfig
	Category      model.Category
	SuperCategory model.SuperCategory
	EventCategory uint16
	HashTraits    uint64
	Asset         *upload.Asset
}

type SingleResult struct {
	Signature          string
	Identifier         uint64
	Item               pda.Address
	CreatorAuthority   pda.Address
	CreatorRegistry    pda.Address
	Currency           types.Pubkey
	ApprovedCollection bool // 本次交易是否包含合集授权
	MetadataURI        string
	Upload             UploadOutcome
}

func validateSingleArgs(args *SingleArgs) error {
	if args == nil {
		return invalid("Single edition arguments are required")
	}
	if args.Store.IsZero() {
		return invalid("Store account is required")
	}
	if args.Collection.IsZero() {
		return invalid("Collection is required")
	}
	if err := validateSupply(args.Supply); err != nil {
		return err
	}
	if err := validateShortMetadata(args.Metadata); err != nil {
		return err
	}
	if err := validateSaleConfig(args.SaleConfig); err != nil {
		return err
	}
	return validateAsset(args.Asset)
}

// CreateSingleEdition 上传素材并在商店中上架单品，同时登记创作者的首个销售币种。
// 合集授权记录不存在时在同一笔交易中先授权。
func (c *Client) CreateSingleEdition(ctx context.Context, payer sdktypes.Account, args *SingleArgs, opts ...CallOption) (res *SingleResult, err error) {
	start := time.Now()
	defer func() { observe(OpCreateSingle, start, err) }()

	if err := checkPayer(payer); err != nil {
		return nil, err
	}
	if err := validateSingleArgs(args); err != nil {
		return nil, err
	}

	o := applyCallOptions(opts)
	identifier := c.ids.ItemIdentifier()
	if o.itemIdentifier != nil {
		identifier = *o.itemIdentifier
	}
	creator := types.PubkeyFromCommon(payer.PublicKey)
	out := &SingleResult{Identifier: identifier}

	// 1. 派生地址
	if out.Item, err = c.deriver.Item(creator, args.Store, identifier); err != nil {
		return nil, wrap(OpCreateSingle, StageDerive, err)
	}
	if out.CreatorAuthority, err = c.deriver.CreatorAuthority(creator, args.Store); err != nil {
		return nil, wrap(OpCreateSingle, StageDerive, err)
	}
	authRecord, err := c.deriver.CollectionAuthorityRecord(args.Collection, out.CreatorAuthority.Key)
	if err != nil {
		return nil, wrap(OpCreateSingle, StageDerive, err)
	}
	collectionMeta, err := c.deriver.Metadata(args.Collection)
	if err != nil {
		return nil, wrap(OpCreateSingle, StageDerive, err)
	}
	activity, err := c.deriver.UserActivity(creator, args.Store)
	if err != nil {
		return nil, wrap(OpCreateSingle, StageDerive, err)
	}
	out.Currency = c.cfg.registryCurrency(args.SaleConfig.FirstSplCurrency())
	if out.CreatorRegistry, err = c.deriver.CreatorRegistry(creator, args.Store, out.Currency); err != nil {
		return nil, wrap(OpCreateSingle, StageDerive, err)
	}

	// 2. 合集授权记录存在则跳过授权
	record, err := c.transport.GetAccount(ctx, authRecord.Key)
	if err != nil {
		return nil, wrap(OpCreateSingle, StageProbe, err)
	}
	out.ApprovedCollection = record == nil

	// 3. 上传素材
	session, err := c.beginUpload(ctx, OpCreateSingle, "create_single", creator, args.Asset)
	if err != nil {
		return nil, err
	}
	out.MetadataURI = StorageRelativePath(session.result.ContentURL)

	// 4. 组装指令：上传授权 -> 合集授权 -> 上架 -> 登记创作者
	ixs := session.instructions()
	if out.ApprovedCollection {
		ixs = append(ixs, instructions.ApproveCollectionAuthority(instructions.ApproveCollectionAuthorityParam{
			ProgramID:                 c.cfg.Programs.TokenMetadata,
			CollectionAuthorityRecord: authRecord.Key,
			NewCollectionAuthority:    out.CreatorAuthority.Key,
			UpdateAuthority:           creator,
			Payer:                     creator,
			Metadata:                  collectionMeta.Key,
			Mint:                      args.Collection,
		}))
	}

	meta := args.Metadata
	meta.URI = out.MetadataURI
	meta.URIType = uriTypeRelative
	if meta.Collection.IsZero() {
		meta.Collection = args.Collection
	}
	createIx, err := instructions.CreateSingle(instructions.CreateSingleParam{
		ProgramID:        c.cfg.Programs.Listings,
		Store:            args.Store,
		Item:             out.Item.Key,
		CreatorAuthority: out.CreatorAuthority.Key,
		ItemReserveList:  c.cfg.ItemReserveList,
		Creator:          creator,
		Payer:            creator,
		Supply:           uint64(args.Supply),
		ShortMetadata:    meta,
		SaleConfig:       args.SaleConfig,
		Identifier:       identifier,
		Category:         args.Category,
		SuperCategory:    args.SuperCategory,
		EventCategory:    args.EventCategory,
		HashTraits:       args.HashTraits,
	})
	if err != nil {
		c.abandon(ctx, session.id, err.Error())
		return nil, wrap(OpCreateSingle, StageBuild, err)
	}
	registerIx, err := instructions.RegisterCreator(instructions.RegisterCreatorParam{
		ProgramID:        c.cfg.Programs.Listings,
		CreatorRegistry:  out.CreatorRegistry.Key,
		UserActivity:     activity.Key,
		Item:             out.Item.Key,
		Store:            args.Store,
		Payer:            creator,
		UserActivityBump: activity.Bump,
	})
	if err != nil {
		c.abandon(ctx, session.id, err.Error())
		return nil, wrap(OpCreateSingle, StageBuild, err)
	}
	ixs = append(ixs, createIx, registerIx)

	// 5. 原子提交
	signers := append([]sdktypes.Account{payer}, session.signers()...)
	sig, err := c.submit(ctx, creator, ixs, signers)
	if err != nil {
		return nil, c.submitFailed(ctx, OpCreateSingle, session, sig, err)
	}
	logger.Infof("[Listings] 单品已上架: item=%s, id=%d, approve=%v, sig=%s", out.Item.Key, identifier, out.ApprovedCollection, sig)

	// 6. 确认后 finalize
	out.Signature = sig
	out.Upload = c.finishUpload(ctx, session, sig)

	c.publish(ctx, &receipt.Receipt{
		Type:      receipt.TypeItemCreated,
		Signature: sig,
		Payer:     creator,
		Accounts: map[string]types.Pubkey{
			"store":            args.Store,
			"item":             out.Item.Key,
			"collection":       args.Collection,
			"creator_registry": out.CreatorRegistry.Key,
			"currency":         out.Currency,
		},
		Fields: map[string]any{"identifier": int64(identifier), "supply": args.Supply, "uri": out.MetadataURI},
		At:     time.Now(),
	})
	return out, nil
}
