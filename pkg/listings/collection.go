package listings

import (
	"context"
	"time"

	sdktypes "github.com/blocto/solana-go-sdk/types"

	"listings-sdk-sol/pkg/instructions"
	"listings-sdk-sol/pkg/logger"
	"listings-sdk-sol/pkg/model"
	"listings-sdk-sol/pkg/receipt"
	"listings-sdk-sol/pkg/types"
	"listings-sdk-sol/pkg/upload"
)

// CollectionArgs 合集 NFT 参数；URI 必须为空，由上传结果填充
type CollectionArgs struct {
	Name                 string
	Symbol               string
	URI                  string
	SellerFeeBasisPoints uint16
	Creators             []model.Creator
	Collection           *model.Collection
	Mutable              bool
	Details              *instructions.CollectionDetails

	// Supply 母版最大可印数量；UnlimitedSupply 为 true 时忽略
	Supply          int64
	UnlimitedSupply bool

	Asset *upload.Asset
}

type CollectionResult struct {
	Signature    string
	Mint         types.Pubkey
	TokenAccount types.Pubkey
	Metadata     types.Pubkey
	Edition      types.Pubkey
	Upload       UploadOutcome
}

func validateCollectionArgs(args *CollectionArgs) error {
	if args == nil {
		return invalid("Collection arguments are required")
	}
	if err := validateMetaName(args.Name); err != nil {
		return err
	}
	if args.Symbol == "" || textLen(args.Symbol) > maxMetaSymbolLen {
		return invalid("Symbol is required and must be <= %d characters", maxMetaSymbolLen)
	}
	if err := validateSellerFee(args.SellerFeeBasisPoints); err != nil {
		return err
	}
	if err := validateCreators(args.Creators); err != nil {
		return err
	}
	if err := validateSupply(args.Supply); err != nil {
		return err
	}
	if args.URI != "" {
		return invalid("URI must be empty")
	}
	return validateAsset(args.Asset)
}

// CreateCollection 上传素材后铸造一枚合集 NFT（mint + ATA + metadata + master edition），
// 交易确认后再 finalize 上传
func (c *Client) CreateCollection(ctx context.Context, payer sdktypes.Account, args *CollectionArgs) (res *CollectionResult, err error) {
	start := time.Now()
	defer func() { observe(OpCreateCollection, start, err) }()

	if err := checkPayer(payer); err != nil {
		return nil, err
	}
	if err := validateCollectionArgs(args); err != nil {
		return nil, err
	}
	owner := types.PubkeyFromCommon(payer.PublicKey)

	// 1. 上传素材
	session, err := c.beginUpload(ctx, OpCreateCollection, "create_collection", owner, args.Asset)
	if err != nil {
		return nil, err
	}

	// 2. 新 mint
	mintAccount := sdktypes.NewAccount()
	mint := types.PubkeyFromCommon(mintAccount.PublicKey)

	// 3. 组装指令
	ixs, out, err := c.collectionInstructions(ctx, owner, mint, session.result.ContentURL, args)
	if err != nil {
		c.abandon(ctx, session.id, err.Error())
		return nil, err
	}
	ixs = append(session.instructions(), ixs...)

	signers := append([]sdktypes.Account{payer}, session.signers()...)
	signers = append(signers, mintAccount)

	// 4. 原子提交
	sig, err := c.submit(ctx, owner, ixs, signers)
	if err != nil {
		return nil, c.submitFailed(ctx, OpCreateCollection, session, sig, err)
	}
	logger.Infof("[Listings] 合集已创建: mint=%s, sig=%s", mint, sig)

	// 5. 确认后 finalize
	out.Signature = sig
	out.Upload = c.finishUpload(ctx, session, sig)

	c.publish(ctx, &receipt.Receipt{
		Type:      receipt.TypeCollectionCreated,
		Signature: sig,
		Payer:     owner,
		Accounts:  map[string]types.Pubkey{"mint": mint, "metadata": out.Metadata, "edition": out.Edition},
		Fields:    map[string]any{"name": args.Name, "symbol": args.Symbol, "uri": session.result.ContentURL},
		At:        time.Now(),
	})
	return out, nil
}

func (c *Client) collectionInstructions(ctx context.Context, owner, mint types.Pubkey, uri string, args *CollectionArgs) ([]sdktypes.Instruction, *CollectionResult, error) {
	ata, err := c.deriver.AssociatedToken(owner, mint)
	if err != nil {
		return nil, nil, wrap(OpCreateCollection, StageDerive, err)
	}
	metadata, err := c.deriver.Metadata(mint)
	if err != nil {
		return nil, nil, wrap(OpCreateCollection, StageDerive, err)
	}
	edition, err := c.deriver.Edition(mint)
	if err != nil {
		return nil, nil, wrap(OpCreateCollection, StageDerive, err)
	}

	rent, err := c.transport.GetMinimumBalanceForRentExemption(ctx, instructions.MintAccountSize)
	if err != nil {
		return nil, nil, wrap(OpCreateCollection, StageRent, err)
	}

	metaIx, err := instructions.CreateMetadataAccountV3(instructions.CreateMetadataAccountV3Param{
		ProgramID:            c.cfg.Programs.TokenMetadata,
		Metadata:             metadata.Key,
		Mint:                 mint,
		MintAuthority:        owner,
		Payer:                owner,
		UpdateAuthority:      owner,
		Name:                 args.Name,
		Symbol:               args.Symbol,
		URI:                  uri,
		SellerFeeBasisPoints: args.SellerFeeBasisPoints,
		Creators:             args.Creators,
		Collection:           args.Collection,
		IsMutable:            args.Mutable,
		CollectionDetails:    args.Details,
	})
	if err != nil {
		return nil, nil, wrap(OpCreateCollection, StageBuild, err)
	}

	var maxSupply *uint64
	if !args.UnlimitedSupply {
		s := uint64(args.Supply)
		maxSupply = &s
	}
	editionIx, err := instructions.CreateMasterEditionV3(instructions.CreateMasterEditionV3Param{
		ProgramID:       c.cfg.Programs.TokenMetadata,
		TokenProgram:    c.cfg.Programs.Token,
		Edition:         edition.Key,
		Mint:            mint,
		UpdateAuthority: owner,
		MintAuthority:   owner,
		Payer:           owner,
		Metadata:        metadata.Key,
		MaxSupply:       maxSupply,
	})
	if err != nil {
		return nil, nil, wrap(OpCreateCollection, StageBuild, err)
	}

	progs := c.cfg.tokenPrograms()
	ixs := []sdktypes.Instruction{
		instructions.CreateMintAccount(progs, owner, mint, rent),
		instructions.InitializeMint(progs, mint, owner, 0),
		instructions.CreateAssociatedTokenAccount(progs, owner, owner, mint, ata.Key),
		metaIx,
		instructions.MintTo(progs, mint, ata.Key, owner, 1),
		editionIx,
	}
	return ixs, &CollectionResult{
		Mint:         mint,
		TokenAccount: ata.Key,
		Metadata:     metadata.Key,
		Edition:      edition.Key,
	}, nil
}
