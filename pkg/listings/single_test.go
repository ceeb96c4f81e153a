package listings

import (
	"context"
	"errors"
	"testing"

	sdktypes "github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listings-sdk-sol/internal/consts"
	"listings-sdk-sol/pkg/codec"
	"listings-sdk-sol/pkg/instructions"
	"listings-sdk-sol/pkg/model"
	"listings-sdk-sol/pkg/transport"
	"listings-sdk-sol/pkg/types"
	"listings-sdk-sol/pkg/upload"
)

var (
	testStore      = types.PubkeyFromBase58("AzvLBReZHmagAvdq1Q8hry1C9v84xm2zKfHMvhj5LeDG")
	testCollection = types.PubkeyFromBase58(consts.DevnetSampleCollectionStr)
	testUSDC       = types.PubkeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
)

func sampleSingleArgs(creator types.Pubkey, sale model.SaleConfig) *SingleArgs {
	return &SingleArgs{
		Store:      testStore,
		Collection: testCollection,
		Supply:     10,
		Metadata: model.ShortMetadataArgs{
			Name:                 "Track #1",
			SellerFeeBasisPoints: 500,
			Creators:             []model.Creator{{Address: creator, Verified: false, Share: 100}},
		},
		SaleConfig:    sale,
		Category:      model.Category{1, 0, 0},
		SuperCategory: model.SuperCategory{1, 0},
		HashTraits:    12345,
		Asset:         sampleAsset(),
	}
}

// decodeCreateSingle 从 create_single 指令数据中取回参数
func decodeCreateSingle(t *testing.T, data []byte) (model.ShortMetadataArgs, model.SaleConfig, uint64) {
	t.Helper()
	require.Equal(t, instructions.CreateSingleDiscriminator[:], data[:codec.DiscriminatorSize])
	d := codec.NewDecoder(data[codec.DiscriminatorSize:])
	_ = d.U64()
	var meta model.ShortMetadataArgs
	require.NoError(t, meta.DecodeFrom(d))
	var sale model.SaleConfig
	require.NoError(t, sale.DecodeFrom(d))
	identifier := d.U64()
	require.NoError(t, d.Err())
	return meta, sale, identifier
}

func isApprove(ix sdktypes.Instruction) bool {
	return types.PubkeyFromCommon(ix.ProgramID) == consts.TokenMetaProgram && len(ix.Data) == 1 && ix.Data[0] == approveOpcode
}

func TestCreateSingleEditionFreeItem(t *testing.T) {
	journal := newMemJournal()
	c, tr, up := newTestClient(t, WithJournal(journal))
	payer := sdktypes.NewAccount()
	creator := types.PubkeyFromCommon(payer.PublicKey)

	sale := NewSaleConfig(0, nil)
	assert.Empty(t, sale.Prices)

	res, err := c.CreateSingleEdition(context.Background(), payer, sampleSingleArgs(creator, sale))
	require.NoError(t, err)

	// 免费商品使用 "无币种" 占位派生 creator registry
	assert.Equal(t, consts.CnftProgram, res.Currency)
	registry, err := c.Deriver().CreatorRegistry(creator, testStore, consts.CnftProgram)
	require.NoError(t, err)
	assert.Equal(t, registry, res.CreatorRegistry)

	item, err := c.Deriver().Item(creator, testStore, testItemIdentity)
	require.NoError(t, err)
	assert.Equal(t, item, res.Item)
	assert.Equal(t, uint64(testItemIdentity), res.Identifier)

	// 上传授权 -> 合集授权 -> 上架 -> 登记创作者
	sub := tr.lastSubmission(t)
	require.Len(t, sub.instructions, 4)
	assert.Equal(t, []byte("fund"), sub.instructions[0].Data)
	assert.True(t, isApprove(sub.instructions[1]))
	assert.Equal(t, instructions.RegisterCreatorDiscriminator[:], sub.instructions[3].Data[:8])
	assert.Equal(t, registry.Key.ToCommon(), sub.instructions[3].Accounts[0].PubKey)

	require.Len(t, sub.signers, 2)
	assert.Equal(t, payer.PublicKey, sub.signers[0].PublicKey)
	assert.Equal(t, up.signer.PublicKey, sub.signers[1].PublicKey)

	meta, decodedSale, identifier := decodeCreateSingle(t, sub.instructions[2].Data)
	assert.Equal(t, "abc123/meta.json", meta.URI)
	assert.Equal(t, uint8(1), meta.URIType)
	assert.Equal(t, testCollection, meta.Collection)
	assert.Empty(t, decodedSale.Prices)
	assert.Equal(t, uint64(testItemIdentity), identifier)

	// 确认后才 finalize
	require.Len(t, up.uploads, 1)
	assert.Equal(t, res.Signature, up.finalized[up.uploads[0]])
	assert.True(t, res.Upload.Finalized)
	assert.NoError(t, res.Upload.Err)

	s, err := journal.Get(context.Background(), res.Upload.SessionID)
	require.NoError(t, err)
	assert.Equal(t, upload.SessionFinalized, s.State)
	assert.Equal(t, res.Signature, s.Signature)
}

func TestCreateSingleEditionSplCurrency(t *testing.T) {
	c, _, _ := newTestClient(t)
	payer := sdktypes.NewAccount()
	creator := types.PubkeyFromCommon(payer.PublicKey)

	mint := testUSDC
	sale := NewSaleConfig(1_000_000, &mint)
	require.Len(t, sale.Prices, 1)

	res, err := c.CreateSingleEdition(context.Background(), payer, sampleSingleArgs(creator, sale), WithItemIdentifier(99))
	require.NoError(t, err)
	assert.Equal(t, testUSDC, res.Currency)
	assert.Equal(t, uint64(99), res.Identifier)

	registry, err := c.Deriver().CreatorRegistry(creator, testStore, testUSDC)
	require.NoError(t, err)
	assert.Equal(t, registry, res.CreatorRegistry)
}

func TestCreateSingleEditionApprovesCollectionOnce(t *testing.T) {
	c, tr, _ := newTestClient(t)
	payer := sdktypes.NewAccount()
	creator := types.PubkeyFromCommon(payer.PublicKey)
	args := sampleSingleArgs(creator, NewSaleConfig(0, nil))

	first, err := c.CreateSingleEdition(context.Background(), payer, args, WithItemIdentifier(1))
	require.NoError(t, err)
	assert.True(t, first.ApprovedCollection)
	require.True(t, isApprove(tr.lastSubmission(t).instructions[1]))

	second, err := c.CreateSingleEdition(context.Background(), payer, args, WithItemIdentifier(2))
	require.NoError(t, err)
	assert.False(t, second.ApprovedCollection)

	sub := tr.lastSubmission(t)
	require.Len(t, sub.instructions, 3)
	for _, ix := range sub.instructions {
		assert.False(t, isApprove(ix))
	}
}

func TestCreateSingleEditionWithoutUploadInstruction(t *testing.T) {
	c, tr, up := newTestClient(t)
	up.noInstr = true
	payer := sdktypes.NewAccount()

	_, err := c.CreateSingleEdition(context.Background(), payer, sampleSingleArgs(types.PubkeyFromCommon(payer.PublicKey), NewSaleConfig(0, nil)))
	require.NoError(t, err)

	sub := tr.lastSubmission(t)
	assert.Len(t, sub.instructions, 3)
	require.Len(t, sub.signers, 1)
}

func TestCreateSingleEditionValidation(t *testing.T) {
	c, tr, up := newTestClient(t)
	payer := sdktypes.NewAccount()
	creator := types.PubkeyFromCommon(payer.PublicKey)

	cases := []struct {
		name   string
		mutate func(a *SingleArgs)
		msg    string
	}{
		{"missing store", func(a *SingleArgs) { a.Store = types.Pubkey{} }, "Store account is required"},
		{"missing collection", func(a *SingleArgs) { a.Collection = types.Pubkey{} }, "Collection is required"},
		{"negative supply", func(a *SingleArgs) { a.Supply = -1 }, "Supply"},
		{"empty name", func(a *SingleArgs) { a.Metadata.Name = "" }, "Metadata name"},
		{"seller fee", func(a *SingleArgs) { a.Metadata.SellerFeeBasisPoints = 10001 }, "Seller fee"},
		{"creator shares", func(a *SingleArgs) { a.Metadata.Creators[0].Share = 50 }, "shares"},
		{"zero price", func(a *SingleArgs) {
			a.SaleConfig.Prices = []model.Price{{Amount: 0, PriceType: model.CurrencyNative{}}}
		}, "amount must be positive"},
		{"empty spl mint", func(a *SingleArgs) {
			a.SaleConfig.Prices = []model.Price{{Amount: 1, PriceType: model.CurrencySpl{}}}
		}, "SPL currency"},
		{"nil price rule", func(a *SingleArgs) { a.SaleConfig.PriceType = nil }, "price rule"},
		{"bad sale type", func(a *SingleArgs) { a.SaleConfig.SaleType = model.SaleType(9) }, "Invalid sale config"},
		{"missing asset", func(a *SingleArgs) { a.Asset = nil }, "Invalid upload data"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			args := sampleSingleArgs(creator, NewSaleConfig(0, nil))
			tc.mutate(args)
			_, err := c.CreateSingleEdition(context.Background(), payer, args)
			requireValidation(t, err, tc.msg)
		})
	}
	assert.Zero(t, tr.reads)
	assert.Empty(t, up.uploads)
}

func TestCreateSingleEditionAuthorityLookupFailure(t *testing.T) {
	c, tr, up := newTestClient(t)
	tr.getErr = errors.New("connection reset")
	payer := sdktypes.NewAccount()

	_, err := c.CreateSingleEdition(context.Background(), payer, sampleSingleArgs(types.PubkeyFromCommon(payer.PublicKey), NewSaleConfig(0, nil)))
	var werr *WorkflowError
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, StageProbe, werr.Stage)
	assert.Empty(t, up.uploads)
}

func TestCreateSingleEditionSubmitFailureSkipsFinalize(t *testing.T) {
	journal := newMemJournal()
	c, tr, up := newTestClient(t, WithJournal(journal))
	tr.submitErr = errors.New("node unhealthy")
	payer := sdktypes.NewAccount()

	_, err := c.CreateSingleEdition(context.Background(), payer, sampleSingleArgs(types.PubkeyFromCommon(payer.PublicKey), NewSaleConfig(0, nil)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create single edition: submit transaction: node unhealthy")

	require.Len(t, up.uploads, 1)
	assert.Empty(t, up.finalized)

	s, err := journal.Get(context.Background(), up.uploads[0])
	require.NoError(t, err)
	assert.Equal(t, upload.SessionAbandoned, s.State)
}

func TestCreateSingleEditionFinalizeFailureIsReported(t *testing.T) {
	journal := newMemJournal()
	c, _, up := newTestClient(t, WithJournal(journal))
	up.finalizeFail = []string{"cover: gateway timeout"}
	payer := sdktypes.NewAccount()

	res, err := c.CreateSingleEdition(context.Background(), payer, sampleSingleArgs(types.PubkeyFromCommon(payer.PublicKey), NewSaleConfig(0, nil)))
	require.NoError(t, err)
	assert.False(t, res.Upload.Finalized)
	require.Error(t, res.Upload.Err)
	assert.Contains(t, res.Upload.Err.Error(), "gateway timeout")

	// 会话停留在 confirmed，等待补做
	pending, err := journal.Pending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{res.Upload.SessionID}, pending)
}

func TestCreateSingleEditionUploadFailure(t *testing.T) {
	c, tr, up := newTestClient(t)
	up.uploadErr = errors.New("quota exceeded")
	payer := sdktypes.NewAccount()

	_, err := c.CreateSingleEdition(context.Background(), payer, sampleSingleArgs(types.PubkeyFromCommon(payer.PublicKey), NewSaleConfig(0, nil)))
	var werr *WorkflowError
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, StageUpload, werr.Stage)
	assert.Empty(t, tr.submissions)
}

func TestCreateSingleEditionWithoutUploader(t *testing.T) {
	cfg, err := NetworkConfig(consts.NetworkDevnet)
	require.NoError(t, err)
	c, err := New(cfg, newFakeTransport(), nil)
	require.NoError(t, err)
	payer := sdktypes.NewAccount()

	_, err = c.CreateSingleEdition(context.Background(), payer, sampleSingleArgs(types.PubkeyFromCommon(payer.PublicKey), NewSaleConfig(0, nil)))
	assert.ErrorIs(t, err, errNoUploader)
}

func TestCreateSingleEditionConfirmTimeoutKeepsUpload(t *testing.T) {
	journal := newMemJournal()
	c, tr, up := newTestClient(t, WithJournal(journal))
	tr.confirmErr = &transport.TransportError{Op: "confirmTransaction", Err: transport.ErrConfirmTimeout}
	payer := sdktypes.NewAccount()

	_, err := c.CreateSingleEdition(context.Background(), payer, sampleSingleArgs(types.PubkeyFromCommon(payer.PublicKey), NewSaleConfig(0, nil)))
	var werr *WorkflowError
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, "sig-1", werr.Signature)
	assert.Empty(t, up.finalized)

	s, err := journal.Get(context.Background(), up.uploads[0])
	require.NoError(t, err)
	assert.Equal(t, upload.SessionSubmitted, s.State)
	assert.Equal(t, "sig-1", s.Signature)
}

func TestCreateSingleEditionNilFinalizeResult(t *testing.T) {
	journal := newMemJournal()
	c, _, up := newTestClient(t, WithJournal(journal))
	up.finalizeNil = true
	payer := sdktypes.NewAccount()

	res, err := c.CreateSingleEdition(context.Background(), payer, sampleSingleArgs(types.PubkeyFromCommon(payer.PublicKey), NewSaleConfig(0, nil)))
	require.NoError(t, err)
	assert.True(t, res.Upload.Finalized)
	assert.NoError(t, res.Upload.Err)
	assert.Empty(t, res.Upload.Succeeded)

	s, err := journal.Get(context.Background(), res.Upload.SessionID)
	require.NoError(t, err)
	assert.Equal(t, upload.SessionFinalized, s.State)
}

func TestCreateSingleEditionApproveUsesConfiguredMetadataProgram(t *testing.T) {
	cfg, err := NetworkConfig(consts.NetworkDevnet)
	require.NoError(t, err)
	cfg.Programs.TokenMetadata = types.PubkeyFromCommon(sdktypes.NewAccount().PublicKey)
	tr := newFakeTransport()
	c, err := New(cfg, tr, newFakeUploader(), WithIDSource(fixedIDs{}))
	require.NoError(t, err)
	payer := sdktypes.NewAccount()

	res, err := c.CreateSingleEdition(context.Background(), payer, sampleSingleArgs(types.PubkeyFromCommon(payer.PublicKey), NewSaleConfig(0, nil)))
	require.NoError(t, err)
	require.True(t, res.ApprovedCollection)

	sub := tr.lastSubmission(t)
	approve := sub.instructions[1]
	assert.Equal(t, []byte{approveOpcode}, approve.Data)
	assert.Equal(t, cfg.Programs.TokenMetadata.ToCommon(), approve.ProgramID)
	record, err := c.Deriver().CollectionAuthorityRecord(testCollection, res.CreatorAuthority.Key)
	require.NoError(t, err)
	assert.Equal(t, record.Key.ToCommon(), approve.Accounts[0].PubKey)
}
