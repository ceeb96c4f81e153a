package listings

import (
	"context"
	"errors"
	"testing"

	sdktypes "github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listings-sdk-sol/internal/consts"
	"listings-sdk-sol/pkg/model"
	"listings-sdk-sol/pkg/transport"
	"listings-sdk-sol/pkg/types"
	"listings-sdk-sol/pkg/upload"
)

func sampleCollectionArgs(creator types.Pubkey) *CollectionArgs {
	return &CollectionArgs{
		Name:                 "Sample Collection",
		Symbol:               "SMP",
		SellerFeeBasisPoints: 500,
		Creators:             []model.Creator{{Address: creator, Verified: true, Share: 100}},
		Mutable:              true,
		Supply:               0,
		Asset:                sampleAsset(),
	}
}

func TestCreateCollection(t *testing.T) {
	journal := newMemJournal()
	c, tr, up := newTestClient(t, WithJournal(journal))
	payer := sdktypes.NewAccount()
	owner := types.PubkeyFromCommon(payer.PublicKey)

	res, err := c.CreateCollection(context.Background(), payer, sampleCollectionArgs(owner))
	require.NoError(t, err)

	ata, err := c.Deriver().AssociatedToken(owner, res.Mint)
	require.NoError(t, err)
	assert.Equal(t, ata.Key, res.TokenAccount)
	metadata, err := c.Deriver().Metadata(res.Mint)
	require.NoError(t, err)
	assert.Equal(t, metadata.Key, res.Metadata)

	sub := tr.lastSubmission(t)
	assert.Equal(t, owner, sub.feePayer)
	require.Len(t, sub.instructions, 7)
	assert.Equal(t, []byte("fund"), sub.instructions[0].Data)
	assert.Equal(t, consts.SystemProgram.ToCommon(), sub.instructions[1].ProgramID)
	assert.Equal(t, consts.TokenProgram.ToCommon(), sub.instructions[2].ProgramID)
	assert.Equal(t, consts.AssociatedTokenProgram.ToCommon(), sub.instructions[3].ProgramID)
	assert.Equal(t, consts.TokenMetaProgram.ToCommon(), sub.instructions[4].ProgramID)
	assert.Equal(t, consts.TokenProgram.ToCommon(), sub.instructions[5].ProgramID)
	assert.Equal(t, consts.TokenMetaProgram.ToCommon(), sub.instructions[6].ProgramID)

	// 付款人、上传签名者、新 mint
	require.Len(t, sub.signers, 3)
	assert.Equal(t, payer.PublicKey, sub.signers[0].PublicKey)
	assert.Equal(t, up.signer.PublicKey, sub.signers[1].PublicKey)
	assert.Equal(t, res.Mint, types.PubkeyFromCommon(sub.signers[2].PublicKey))

	assert.True(t, res.Upload.Finalized)
	s, err := journal.Get(context.Background(), res.Upload.SessionID)
	require.NoError(t, err)
	assert.Equal(t, upload.SessionFinalized, s.State)
	assert.Equal(t, "create_collection", s.Workflow)
}

func TestCreateCollectionFreshMintEachCall(t *testing.T) {
	c, _, _ := newTestClient(t)
	payer := sdktypes.NewAccount()
	args := sampleCollectionArgs(types.PubkeyFromCommon(payer.PublicKey))

	first, err := c.CreateCollection(context.Background(), payer, args)
	require.NoError(t, err)
	second, err := c.CreateCollection(context.Background(), payer, args)
	require.NoError(t, err)
	assert.NotEqual(t, first.Mint, second.Mint)
}

func TestCreateCollectionValidation(t *testing.T) {
	c, tr, up := newTestClient(t)
	payer := sdktypes.NewAccount()
	owner := types.PubkeyFromCommon(payer.PublicKey)

	cases := []struct {
		name   string
		mutate func(a *CollectionArgs)
		msg    string
	}{
		{"uri set", func(a *CollectionArgs) { a.URI = "https://example.com/meta.json" }, "URI must be empty"},
		{"empty symbol", func(a *CollectionArgs) { a.Symbol = "" }, "Symbol is required"},
		{"long symbol", func(a *CollectionArgs) { a.Symbol = "ABCDEFGHIJK" }, "Symbol is required"},
		{"empty name", func(a *CollectionArgs) { a.Name = "" }, "Metadata name"},
		{"seller fee", func(a *CollectionArgs) { a.SellerFeeBasisPoints = 20000 }, "Seller fee"},
		{"duplicate creator", func(a *CollectionArgs) {
			a.Creators = []model.Creator{{Address: owner, Share: 50}, {Address: owner, Share: 50}}
		}, "Duplicate creator"},
		{"negative supply", func(a *CollectionArgs) { a.Supply = -5 }, "Supply"},
		{"empty file", func(a *CollectionArgs) { a.Asset.File = upload.File{} }, "Invalid upload data"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			args := sampleCollectionArgs(owner)
			tc.mutate(args)
			_, err := c.CreateCollection(context.Background(), payer, args)
			requireValidation(t, err, tc.msg)
		})
	}
	assert.Zero(t, tr.reads)
	assert.Empty(t, up.uploads)
}

func TestCreateCollectionSubmitFailureAbandonsUpload(t *testing.T) {
	journal := newMemJournal()
	c, tr, up := newTestClient(t, WithJournal(journal))
	payer := sdktypes.NewAccount()
	tr.submitErr = assert.AnError

	_, err := c.CreateCollection(context.Background(), payer, sampleCollectionArgs(types.PubkeyFromCommon(payer.PublicKey)))
	require.ErrorIs(t, err, assert.AnError)

	require.Len(t, up.uploads, 1)
	s, err := journal.Get(context.Background(), up.uploads[0])
	require.NoError(t, err)
	assert.Equal(t, upload.SessionAbandoned, s.State)
}

func TestCreateCollectionConfirmTimeoutKeepsUpload(t *testing.T) {
	journal := newMemJournal()
	c, tr, up := newTestClient(t, WithJournal(journal))
	payer := sdktypes.NewAccount()
	tr.confirmErr = &transport.TransportError{Op: "confirmTransaction", Err: transport.ErrConfirmTimeout}

	res, err := c.CreateCollection(context.Background(), payer, sampleCollectionArgs(types.PubkeyFromCommon(payer.PublicKey)))
	assert.Nil(t, res)
	require.ErrorIs(t, err, transport.ErrConfirmTimeout)

	var werr *WorkflowError
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, StageSubmit, werr.Stage)
	assert.Equal(t, "sig-1", werr.Signature)
	assert.Contains(t, err.Error(), "signature sig-1")

	// 交易可能已落地：会话保留在 pending，记下签名，不做 finalize
	require.Len(t, up.uploads, 1)
	assert.Empty(t, up.finalized)
	s, err := journal.Get(context.Background(), up.uploads[0])
	require.NoError(t, err)
	assert.Equal(t, upload.SessionSubmitted, s.State)
	assert.Equal(t, "sig-1", s.Signature)
	pending, err := journal.Pending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{up.uploads[0]}, pending)
}

func TestCreateCollectionRejectedAfterSendAbandonsUpload(t *testing.T) {
	journal := newMemJournal()
	c, tr, up := newTestClient(t, WithJournal(journal))
	payer := sdktypes.NewAccount()
	tr.confirmErr = &transport.ProtocolError{Signature: "sig-1", Message: "custom program error: 0x1"}

	_, err := c.CreateCollection(context.Background(), payer, sampleCollectionArgs(types.PubkeyFromCommon(payer.PublicKey)))
	var werr *WorkflowError
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, "sig-1", werr.Signature)

	s, err := journal.Get(context.Background(), up.uploads[0])
	require.NoError(t, err)
	assert.Equal(t, upload.SessionAbandoned, s.State)
}

func TestCreateCollectionUsesConfiguredPrograms(t *testing.T) {
	cfg, err := NetworkConfig(consts.NetworkDevnet)
	require.NoError(t, err)
	cfg.Programs.TokenMetadata = types.PubkeyFromCommon(sdktypes.NewAccount().PublicKey)
	cfg.Programs.Token = types.PubkeyFromCommon(sdktypes.NewAccount().PublicKey)
	cfg.Programs.AssociatedToken = types.PubkeyFromCommon(sdktypes.NewAccount().PublicKey)
	tr := newFakeTransport()
	c, err := New(cfg, tr, newFakeUploader())
	require.NoError(t, err)

	payer := sdktypes.NewAccount()
	owner := types.PubkeyFromCommon(payer.PublicKey)
	res, err := c.CreateCollection(context.Background(), payer, sampleCollectionArgs(owner))
	require.NoError(t, err)

	metadata, err := c.Deriver().Metadata(res.Mint)
	require.NoError(t, err)
	assert.Equal(t, metadata.Key, res.Metadata)

	sub := tr.lastSubmission(t)
	require.Len(t, sub.instructions, 7)
	assert.Equal(t, cfg.Programs.Token.ToCommon(), sub.instructions[2].ProgramID)
	assert.Equal(t, cfg.Programs.AssociatedToken.ToCommon(), sub.instructions[3].ProgramID)
	assert.Equal(t, cfg.Programs.TokenMetadata.ToCommon(), sub.instructions[4].ProgramID)
	assert.Equal(t, metadata.Key.ToCommon(), sub.instructions[4].Accounts[0].PubKey)
	assert.Equal(t, cfg.Programs.Token.ToCommon(), sub.instructions[5].ProgramID)
	assert.Equal(t, cfg.Programs.TokenMetadata.ToCommon(), sub.instructions[6].ProgramID)
	assert.Equal(t, cfg.Programs.Token.ToCommon(), sub.instructions[6].Accounts[6].PubKey)
	for _, ix := range sub.instructions {
		assert.NotEqual(t, consts.TokenMetaProgram.ToCommon(), ix.ProgramID)
		assert.NotEqual(t, consts.TokenProgram.ToCommon(), ix.ProgramID)
	}
}
