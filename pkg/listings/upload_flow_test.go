package listings

import (
	"context"
	"testing"

	sdktypes "github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listings-sdk-sol/pkg/transport"
	"listings-sdk-sol/pkg/types"
	"listings-sdk-sol/pkg/upload"
)

func TestFinalizePendingRetriesConfirmedSessions(t *testing.T) {
	journal := newMemJournal()
	c, tr, up := newTestClient(t, WithJournal(journal))
	payer := sdktypes.NewAccount()
	owner := types.PubkeyFromCommon(payer.PublicKey)

	// 第一笔：交易确认但 finalize 失败，停在 confirmed
	up.finalizeErr = assert.AnError
	first, err := c.CreateCollection(context.Background(), payer, sampleCollectionArgs(owner))
	require.NoError(t, err)
	require.Error(t, first.Upload.Err)
	up.finalizeErr = nil

	// 第二笔：确认超时，停在 submitted
	tr.confirmErr = &transport.TransportError{Op: "confirmTransaction", Err: transport.ErrConfirmTimeout}
	_, err = c.CreateCollection(context.Background(), payer, sampleCollectionArgs(owner))
	require.Error(t, err)
	tr.confirmErr = nil

	outs, err := c.FinalizePending(context.Background())
	require.NoError(t, err)
	require.Len(t, outs, 1)
	assert.Equal(t, first.Upload.SessionID, outs[0].SessionID)
	assert.True(t, outs[0].Finalized)
	assert.Equal(t, testContentURL, outs[0].ContentURL)
	assert.Equal(t, first.Signature, up.finalized[first.Upload.SessionID])

	s, err := journal.Get(context.Background(), first.Upload.SessionID)
	require.NoError(t, err)
	assert.Equal(t, upload.SessionFinalized, s.State)

	pending, err := journal.Pending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	s, err = journal.Get(context.Background(), pending[0])
	require.NoError(t, err)
	assert.Equal(t, upload.SessionSubmitted, s.State)
}

func TestFinalizePendingRequiresJournal(t *testing.T) {
	c, _, _ := newTestClient(t)
	_, err := c.FinalizePending(context.Background())
	assert.ErrorIs(t, err, errNoJournal)
}
