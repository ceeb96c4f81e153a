package transport

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/rpc"
	sdktypes "github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listings-sdk-sol/pkg/types"
)

var (
	ownerProgram = types.PubkeyFromBase58("6anbDQNCcVh2f6okexjaX1VGj6tEnizJ1kV5UTBS8Zhi")
	knownAccount = types.PubkeyFromBase58("DN3as3qw33GH3K7smebYgcZ2LQm6DNb2Gcogo4b7m5YU")
	blockhash    = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
)

type fakeRPC struct {
	mu            sync.Mutex
	accounts      map[string]client.AccountInfo
	multipleCalls int
	rentCalls     int
	sendErr       error
	statuses      []*rpc.SignatureStatus // 依次返回，最后一个重复
	statusCalls   int
	sent          []sdktypes.Transaction
}

func (f *fakeRPC) GetAccountInfo(_ context.Context, addr string) (client.AccountInfo, error) {
	return f.accounts[addr], nil
}

func (f *fakeRPC) GetMultipleAccounts(_ context.Context, addrs []string) ([]client.AccountInfo, error) {
	f.mu.Lock()
	f.multipleCalls++
	f.mu.Unlock()
	out := make([]client.AccountInfo, len(addrs))
	for i, a := range addrs {
		out[i] = f.accounts[a]
	}
	return out, nil
}

func (f *fakeRPC) GetMinimumBalanceForRentExemption(_ context.Context, size uint64) (uint64, error) {
	f.rentCalls++
	return size * 10, nil
}

func (f *fakeRPC) GetLatestBlockhash(_ context.Context) (rpc.GetLatestBlockhashValue, error) {
	return rpc.GetLatestBlockhashValue{Blockhash: blockhash, LatestValidBlockHeight: 100}, nil
}

func (f *fakeRPC) SendTransaction(_ context.Context, tx sdktypes.Transaction) (string, error) {
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.sent = append(f.sent, tx)
	return "sig-1", nil
}

func (f *fakeRPC) GetSignatureStatus(_ context.Context, _ string) (*rpc.SignatureStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := min(f.statusCalls, len(f.statuses)-1)
	f.statusCalls++
	return f.statuses[i], nil
}

func newTestTransport(f *fakeRPC, confirmTimeout time.Duration) *RPCTransport {
	return newRPCTransport(f, RPCOption{
		RequestsPerSecond: 10000,
		Burst:             1000,
		ConfirmTimeout:    confirmTimeout,
		PollInterval:      time.Millisecond,
	})
}

func commitment(c rpc.Commitment) *rpc.Commitment {
	return &c
}

func testInstruction(payer common.PublicKey) sdktypes.Instruction {
	return sdktypes.Instruction{
		ProgramID: ownerProgram.ToCommon(),
		Accounts:  []sdktypes.AccountMeta{{PubKey: payer, IsSigner: true, IsWritable: true}},
		Data:      []byte{1, 2, 3},
	}
}

func TestGetAccount(t *testing.T) {
	f := &fakeRPC{accounts: map[string]client.AccountInfo{
		knownAccount.String(): {Lamports: 10, Owner: ownerProgram.ToCommon(), Data: []byte{9}},
	}}
	tr := newTestTransport(f, time.Second)

	info, err := tr.GetAccount(context.Background(), knownAccount)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, ownerProgram, info.Owner)
	assert.Equal(t, knownAccount, info.Address)

	missing, err := tr.GetAccount(context.Background(), ownerProgram)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGetMultipleAccountsBatches(t *testing.T) {
	f := &fakeRPC{accounts: map[string]client.AccountInfo{
		knownAccount.String(): {Lamports: 1, Owner: ownerProgram.ToCommon()},
	}}
	tr := newTestTransport(f, time.Second)

	addrs := make([]types.Pubkey, 150)
	addrs[120] = knownAccount
	infos, err := tr.GetMultipleAccounts(context.Background(), addrs)
	require.NoError(t, err)
	require.Len(t, infos, 150)
	assert.Equal(t, 2, f.multipleCalls)
	assert.Nil(t, infos[0])
	require.NotNil(t, infos[120])
	assert.Equal(t, knownAccount, infos[120].Address)
}

func TestRentIsCached(t *testing.T) {
	f := &fakeRPC{}
	tr := newTestTransport(f, time.Second)

	for i := 0; i < 3; i++ {
		v, err := tr.GetMinimumBalanceForRentExemption(context.Background(), 82)
		require.NoError(t, err)
		assert.Equal(t, uint64(820), v)
	}
	assert.Equal(t, 1, f.rentCalls)
	hits, misses := tr.rent.Stats()
	assert.Equal(t, uint64(2), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestSubmitWaitsForConfirmation(t *testing.T) {
	payer := sdktypes.NewAccount()
	f := &fakeRPC{statuses: []*rpc.SignatureStatus{
		nil,
		{Slot: 1, ConfirmationStatus: commitment(rpc.CommitmentProcessed)},
		{Slot: 1, ConfirmationStatus: commitment(rpc.CommitmentConfirmed)},
	}}
	tr := newTestTransport(f, time.Second)

	sig, err := tr.Submit(context.Background(), types.PubkeyFromCommon(payer.PublicKey),
		[]sdktypes.Instruction{testInstruction(payer.PublicKey)}, []sdktypes.Account{payer})
	require.NoError(t, err)
	assert.Equal(t, "sig-1", sig)
	assert.Equal(t, 3, f.statusCalls)
	require.Len(t, f.sent, 1)
	assert.Len(t, f.sent[0].Signatures, 1)
}

func TestSubmitExecutionFailure(t *testing.T) {
	payer := sdktypes.NewAccount()
	f := &fakeRPC{statuses: []*rpc.SignatureStatus{
		{Slot: 1, Err: map[string]any{"InstructionError": []any{0, "Custom"}}},
	}}
	tr := newTestTransport(f, time.Second)

	sig, err := tr.Submit(context.Background(), types.PubkeyFromCommon(payer.PublicKey),
		[]sdktypes.Instruction{testInstruction(payer.PublicKey)}, []sdktypes.Account{payer})
	assert.Equal(t, "sig-1", sig)
	var perr *ProtocolError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "sig-1", perr.Signature)
	assert.Contains(t, perr.Error(), "InstructionError")
}

func TestSubmitSimulationFailureKeepsLogs(t *testing.T) {
	payer := sdktypes.NewAccount()
	f := &fakeRPC{sendErr: &rpc.JsonRpcError{
		Code:    -32002,
		Message: "Transaction simulation failed: Error processing Instruction 0: custom program error: 0x0",
		Data: map[string]any{
			"logs": []any{
				"Program 11111111111111111111111111111111 invoke [2]",
				"Allocate: account Address { address: AzvL..., base: None } already in use",
			},
		},
	}}
	tr := newTestTransport(f, time.Second)

	_, err := tr.Submit(context.Background(), types.PubkeyFromCommon(payer.PublicKey),
		[]sdktypes.Instruction{testInstruction(payer.PublicKey)}, []sdktypes.Account{payer})
	var perr *ProtocolError
	require.True(t, errors.As(err, &perr))
	assert.Len(t, perr.Logs, 2)
	assert.ErrorIs(t, err, ErrAccountAlreadyExists)
}

func TestSubmitNetworkFailure(t *testing.T) {
	payer := sdktypes.NewAccount()
	f := &fakeRPC{sendErr: errors.New("connection refused")}
	tr := newTestTransport(f, time.Second)

	_, err := tr.Submit(context.Background(), types.PubkeyFromCommon(payer.PublicKey),
		[]sdktypes.Instruction{testInstruction(payer.PublicKey)}, []sdktypes.Account{payer})
	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, "sendTransaction", terr.Op)
	assert.NotErrorIs(t, err, ErrAccountAlreadyExists)
}

func TestSubmitConfirmTimeout(t *testing.T) {
	payer := sdktypes.NewAccount()
	f := &fakeRPC{statuses: []*rpc.SignatureStatus{
		{Slot: 1, ConfirmationStatus: commitment(rpc.CommitmentProcessed)},
	}}
	tr := newTestTransport(f, 30*time.Millisecond)

	sig, err := tr.Submit(context.Background(), types.PubkeyFromCommon(payer.PublicKey),
		[]sdktypes.Instruction{testInstruction(payer.PublicKey)}, []sdktypes.Account{payer})
	assert.Equal(t, "sig-1", sig)
	assert.ErrorIs(t, err, ErrConfirmTimeout)
}

func TestProtocolErrorWithoutCollision(t *testing.T) {
	err := &ProtocolError{Message: "insufficient funds"}
	assert.NotErrorIs(t, err, ErrAccountAlreadyExists)
	assert.Equal(t, "transaction rejected: insufficient funds", err.Error())
}
