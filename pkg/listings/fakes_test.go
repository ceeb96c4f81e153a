package listings

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	sdktypes "github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/require"

	"listings-sdk-sol/internal/consts"
	"listings-sdk-sol/pkg/transport"
	"listings-sdk-sol/pkg/types"
	"listings-sdk-sol/pkg/upload"
)

const (
	testMintRent     = 1461600
	testContentURL   = "https://arweave.net/abc123/meta.json"
	approveOpcode    = 23
	memoProgramBase  = "MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr"
	testStoreID      = 42
	testItemIdentity = 7
)

type submission struct {
	feePayer     types.Pubkey
	instructions []sdktypes.Instruction
	signers      []sdktypes.Account
}

// fakeTransport 内存账户表；提交合集授权指令后写入授权记录，模拟链上效果
type fakeTransport struct {
	mu          sync.Mutex
	accounts    map[types.Pubkey]*transport.AccountInfo
	submissions []submission
	submitErr   error
	confirmErr  error // 交易已记录，但确认阶段返回该错误和签名
	getErr      error
	reads       int
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{accounts: make(map[types.Pubkey]*transport.AccountInfo)}
}

func (f *fakeTransport) put(addr, owner types.Pubkey, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[addr] = &transport.AccountInfo{Address: addr, Owner: owner, Lamports: 1, Data: data}
}

func (f *fakeTransport) GetAccount(_ context.Context, addr types.Pubkey) (*transport.AccountInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if f.getErr != nil {
		return nil, f.getErr
	}
	info, ok := f.accounts[addr]
	if !ok {
		return nil, nil
	}
	cp := *info
	return &cp, nil
}

func (f *fakeTransport) GetMultipleAccounts(ctx context.Context, addrs []types.Pubkey) ([]*transport.AccountInfo, error) {
	out := make([]*transport.AccountInfo, len(addrs))
	for i, a := range addrs {
		info, err := f.GetAccount(ctx, a)
		if err != nil {
			return nil, err
		}
		out[i] = info
	}
	return out, nil
}

func (f *fakeTransport) GetMinimumBalanceForRentExemption(_ context.Context, _ uint64) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	return testMintRent, nil
}

func (f *fakeTransport) Submit(_ context.Context, feePayer types.Pubkey, ixs []sdktypes.Instruction, signers []sdktypes.Account) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return "", f.submitErr
	}
	f.submissions = append(f.submissions, submission{feePayer: feePayer, instructions: ixs, signers: signers})
	sig := fmt.Sprintf("sig-%d", len(f.submissions))
	if f.confirmErr != nil {
		return sig, f.confirmErr
	}
	for _, ix := range ixs {
		if len(ix.Data) == 1 && ix.Data[0] == approveOpcode {
			record := types.PubkeyFromCommon(ix.Accounts[0].PubKey)
			f.accounts[record] = &transport.AccountInfo{Address: record, Owner: types.PubkeyFromCommon(ix.ProgramID), Lamports: 1}
		}
	}
	return sig, nil
}

func (f *fakeTransport) lastSubmission(t *testing.T) submission {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.submissions)
	return f.submissions[len(f.submissions)-1]
}

type fakeUploader struct {
	mu           sync.Mutex
	signer       sdktypes.Account
	noInstr      bool
	uploadErr    error
	finalizeErr  error
	finalizeNil  bool
	finalizeFail []string
	uploads      []string
	finalized    map[string]string
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{signer: sdktypes.NewAccount(), finalized: make(map[string]string)}
}

func (u *fakeUploader) Upload(_ context.Context, sessionID string, _ types.Pubkey, asset *upload.Asset) (*upload.Result, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.uploadErr != nil {
		return nil, u.uploadErr
	}
	if err := asset.Validate(); err != nil {
		return nil, err
	}
	u.uploads = append(u.uploads, sessionID)
	res := &upload.Result{Signer: u.signer, ContentURL: testContentURL}
	if !u.noInstr {
		ix := sdktypes.Instruction{
			ProgramID: types.PubkeyFromBase58(memoProgramBase).ToCommon(),
			Accounts:  []sdktypes.AccountMeta{{PubKey: u.signer.PublicKey, IsSigner: true, IsWritable: true}},
			Data:      []byte("fund"),
		}
		res.Instruction = &ix
	}
	return res, nil
}

func (u *fakeUploader) Finalize(_ context.Context, sessionID, signature string) (*upload.FinalizeResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.finalizeErr != nil {
		return nil, u.finalizeErr
	}
	u.finalized[sessionID] = signature
	if u.finalizeNil {
		return nil, nil
	}
	return &upload.FinalizeResult{Succeeded: []string{"file"}, Errors: u.finalizeFail}, nil
}

type fixedIDs struct{}

func (fixedIDs) StoreID() uint16        { return testStoreID }
func (fixedIDs) ItemIdentifier() uint64 { return testItemIdentity }

// memJournal 内存版会话记录
type memJournal struct {
	mu       sync.Mutex
	next     int
	sessions map[string]*upload.Session
}

func newMemJournal() *memJournal {
	return &memJournal{sessions: make(map[string]*upload.Session)}
}

func (j *memJournal) Reserve(_ context.Context, workflow, payer string) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.next++
	id := fmt.Sprintf("session-%d", j.next)
	j.sessions[id] = &upload.Session{ID: id, Workflow: workflow, Payer: payer, State: upload.SessionReserved}
	return id, nil
}

func (j *memJournal) set(id string, fn func(s *upload.Session)) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	s, ok := j.sessions[id]
	if !ok {
		return upload.ErrSessionNotFound
	}
	fn(s)
	return nil
}

func (j *memJournal) MarkUploaded(_ context.Context, id, contentURL string) error {
	return j.set(id, func(s *upload.Session) { s.State, s.ContentURL = upload.SessionUploaded, contentURL })
}

func (j *memJournal) MarkSubmitted(_ context.Context, id, signature string) error {
	return j.set(id, func(s *upload.Session) { s.State, s.Signature = upload.SessionSubmitted, signature })
}

func (j *memJournal) MarkConfirmed(_ context.Context, id, signature string) error {
	return j.set(id, func(s *upload.Session) { s.State, s.Signature = upload.SessionConfirmed, signature })
}

func (j *memJournal) MarkFinalized(_ context.Context, id string) error {
	return j.set(id, func(s *upload.Session) { s.State = upload.SessionFinalized })
}

func (j *memJournal) MarkAbandoned(_ context.Context, id, reason string) error {
	return j.set(id, func(s *upload.Session) { s.State, s.Reason = upload.SessionAbandoned, reason })
}

func (j *memJournal) Get(_ context.Context, id string) (*upload.Session, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	s, ok := j.sessions[id]
	if !ok {
		return nil, upload.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (j *memJournal) Pending(_ context.Context) ([]string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	var ids []string
	for id, s := range j.sessions {
		if s.State != upload.SessionFinalized && s.State != upload.SessionAbandoned {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func newTestClient(t *testing.T, opts ...Option) (*Client, *fakeTransport, *fakeUploader) {
	t.Helper()
	cfg, err := NetworkConfig(consts.NetworkDevnet)
	require.NoError(t, err)
	tr := newFakeTransport()
	up := newFakeUploader()
	c, err := New(cfg, tr, up, append([]Option{WithIDSource(fixedIDs{})}, opts...)...)
	require.NoError(t, err)
	return c, tr, up
}

func requireValidation(t *testing.T, err error, msg string) {
	t.Helper()
	require.Error(t, err)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %T: %v", err, err)
	// 校验错误不被包装
	_, isValidation := err.(*ValidationError)
	require.True(t, isValidation)
	if msg != "" {
		require.Contains(t, verr.Msg, msg)
	}
}

func sampleAsset() *upload.Asset {
	return &upload.Asset{
		Name:   "Sample",
		Symbol: "SMP",
		File:   upload.File{Name: "og.png", ContentType: "image/png", Data: []byte{1, 2, 3}},
		Traits: []upload.Trait{},
	}
}
