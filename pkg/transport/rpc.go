package transport

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/rpc"
	sdktypes "github.com/blocto/solana-go-sdk/types"
	"golang.org/x/time/rate"

	"listings-sdk-sol/pkg/logger"
	"listings-sdk-sol/pkg/types"
)

const (
	defaultRequestsPerSecond = 10
	defaultBurst             = 5
	defaultConfirmTimeout    = 60 * time.Second
	defaultPollInterval      = 500 * time.Millisecond
	maxAccountsPerRequest    = 100
)

// RPCOption RPC 传输参数
type RPCOption struct {
	Endpoint          string
	RequestsPerSecond float64       // 每秒请求上限，<=0 使用默认值
	Burst             int           // 令牌桶容量
	ConfirmTimeout    time.Duration // 等待确认的最长时间
	PollInterval      time.Duration // 查询签名状态的间隔
}

// rpcClient blocto client 中用到的方法，测试时可替换
type rpcClient interface {
	GetAccountInfo(ctx context.Context, base58Addr string) (client.AccountInfo, error)
	GetMultipleAccounts(ctx context.Context, base58Addrs []string) ([]client.AccountInfo, error)
	GetMinimumBalanceForRentExemption(ctx context.Context, dataLen uint64) (uint64, error)
	GetLatestBlockhash(ctx context.Context) (rpc.GetLatestBlockhashValue, error)
	SendTransaction(ctx context.Context, tx sdktypes.Transaction) (string, error)
	GetSignatureStatus(ctx context.Context, signature string) (*rpc.SignatureStatus, error)
}

// RPCTransport 基于 JSON-RPC 的 Transport 实现，可并发使用
type RPCTransport struct {
	client         rpcClient
	limiter        *rate.Limiter
	rent           *RentCache
	confirmTimeout time.Duration
	pollInterval   time.Duration
}

func NewRPCTransport(opt RPCOption) (*RPCTransport, error) {
	if opt.Endpoint == "" {
		return nil, errors.New("rpc endpoint is empty")
	}
	c := client.NewClient(opt.Endpoint)
	if c == nil {
		return nil, errors.New("rpc client init failed")
	}
	return newRPCTransport(c, opt), nil
}

func newRPCTransport(c rpcClient, opt RPCOption) *RPCTransport {
	rps := opt.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}
	burst := opt.Burst
	if burst <= 0 {
		burst = defaultBurst
	}
	confirmTimeout := opt.ConfirmTimeout
	if confirmTimeout <= 0 {
		confirmTimeout = defaultConfirmTimeout
	}
	poll := opt.PollInterval
	if poll <= 0 {
		poll = defaultPollInterval
	}
	return &RPCTransport{
		client:         c,
		limiter:        rate.NewLimiter(rate.Limit(rps), burst),
		rent:           NewRentCache(),
		confirmTimeout: confirmTimeout,
		pollInterval:   poll,
	}
}

func (t *RPCTransport) wait(ctx context.Context, op string) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return &TransportError{Op: op, Err: err}
	}
	return nil
}

func toAccountInfo(addr types.Pubkey, info client.AccountInfo) *AccountInfo {
	// 不存在的账户返回零值
	if info.Owner == (common.PublicKey{}) && info.Lamports == 0 && len(info.Data) == 0 {
		return nil
	}
	return &AccountInfo{
		Address:    addr,
		Owner:      types.PubkeyFromCommon(info.Owner),
		Lamports:   info.Lamports,
		Executable: info.Executable,
		Data:       info.Data,
	}
}

func (t *RPCTransport) GetAccount(ctx context.Context, addr types.Pubkey) (*AccountInfo, error) {
	if err := t.wait(ctx, "getAccountInfo"); err != nil {
		return nil, err
	}
	info, err := t.client.GetAccountInfo(ctx, addr.String())
	if err != nil {
		return nil, &TransportError{Op: "getAccountInfo", Err: err}
	}
	return toAccountInfo(addr, info), nil
}

// GetMultipleAccounts 超过单次上限时分批请求，结果顺序与 addrs 一致
func (t *RPCTransport) GetMultipleAccounts(ctx context.Context, addrs []types.Pubkey) ([]*AccountInfo, error) {
	out := make([]*AccountInfo, 0, len(addrs))
	for start := 0; start < len(addrs); start += maxAccountsPerRequest {
		end := min(start+maxAccountsPerRequest, len(addrs))
		batch := addrs[start:end]

		keys := make([]string, len(batch))
		for i, a := range batch {
			keys[i] = a.String()
		}
		if err := t.wait(ctx, "getMultipleAccounts"); err != nil {
			return nil, err
		}
		infos, err := t.client.GetMultipleAccounts(ctx, keys)
		if err != nil {
			return nil, &TransportError{Op: "getMultipleAccounts", Err: err}
		}
		if len(infos) != len(batch) {
			return nil, &TransportError{Op: "getMultipleAccounts", Err: fmt.Errorf("返回账户数与请求不一致: got=%d want=%d", len(infos), len(batch))}
		}
		for i, info := range infos {
			out = append(out, toAccountInfo(batch[i], info))
		}
	}
	return out, nil
}

func (t *RPCTransport) GetMinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error) {
	if v, ok := t.rent.Get(size); ok {
		return v, nil
	}
	if err := t.wait(ctx, "getMinimumBalanceForRentExemption"); err != nil {
		return 0, err
	}
	v, err := t.client.GetMinimumBalanceForRentExemption(ctx, size)
	if err != nil {
		return 0, &TransportError{Op: "getMinimumBalanceForRentExemption", Err: err}
	}
	t.rent.Put(size, v)
	return v, nil
}

// Submit 签名、发送并等待确认；同一批指令原子执行
func (t *RPCTransport) Submit(ctx context.Context, feePayer types.Pubkey, instructions []sdktypes.Instruction, signers []sdktypes.Account) (sig string, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("[RPCTransport] submit panic: %v\n%s", r, debug.Stack())
			err = fmt.Errorf("submit panic: %v", r)
		}
	}()

	// 1. 最新区块哈希
	if err := t.wait(ctx, "getLatestBlockhash"); err != nil {
		return "", err
	}
	bh, err := t.client.GetLatestBlockhash(ctx)
	if err != nil {
		return "", &TransportError{Op: "getLatestBlockhash", Err: err}
	}

	// 2. 组装并签名
	tx, err := sdktypes.NewTransaction(sdktypes.NewTransactionParam{
		Message: sdktypes.NewMessage(sdktypes.NewMessageParam{
			FeePayer:        feePayer.ToCommon(),
			RecentBlockhash: bh.Blockhash,
			Instructions:    instructions,
		}),
		Signers: signers,
	})
	if err != nil {
		return "", fmt.Errorf("build transaction: %w", err)
	}

	// 3. 发送（含预执行）
	if err := t.wait(ctx, "sendTransaction"); err != nil {
		return "", err
	}
	sig, err = t.client.SendTransaction(ctx, tx)
	if err != nil {
		return "", classifySendError(err)
	}
	logger.Infof("[RPCTransport] 交易已发送: sig=%s, 指令数=%d", sig, len(instructions))

	// 4. 等待确认
	if err := t.confirm(ctx, sig); err != nil {
		return sig, err
	}
	return sig, nil
}

func (t *RPCTransport) confirm(ctx context.Context, sig string) error {
	ctx, cancel := context.WithTimeout(ctx, t.confirmTimeout)
	defer cancel()

	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	for {
		if err := t.wait(ctx, "getSignatureStatus"); err != nil {
			return confirmCtxErr(ctx, sig, err)
		}
		status, err := t.client.GetSignatureStatus(ctx, sig)
		if err != nil {
			if ctx.Err() != nil {
				return confirmCtxErr(ctx, sig, err)
			}
			logger.Warnf("[RPCTransport] 查询签名状态失败: sig=%s, err=%v", sig, err)
		} else if status != nil {
			if status.Err != nil {
				return &ProtocolError{Signature: sig, Message: fmt.Sprintf("%v", status.Err)}
			}
			if status.ConfirmationStatus != nil &&
				(*status.ConfirmationStatus == rpc.CommitmentConfirmed || *status.ConfirmationStatus == rpc.CommitmentFinalized) {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return confirmCtxErr(ctx, sig, ctx.Err())
		case <-ticker.C:
		}
	}
}

func confirmCtxErr(ctx context.Context, sig string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TransportError{Op: "confirmTransaction", Err: fmt.Errorf("%w: %s", ErrConfirmTimeout, sig)}
	}
	return &TransportError{Op: "confirmTransaction", Err: err}
}

// classifySendError 预执行失败归为 ProtocolError，其余为 TransportError
func classifySendError(err error) error {
	var rpcErr *rpc.JsonRpcError
	if !errors.As(err, &rpcErr) {
		return &TransportError{Op: "sendTransaction", Err: err}
	}
	logs := extractLogs(rpcErr.Data)
	if logs == nil && !isSimulationFailure(rpcErr.Code) {
		return &TransportError{Op: "sendTransaction", Err: err}
	}
	return &ProtocolError{Message: rpcErr.Message, Logs: logs}
}

// -32002: Transaction simulation failed
func isSimulationFailure(code int) bool {
	return code == -32002
}

func extractLogs(data any) []string {
	m, ok := data.(map[string]any)
	if !ok {
		return nil
	}
	raw, ok := m["logs"].([]any)
	if !ok {
		return nil
	}
	logs := make([]string, 0, len(raw))
	for _, l := range raw {
		if s, ok := l.(string); ok {
			logs = append(logs, s)
		}
	}
	return logs
}
