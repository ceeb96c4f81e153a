package listings

import (
	"context"
	"errors"
	"fmt"
	"sort"

	sdktypes "github.com/blocto/solana-go-sdk/types"

	"listings-sdk-sol/pkg/logger"
	"listings-sdk-sol/pkg/transport"
	"listings-sdk-sol/pkg/types"
	"listings-sdk-sol/pkg/upload"
)

var (
	errNoUploader = errors.New("uploader is not configured")
	errNoJournal  = errors.New("upload journal is not configured")
)

// UploadOutcome 上传会话的最终状态；finalize 失败不会让已确认的交易变成错误
type UploadOutcome struct {
	SessionID  string
	ContentURL string
	Finalized  bool
	Succeeded  []string
	Err        error
}

type uploadSession struct {
	id     string
	result *upload.Result
}

// 上传返回的签名者只在有授权指令时参与签名
func (s *uploadSession) instructions() []sdktypes.Instruction {
	if s.result.Instruction == nil {
		return nil
	}
	return []sdktypes.Instruction{*s.result.Instruction}
}

func (s *uploadSession) signers() []sdktypes.Account {
	if s.result.Instruction == nil {
		return nil
	}
	return []sdktypes.Account{s.result.Signer}
}

// beginUpload 第一阶段：预留会话 ID 并上传，此时内容尚未生效
func (c *Client) beginUpload(ctx context.Context, op, workflow string, payer types.Pubkey, asset *upload.Asset) (*uploadSession, error) {
	if c.uploader == nil {
		return nil, wrap(op, StageUpload, errNoUploader)
	}

	// 1. 预留会话
	var id string
	if c.journal != nil {
		var err error
		id, err = c.journal.Reserve(ctx, workflow, payer.String())
		if err != nil {
			return nil, wrap(op, StageReserve, err)
		}
	} else {
		id = upload.NewSessionID()
	}

	// 2. 上传
	res, err := c.uploader.Upload(ctx, id, payer, asset)
	if err != nil {
		c.abandon(ctx, id, err.Error())
		return nil, wrap(op, StageUpload, err)
	}

	if c.journal != nil {
		if err := c.journal.MarkUploaded(ctx, id, res.ContentURL); err != nil {
			logger.Warnf("[Listings] 记录上传状态失败: session=%s, err=%v", id, err)
		}
	}
	return &uploadSession{id: id, result: res}, nil
}

// abandon 交易未上链，上传成为孤儿
func (c *Client) abandon(ctx context.Context, id, reason string) {
	if c.journal == nil {
		return
	}
	if err := c.journal.MarkAbandoned(ctx, id, reason); err != nil {
		logger.Warnf("[Listings] 记录会话放弃失败: session=%s, err=%v", id, err)
	}
}

// submitFailed 确认超时的交易可能已经落地：记录签名并保留会话等待重新探测；
// 其余失败说明交易未生效，上传作废
func (c *Client) submitFailed(ctx context.Context, op string, s *uploadSession, sig string, err error) error {
	if sig != "" && errors.Is(err, transport.ErrConfirmTimeout) {
		logger.Warnf("[Listings] 交易确认超时，保留上传会话: session=%s, sig=%s", s.id, sig)
		if c.journal != nil {
			if jerr := c.journal.MarkSubmitted(ctx, s.id, sig); jerr != nil {
				logger.Warnf("[Listings] 记录提交状态失败: session=%s, err=%v", s.id, jerr)
			}
		}
		return wrapSubmit(op, sig, err)
	}
	c.abandon(ctx, s.id, err.Error())
	return wrapSubmit(op, sig, err)
}

// finishUpload 第二阶段：交易确认后才 finalize
func (c *Client) finishUpload(ctx context.Context, s *uploadSession, signature string) UploadOutcome {
	out := UploadOutcome{SessionID: s.id, ContentURL: s.result.ContentURL}

	if c.journal != nil {
		if err := c.journal.MarkConfirmed(ctx, s.id, signature); err != nil {
			logger.Warnf("[Listings] 记录确认状态失败: session=%s, err=%v", s.id, err)
		}
	}

	res, err := c.uploader.Finalize(ctx, s.id, signature)
	if err == nil && res != nil {
		err = res.Err()
		out.Succeeded = res.Succeeded
	}
	if err != nil {
		// 会话保留在 pending 中，可稍后重试
		out.Err = fmt.Errorf("%s: %w", StageFinalize, err)
		logger.Errorf("[Listings] finalize 失败: session=%s, sig=%s, err=%v", s.id, signature, err)
		return out
	}

	out.Finalized = true
	if c.journal != nil {
		if err := c.journal.MarkFinalized(ctx, s.id); err != nil {
			logger.Warnf("[Listings] 记录 finalize 状态失败: session=%s, err=%v", s.id, err)
		}
	}
	return out
}

// FinalizePending 为交易已确认但 finalize 失败的会话补做 finalize。
// submitted 状态的会话交易是否落地未知，需调用方先确认签名，这里跳过。
func (c *Client) FinalizePending(ctx context.Context) ([]UploadOutcome, error) {
	if c.uploader == nil {
		return nil, errNoUploader
	}
	if c.journal == nil {
		return nil, errNoJournal
	}
	ids, err := c.journal.Pending(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)

	var outs []UploadOutcome
	for _, id := range ids {
		s, err := c.journal.Get(ctx, id)
		if errors.Is(err, upload.ErrSessionNotFound) {
			continue
		}
		if err != nil {
			return outs, err
		}
		if s.State != upload.SessionConfirmed || s.Signature == "" {
			continue
		}
		session := &uploadSession{id: s.ID, result: &upload.Result{ContentURL: s.ContentURL}}
		outs = append(outs, c.finishUpload(ctx, session, s.Signature))
	}
	return outs, nil
}
