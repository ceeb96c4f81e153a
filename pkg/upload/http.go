package upload

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/blocto/solana-go-sdk/common"
	sdktypes "github.com/blocto/solana-go-sdk/types"
	"github.com/zeromicro/go-zero/rest/httpc"

	"listings-sdk-sol/pkg/logger"
	"listings-sdk-sol/pkg/types"
)

const (
	uploadPath   = "/upload"
	finalizePath = "/finalize"

	defaultHTTPTimeout = 30 * time.Second
)

type HTTPOption struct {
	Endpoint string
	Timeout  time.Duration
}

// HTTPUploader 通过上传服务的 JSON 接口完成两阶段上传
type HTTPUploader struct {
	endpoint string
	timeout  time.Duration
	svc      httpc.Service
}

func NewHTTPUploader(opt HTTPOption) (*HTTPUploader, error) {
	if opt.Endpoint == "" {
		return nil, errors.New("upload endpoint is empty")
	}
	timeout := opt.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &HTTPUploader{
		endpoint: strings.TrimRight(opt.Endpoint, "/"),
		timeout:  timeout,
		svc:      httpc.NewService("listings-upload"),
	}, nil
}

type uploadRequest struct {
	SessionID string `json:"sessionId"`
	Payer     string `json:"payer"`
	Asset     Asset  `json:"asset"`
}

type accountMetaJSON struct {
	Pubkey     string `json:"pubkey,optional"`
	IsSigner   bool   `json:"isSigner,optional"`
	IsWritable bool   `json:"isWritable,optional"`
}

type instructionJSON struct {
	ProgramID string            `json:"programId,optional"`
	Accounts  []accountMetaJSON `json:"accounts,optional"`
	Data      string            `json:"data,optional"` // base64
}

type uploadResponse struct {
	Instruction     *instructionJSON `json:"instruction,optional"`
	SignerSecretKey string           `json:"signerSecretKey,optional"` // base58 64 字节
	ContentURL      string           `json:"contentUrl,optional"`
}

type finalizeRequest struct {
	SessionID string `json:"sessionId"`
	Signature string `json:"signature"`
}

type finalizeResponse struct {
	Succeeded []string `json:"succeeded,optional"`
	Errors    []string `json:"errors,optional"`
}

func (u *HTTPUploader) Upload(ctx context.Context, sessionID string, payer types.Pubkey, asset *Asset) (*Result, error) {
	if sessionID == "" {
		return nil, ErrEmptySession
	}
	if err := asset.Validate(); err != nil {
		return nil, err
	}

	var resp uploadResponse
	req := uploadRequest{SessionID: sessionID, Payer: payer.String(), Asset: *asset}
	if err := u.post(ctx, uploadPath, req, &resp); err != nil {
		return nil, fmt.Errorf("upload session %s: %w", sessionID, err)
	}
	if resp.ContentURL == "" {
		return nil, fmt.Errorf("upload session %s: empty content url", sessionID)
	}

	result := &Result{ContentURL: resp.ContentURL}
	// 没有授权指令时不需要签名者
	if resp.Instruction != nil {
		signer, err := sdktypes.AccountFromBase58(resp.SignerSecretKey)
		if err != nil {
			return nil, fmt.Errorf("upload session %s: invalid signer key: %w", sessionID, err)
		}
		ix, err := resp.Instruction.toInstruction()
		if err != nil {
			return nil, fmt.Errorf("upload session %s: %w", sessionID, err)
		}
		result.Signer = signer
		result.Instruction = &ix
	}

	logger.Infof("[Uploader] 上传完成: session=%s, url=%s", sessionID, resp.ContentURL)
	return result, nil
}

func (u *HTTPUploader) Finalize(ctx context.Context, sessionID string, signature string) (*FinalizeResult, error) {
	if sessionID == "" {
		return nil, ErrEmptySession
	}
	var resp finalizeResponse
	req := finalizeRequest{SessionID: sessionID, Signature: signature}
	if err := u.post(ctx, finalizePath, req, &resp); err != nil {
		return nil, fmt.Errorf("finalize session %s: %w", sessionID, err)
	}
	return &FinalizeResult{Succeeded: resp.Succeeded, Errors: resp.Errors}, nil
}

func (u *HTTPUploader) post(ctx context.Context, path string, req, out any) error {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	resp, err := u.svc.Do(ctx, http.MethodPost, u.endpoint+path, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("http status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return httpc.Parse(resp, out)
}

func (ix *instructionJSON) toInstruction() (sdktypes.Instruction, error) {
	programID, err := parseKey(ix.ProgramID)
	if err != nil {
		return sdktypes.Instruction{}, fmt.Errorf("instruction program id: %w", err)
	}
	data, err := base64.StdEncoding.DecodeString(ix.Data)
	if err != nil {
		return sdktypes.Instruction{}, fmt.Errorf("instruction data: %w", err)
	}
	metas := make([]sdktypes.AccountMeta, 0, len(ix.Accounts))
	for i, a := range ix.Accounts {
		key, err := parseKey(a.Pubkey)
		if err != nil {
			return sdktypes.Instruction{}, fmt.Errorf("instruction account %d: %w", i, err)
		}
		metas = append(metas, sdktypes.AccountMeta{PubKey: key, IsSigner: a.IsSigner, IsWritable: a.IsWritable})
	}
	return sdktypes.Instruction{ProgramID: programID, Accounts: metas, Data: data}, nil
}

func parseKey(s string) (common.PublicKey, error) {
	k, err := types.TryPubkeyFromBase58(s)
	if err != nil {
		return common.PublicKey{}, err
	}
	return k.ToCommon(), nil
}
