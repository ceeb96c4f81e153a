package upload

import (
	"context"
	"errors"

	sdktypes "github.com/blocto/solana-go-sdk/types"
	"github.com/hashicorp/go-multierror"

	"listings-sdk-sol/pkg/types"
)

var ErrEmptySession = errors.New("upload session id is empty")

// File 待上传文件；URL 非空时直接引用外部地址，不上传 Data
type File struct {
	Name        string `json:"name,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	URL         string `json:"url,omitempty"`
	Data        []byte `json:"data,omitempty"`
}

func (f File) IsEmpty() bool {
	return f.URL == "" && len(f.Data) == 0
}

type Trait struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

type CreatorShare struct {
	Address string `json:"address"`
	Share   uint8  `json:"share"`
}

// Asset 一次上传会话的内容：主文件、可选封面，以及写入链下元数据 JSON 的描述字段
type Asset struct {
	Name                 string         `json:"name"`
	Symbol               string         `json:"symbol"`
	Description          string         `json:"description,omitempty"`
	SellerFeeBasisPoints uint16         `json:"sellerFeeBasisPoints"`
	File                 File           `json:"file"`
	Cover                *File          `json:"cover,omitempty"`
	Creators             []CreatorShare `json:"creators,omitempty"`
	Traits               []Trait        `json:"traits"`
}

func (a *Asset) Validate() error {
	if a == nil {
		return errors.New("asset is nil")
	}
	if a.Name == "" {
		return errors.New("asset name is empty")
	}
	if a.File.IsEmpty() {
		return errors.New("asset main file is empty")
	}
	return nil
}

// Result 上传结果；Instruction 为空表示本次上传无需链上授权
type Result struct {
	Instruction *sdktypes.Instruction
	Signer      sdktypes.Account
	ContentURL  string
}

// FinalizeResult 提交确认后的落盘结果，按文件区分成功和失败
type FinalizeResult struct {
	Succeeded []string
	Errors    []string
}

// Err 把失败项合并成一个 error，全部成功时为 nil
func (r *FinalizeResult) Err() error {
	if r == nil {
		return nil
	}
	var merr *multierror.Error
	for _, e := range r.Errors {
		merr = multierror.Append(merr, errors.New(e))
	}
	return merr.ErrorOrNil()
}

// Uploader 两阶段上传：Upload 预留内容地址，交易确认后才 Finalize
type Uploader interface {
	Upload(ctx context.Context, sessionID string, payer types.Pubkey, asset *Asset) (*Result, error)
	Finalize(ctx context.Context, sessionID string, signature string) (*FinalizeResult, error)
}
