package listings

import (
	"context"
	"fmt"

	sdktypes "github.com/blocto/solana-go-sdk/types"

	"listings-sdk-sol/pkg/logger"
	"listings-sdk-sol/pkg/pda"
	"listings-sdk-sol/pkg/receipt"
	"listings-sdk-sol/pkg/transport"
	"listings-sdk-sol/pkg/types"
	"listings-sdk-sol/pkg/upload"
)

// Client 编排商店、合集、商品和购买四个工作流。
// 不持有调用间的可变状态，可并发使用。
type Client struct {
	cfg       Config
	deriver   *pda.Deriver
	transport transport.Transport
	uploader  upload.Uploader
	journal   upload.Journal
	publisher receipt.Publisher
	ids       IDSource
}

type Option func(*Client)

// WithJournal 记录上传会话，便于补做 finalize
func WithJournal(j upload.Journal) Option {
	return func(c *Client) { c.journal = j }
}

// WithPublisher 工作流确认后发布回执
func WithPublisher(p receipt.Publisher) Option {
	return func(c *Client) { c.publisher = p }
}

func WithIDSource(s IDSource) Option {
	return func(c *Client) { c.ids = s }
}

// New uploader 可以为 nil，此时只能调用不涉及上传的工作流
func New(cfg Config, tr transport.Transport, up upload.Uploader, opts ...Option) (*Client, error) {
	if tr == nil {
		return nil, fmt.Errorf("transport is nil")
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid listings config: %w", err)
	}
	c := &Client{
		cfg:       cfg,
		deriver:   pda.NewDeriver(cfg.Programs),
		transport: tr,
		uploader:  up,
		publisher: receipt.NopPublisher{},
		ids:       randomIDs{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Config() Config {
	return c.cfg
}

func (c *Client) Deriver() *pda.Deriver {
	return c.deriver
}

// submit 同一批指令一次提交
func (c *Client) submit(ctx context.Context, payer types.Pubkey, ixs []sdktypes.Instruction, signers []sdktypes.Account) (string, error) {
	return c.transport.Submit(ctx, payer, ixs, signers)
}

// publish 回执发送失败只记录日志，不影响已确认的交易
func (c *Client) publish(ctx context.Context, r *receipt.Receipt) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(ctx, r); err != nil {
		logger.Warnf("[Listings] 回执发布失败: type=%s, sig=%s, err=%v", r.Type, r.Signature, err)
	}
}
