package listings

import "math/rand"

const (
	maxStoreID        = 10000
	maxItemIdentifier = 1000000
)

// IDSource 新商店 / 商品的数字 ID 来源；随机 ID 可能撞车，上层遇到
// transport.ErrAccountAlreadyExists 时换 ID 重试
type IDSource interface {
	StoreID() uint16
	ItemIdentifier() uint64
}

type randomIDs struct{}

func (randomIDs) StoreID() uint16 {
	return uint16(rand.Intn(maxStoreID))
}

func (randomIDs) ItemIdentifier() uint64 {
	return uint64(rand.Intn(maxItemIdentifier))
}

// CallOption 单次调用参数
type CallOption func(*callOptions)

type callOptions struct {
	storeID        *uint16
	itemIdentifier *uint64
}

// WithStoreID 指定商店 ID，不再随机生成
func WithStoreID(id uint16) CallOption {
	return func(o *callOptions) { o.storeID = &id }
}

// WithItemIdentifier 指定商品 ID，不再随机生成
func WithItemIdentifier(id uint64) CallOption {
	return func(o *callOptions) { o.itemIdentifier = &id }
}

func applyCallOptions(opts []CallOption) callOptions {
	var o callOptions
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
