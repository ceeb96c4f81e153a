package listings

import (
	"net/url"
	"strings"

	"listings-sdk-sol/pkg/model"
	"listings-sdk-sol/pkg/types"
)

// 商品元数据 URI 类型：存储网关内的相对路径
const uriTypeRelative uint8 = 1

// NewSaleConfig 单一定价的销售配置；price <= 0 表示免费，价格列表为空。
// splMint 为 nil 时以原生 SOL 计价。
func NewSaleConfig(price int64, splMint *types.Pubkey) model.SaleConfig {
	cfg := model.SaleConfig{
		Prices:    []model.Price{},
		PriceType: model.PriceRuleNone{},
		Rules:     []model.Rule{},
		SaleType:  model.SaleTypeNormal,
	}
	if price <= 0 {
		return cfg
	}
	var currency model.CurrencyType = model.CurrencyNative{}
	if splMint != nil {
		currency = model.CurrencySpl{ID: *splMint}
	}
	cfg.Prices = append(cfg.Prices, model.Price{Amount: uint64(price), PriceType: currency})
	return cfg
}

// DefaultDistributionBumps 全零的分账 bump
func DefaultDistributionBumps() []uint8 {
	return make([]uint8, DistributionBumpCount)
}

// StorageRelativePath 截取存储网关 URL 中 ".net/" 之后的部分；
// 其它 URL 取去掉开头斜杠的 path
func StorageRelativePath(contentURL string) string {
	if contentURL == "" {
		return ""
	}
	if _, rest, ok := strings.Cut(contentURL, ".net/"); ok {
		return rest
	}
	u, err := url.Parse(contentURL)
	if err != nil || u.Host == "" {
		return contentURL
	}
	return strings.TrimPrefix(u.Path, "/")
}
