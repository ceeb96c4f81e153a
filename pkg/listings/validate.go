package listings

import (
	"bytes"
	"crypto/ed25519"
	"unicode/utf16"

	"github.com/blocto/solana-go-sdk/common"
	sdktypes "github.com/blocto/solana-go-sdk/types"

	"listings-sdk-sol/pkg/codec"
	"listings-sdk-sol/pkg/model"
	"listings-sdk-sol/pkg/types"
	"listings-sdk-sol/pkg/upload"
)

const (
	maxStoreNameLen   = 32
	maxMetaNameLen    = 32
	maxMetaSymbolLen  = 10
	maxBasisPoints    = 10000
	maxCreators       = 5
	totalCreatorShare = 100

	// DistributionBumpCount 购买指令要求的分账 bump 个数
	DistributionBumpCount = 6
)

// textLen 按 UTF-16 码元计长度，与链上程序的客户端约定一致
func textLen(s string) int {
	return len(utf16.Encode([]rune(s)))
}

// checkPayer 需要持有与公钥匹配的私钥才能签名
func checkPayer(payer sdktypes.Account) error {
	if payer.PublicKey == (common.PublicKey{}) || len(payer.PrivateKey) != ed25519.PrivateKeySize {
		return invalid("Invalid payer")
	}
	pub, ok := payer.PrivateKey.Public().(ed25519.PublicKey)
	if !ok || !bytes.Equal(pub, payer.PublicKey[:]) {
		return invalid("Invalid payer")
	}
	return nil
}

func validateStoreName(name string) error {
	if name == "" || textLen(name) > maxStoreNameLen {
		return invalid("Store name is required and must be <= %d characters", maxStoreNameLen)
	}
	return nil
}

func validateStoreConfig(cfg model.StoreConfig) error {
	if cfg.FeePercentage > maxBasisPoints {
		return invalid("Store fee percentage must be <= %d", maxBasisPoints)
	}
	if _, err := codec.Marshal(cfg); err != nil {
		return invalid("Invalid store config: %v", err)
	}
	return nil
}

func validateCreators(creators []model.Creator) error {
	if len(creators) == 0 {
		return nil
	}
	if len(creators) > maxCreators {
		return invalid("At most %d creators are allowed", maxCreators)
	}
	total := 0
	seen := make(map[types.Pubkey]struct{}, len(creators))
	for _, c := range creators {
		if c.Address.IsZero() {
			return invalid("Creator address is required")
		}
		if _, dup := seen[c.Address]; dup {
			return invalid("Duplicate creator %s", c.Address)
		}
		seen[c.Address] = struct{}{}
		total += int(c.Share)
	}
	if total != totalCreatorShare {
		return invalid("Creator shares must add up to %d", totalCreatorShare)
	}
	return nil
}

func validateMetaName(name string) error {
	if name == "" || textLen(name) > maxMetaNameLen {
		return invalid("Metadata name is required and must be <= %d characters", maxMetaNameLen)
	}
	return nil
}

func validateSellerFee(bps uint16) error {
	if bps > maxBasisPoints {
		return invalid("Seller fee basis points must be <= %d", maxBasisPoints)
	}
	return nil
}

func validateShortMetadata(meta model.ShortMetadataArgs) error {
	if err := validateMetaName(meta.Name); err != nil {
		return err
	}
	if err := validateSellerFee(meta.SellerFeeBasisPoints); err != nil {
		return err
	}
	return validateCreators(meta.Creators)
}

func validateSupply(supply int64) error {
	if supply < 0 {
		return invalid("Supply must be a non-negative integer")
	}
	return nil
}

func validateSaleConfig(cfg model.SaleConfig) error {
	for i, p := range cfg.Prices {
		if p.Amount == 0 {
			return invalid("Price %d amount must be positive", i)
		}
		if p.PriceType == nil {
			return invalid("Price %d currency is required", i)
		}
		if spl, ok := p.PriceType.(model.CurrencySpl); ok && spl.ID.IsZero() {
			return invalid("Price %d SPL currency mint is empty", i)
		}
	}
	if cfg.PriceType == nil {
		return invalid("Sale price rule is required")
	}
	if _, err := codec.Marshal(cfg); err != nil {
		return invalid("Invalid sale config: %v", err)
	}
	return nil
}

func validateAsset(asset *upload.Asset) error {
	if err := asset.Validate(); err != nil {
		return invalid("Invalid upload data: %v", err)
	}
	return nil
}

func validateDistributionBumps(bumps []uint8) error {
	if len(bumps) != DistributionBumpCount {
		return invalid("Distribution bumps must contain exactly %d entries", DistributionBumpCount)
	}
	return nil
}
