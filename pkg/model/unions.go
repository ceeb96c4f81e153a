package model

import (
	"listings-sdk-sol/pkg/codec"
	"listings-sdk-sol/pkg/types"
)

// 带负载的 tagged union：每个变体一个结构体，接口方法封闭变体集合

// CurrencyType 价格的计价币种
type CurrencyType interface {
	codec.Encodable
	currencyTag() uint8
}

type CurrencyNative struct{}

type CurrencySpl struct {
	ID types.Pubkey // SPL mint
}

func (CurrencyNative) currencyTag() uint8 { return 0 }
func (CurrencySpl) currencyTag() uint8    { return 1 }

func (c CurrencyNative) EncodeTo(e *codec.Encoder) {
	e.Tag(c.currencyTag())
}

func (c CurrencySpl) EncodeTo(e *codec.Encoder) {
	e.Tag(c.currencyTag())
	e.Pubkey(c.ID)
}

func DecodeCurrencyType(d *codec.Decoder) CurrencyType {
	tag, ok := d.Tag("CurrencyType", 2)
	if !ok {
		return nil
	}
	if tag == 0 {
		return CurrencyNative{}
	}
	return CurrencySpl{ID: d.Pubkey()}
}

// PriceRule 价格随销量变化的规则
type PriceRule interface {
	codec.Encodable
	priceRuleTag() uint8
}

type PriceRuleNone struct{}

type PriceRuleDynamic struct {
	BasisPoints uint16 // 每次成交后的调价幅度
}

func (PriceRuleNone) priceRuleTag() uint8    { return 0 }
func (PriceRuleDynamic) priceRuleTag() uint8 { return 1 }

func (r PriceRuleNone) EncodeTo(e *codec.Encoder) {
	e.Tag(r.priceRuleTag())
}

func (r PriceRuleDynamic) EncodeTo(e *codec.Encoder) {
	e.Tag(r.priceRuleTag())
	e.U16(r.BasisPoints)
}

func DecodePriceRule(d *codec.Decoder) PriceRule {
	tag, ok := d.Tag("PriceRule", 2)
	if !ok {
		return nil
	}
	if tag == 0 {
		return PriceRuleNone{}
	}
	return PriceRuleDynamic{BasisPoints: d.U16()}
}

// Rule 购买限制
type Rule interface {
	codec.Encodable
	ruleTag() uint8
}

type RuleTokenGate struct {
	Mint   types.Pubkey
	Amount uint64
}

type RuleWalletLimit struct {
	Limit uint32
}

type RuleTimeWindow struct {
	Start int64
	End   int64
}

func (RuleTokenGate) ruleTag() uint8   { return 0 }
func (RuleWalletLimit) ruleTag() uint8 { return 1 }
func (RuleTimeWindow) ruleTag() uint8  { return 2 }

func (r RuleTokenGate) EncodeTo(e *codec.Encoder) {
	e.Tag(r.ruleTag())
	e.Pubkey(r.Mint)
	e.U64(r.Amount)
}

func (r RuleWalletLimit) EncodeTo(e *codec.Encoder) {
	e.Tag(r.ruleTag())
	e.U32(r.Limit)
}

func (r RuleTimeWindow) EncodeTo(e *codec.Encoder) {
	e.Tag(r.ruleTag())
	e.I64(r.Start)
	e.I64(r.End)
}

func DecodeRule(d *codec.Decoder) Rule {
	tag, ok := d.Tag("Rule", 3)
	if !ok {
		return nil
	}
	switch tag {
	case 0:
		return RuleTokenGate{Mint: d.Pubkey(), Amount: d.U64()}
	case 1:
		return RuleWalletLimit{Limit: d.U32()}
	default:
		return RuleTimeWindow{Start: d.I64(), End: d.I64()}
	}
}

// DepositType 存入金库的资产来源
type DepositType interface {
	codec.Encodable
	TrackType() DepositTrackType
}

type DepositCreator struct {
	Creators []Creator
}

type DepositPdaCreator struct {
	Creators []Creator
	Hasher   AccountHasher
}

type DepositCollection struct {
	Metadata VerifyCollectionMetadata
	Subtype  DepositSubtype
}

func (DepositCreator) TrackType() DepositTrackType    { return DepositTrackTypeCreator }
func (DepositPdaCreator) TrackType() DepositTrackType { return DepositTrackTypePdaCreator }
func (DepositCollection) TrackType() DepositTrackType { return DepositTrackTypeCollection }

func (v DepositCreator) EncodeTo(e *codec.Encoder) {
	e.Tag(uint8(v.TrackType()))
	encodeCreators(e, v.Creators)
}

func (v DepositPdaCreator) EncodeTo(e *codec.Encoder) {
	e.Tag(uint8(v.TrackType()))
	encodeCreators(e, v.Creators)
	v.Hasher.EncodeTo(e)
}

func (v DepositCollection) EncodeTo(e *codec.Encoder) {
	e.Tag(uint8(v.TrackType()))
	v.Metadata.EncodeTo(e)
	v.Subtype.EncodeTo(e)
}

func DecodeDepositType(d *codec.Decoder) DepositType {
	tag, ok := d.Tag("DepositType", 3)
	if !ok {
		return nil
	}
	switch DepositTrackType(tag) {
	case DepositTrackTypeCreator:
		return DepositCreator{Creators: decodeCreators(d)}
	case DepositTrackTypePdaCreator:
		v := DepositPdaCreator{Creators: decodeCreators(d)}
		_ = v.Hasher.DecodeFrom(d)
		return v
	default:
		var v DepositCollection
		_ = v.Metadata.DecodeFrom(d)
		_ = v.Subtype.DecodeFrom(d)
		return v
	}
}

// encodeUnion 联合字段缺省（nil）时记为编码错误
func encodeUnion(e *codec.Encoder, union string, v codec.Encodable) {
	if v == nil {
		e.Fail(codec.ErrUnknownTag, union+" is nil")
		return
	}
	v.EncodeTo(e)
}
