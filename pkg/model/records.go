package model

import (
	"math/big"

	"listings-sdk-sol/pkg/codec"
	"listings-sdk-sol/pkg/types"
)

const (
	pubkeySize  = 32
	creatorSize = pubkeySize + 2
)

type Creator struct {
	Address  types.Pubkey
	Verified bool
	Share    uint8
}

func (c Creator) EncodeTo(e *codec.Encoder) {
	e.Pubkey(c.Address)
	e.Bool(c.Verified)
	e.U8(c.Share)
}

func (c *Creator) DecodeFrom(d *codec.Decoder) error {
	c.Address = d.Pubkey()
	c.Verified = d.Bool()
	c.Share = d.U8()
	return d.Err()
}

func encodeCreators(e *codec.Encoder, creators []Creator) {
	if !e.VecLen(len(creators)) {
		return
	}
	for _, c := range creators {
		c.EncodeTo(e)
	}
}

func decodeCreators(d *codec.Decoder) []Creator {
	n := d.VecLen(creatorSize)
	out := make([]Creator, n)
	for i := 0; i < n; i++ {
		_ = out[i].DecodeFrom(d)
	}
	return out
}

type Collection struct {
	Verified bool
	Key      types.Pubkey
}

func (c Collection) EncodeTo(e *codec.Encoder) {
	e.Bool(c.Verified)
	e.Pubkey(c.Key)
}

func (c *Collection) DecodeFrom(d *codec.Decoder) error {
	c.Verified = d.Bool()
	c.Key = d.Pubkey()
	return d.Err()
}

type AccountHasher struct {
	Hash  uint64
	Index uint32
}

func (h AccountHasher) EncodeTo(e *codec.Encoder) {
	e.U64(h.Hash)
	e.U32(h.Index)
}

func (h *AccountHasher) DecodeFrom(d *codec.Decoder) error {
	h.Hash = d.U64()
	h.Index = d.U32()
	return d.Err()
}

type VerifyCollectionMetadata struct {
	Collection types.Pubkey
	Creator    types.Pubkey
}

func (m VerifyCollectionMetadata) EncodeTo(e *codec.Encoder) {
	e.Pubkey(m.Collection)
	e.Pubkey(m.Creator)
}

func (m *VerifyCollectionMetadata) DecodeFrom(d *codec.Decoder) error {
	m.Collection = d.Pubkey()
	m.Creator = d.Pubkey()
	return d.Err()
}

type IndexDate struct {
	Created int64
	Updated int64
}

func (v IndexDate) EncodeTo(e *codec.Encoder) {
	e.I64(v.Created)
	e.I64(v.Updated)
}

func (v *IndexDate) DecodeFrom(d *codec.Decoder) error {
	v.Created = d.I64()
	v.Updated = d.I64()
	return d.Err()
}

type IndexDates struct {
	Created   int64
	Updated   int64
	Published int64
}

func (v IndexDates) EncodeTo(e *codec.Encoder) {
	e.I64(v.Created)
	e.I64(v.Updated)
	e.I64(v.Published)
}

func (v *IndexDates) DecodeFrom(d *codec.Decoder) error {
	v.Created = d.I64()
	v.Updated = d.I64()
	v.Published = d.I64()
	return d.Err()
}

// Category 三级分类
type Category [3]uint16

func (c Category) EncodeTo(e *codec.Encoder) {
	for _, v := range c {
		e.U16(v)
	}
}

func (c *Category) DecodeFrom(d *codec.Decoder) error {
	for i := range c {
		c[i] = d.U16()
	}
	return d.Err()
}

// SuperCategory 两级大类
type SuperCategory [2]uint16

func (c SuperCategory) EncodeTo(e *codec.Encoder) {
	for _, v := range c {
		e.U16(v)
	}
}

func (c *SuperCategory) DecodeFrom(d *codec.Decoder) error {
	for i := range c {
		c[i] = d.U16()
	}
	return d.Err()
}

// Filter 检索用标志位
type Filter [8]uint8

func (f Filter) EncodeTo(e *codec.Encoder) {
	e.FixedBytes(f[:])
}

func (f *Filter) DecodeFrom(d *codec.Decoder) error {
	d.FixedBytes(f[:])
	return d.Err()
}

type ItemTrack struct {
	Sold      uint64
	Volume    *big.Int // u128
	LastPrice uint64
	LastSale  int64
}

func (t ItemTrack) EncodeTo(e *codec.Encoder) {
	e.U64(t.Sold)
	e.U128(t.Volume)
	e.U64(t.LastPrice)
	e.I64(t.LastSale)
}

func (t *ItemTrack) DecodeFrom(d *codec.Decoder) error {
	t.Sold = d.U64()
	t.Volume = d.U128()
	t.LastPrice = d.U64()
	t.LastSale = d.I64()
	return d.Err()
}

type SaleTrack struct {
	Sales  uint64
	Volume *big.Int // u128
	Buyers uint32
}

func (t SaleTrack) EncodeTo(e *codec.Encoder) {
	e.U64(t.Sales)
	e.U128(t.Volume)
	e.U32(t.Buyers)
}

func (t *SaleTrack) DecodeFrom(d *codec.Decoder) error {
	t.Sales = d.U64()
	t.Volume = d.U128()
	t.Buyers = d.U32()
	return d.Err()
}

type Popularity struct {
	Score uint64
	Likes uint32
	Views uint32
}

func (p Popularity) EncodeTo(e *codec.Encoder) {
	e.U64(p.Score)
	e.U32(p.Likes)
	e.U32(p.Views)
}

func (p *Popularity) DecodeFrom(d *codec.Decoder) error {
	p.Score = d.U64()
	p.Likes = d.U32()
	p.Views = d.U32()
	return d.Err()
}

type FakeVolumeTrack struct {
	Currency types.Pubkey
	Volume   *big.Int // u128
}

func (v FakeVolumeTrack) EncodeTo(e *codec.Encoder) {
	e.Pubkey(v.Currency)
	e.U128(v.Volume)
}

func (v *FakeVolumeTrack) DecodeFrom(d *codec.Decoder) error {
	v.Currency = d.Pubkey()
	v.Volume = d.U128()
	return d.Err()
}

func EncodeVolumes(e *codec.Encoder, vols []FakeVolumeTrack) {
	if !e.VecLen(len(vols)) {
		return
	}
	for _, v := range vols {
		v.EncodeTo(e)
	}
}

func DecodeVolumes(d *codec.Decoder) []FakeVolumeTrack {
	n := d.VecLen(pubkeySize + 16)
	out := make([]FakeVolumeTrack, n)
	for i := 0; i < n; i++ {
		_ = out[i].DecodeFrom(d)
	}
	return out
}

// ItemMetadata 商品上链保存的元数据
type ItemMetadata struct {
	Name                 string
	URI                  string
	URIType              uint8
	SellerFeeBasisPoints uint16
	Collection           *Collection
	Creators             []Creator
}

func (m ItemMetadata) EncodeTo(e *codec.Encoder) {
	e.Str(m.Name)
	e.Str(m.URI)
	e.U8(m.URIType)
	e.U16(m.SellerFeeBasisPoints)
	e.Option(m.Collection != nil)
	if m.Collection != nil {
		m.Collection.EncodeTo(e)
	}
	encodeCreators(e, m.Creators)
}

func (m *ItemMetadata) DecodeFrom(d *codec.Decoder) error {
	m.Name = d.Str()
	m.URI = d.Str()
	m.URIType = d.U8()
	m.SellerFeeBasisPoints = d.U16()
	m.Collection = nil
	if d.Option() {
		m.Collection = &Collection{}
		_ = m.Collection.DecodeFrom(d)
	}
	m.Creators = decodeCreators(d)
	return d.Err()
}

// ShortMetadataArgs 创建商品时提交的精简元数据
type ShortMetadataArgs struct {
	Name                 string
	URI                  string
	URIType              uint8
	SellerFeeBasisPoints uint16
	Collection           types.Pubkey
	Creators             []Creator
}

func (m ShortMetadataArgs) EncodeTo(e *codec.Encoder) {
	e.Str(m.Name)
	e.Str(m.URI)
	e.U8(m.URIType)
	e.U16(m.SellerFeeBasisPoints)
	e.Pubkey(m.Collection)
	encodeCreators(e, m.Creators)
}

func (m *ShortMetadataArgs) DecodeFrom(d *codec.Decoder) error {
	m.Name = d.Str()
	m.URI = d.Str()
	m.URIType = d.U8()
	m.SellerFeeBasisPoints = d.U16()
	m.Collection = d.Pubkey()
	m.Creators = decodeCreators(d)
	return d.Err()
}

type Item struct {
	Supply   uint64
	Minted   uint64
	Metadata ItemMetadata
}

func (it Item) EncodeTo(e *codec.Encoder) {
	e.U64(it.Supply)
	e.U64(it.Minted)
	it.Metadata.EncodeTo(e)
}

func (it *Item) DecodeFrom(d *codec.Decoder) error {
	it.Supply = d.U64()
	it.Minted = d.U64()
	return it.Metadata.DecodeFrom(d)
}

type Price struct {
	Amount    uint64
	PriceType CurrencyType
}

func (p Price) EncodeTo(e *codec.Encoder) {
	e.U64(p.Amount)
	encodeUnion(e, "CurrencyType", p.PriceType)
}

func (p *Price) DecodeFrom(d *codec.Decoder) error {
	p.Amount = d.U64()
	p.PriceType = DecodeCurrencyType(d)
	return d.Err()
}

type SaleConfig struct {
	Prices      []Price
	PriceType   PriceRule
	Rules       []Rule
	SendToVault uint8
	SaleType    SaleType
}

func (s SaleConfig) EncodeTo(e *codec.Encoder) {
	if e.VecLen(len(s.Prices)) {
		for _, p := range s.Prices {
			p.EncodeTo(e)
		}
	}
	encodeUnion(e, "PriceRule", s.PriceType)
	encodeRules(e, s.Rules)
	e.U8(s.SendToVault)
	s.SaleType.EncodeTo(e)
}

func (s *SaleConfig) DecodeFrom(d *codec.Decoder) error {
	n := d.VecLen(9)
	s.Prices = make([]Price, n)
	for i := 0; i < n; i++ {
		_ = s.Prices[i].DecodeFrom(d)
	}
	s.PriceType = DecodePriceRule(d)
	s.Rules = decodeRules(d)
	s.SendToVault = d.U8()
	_ = s.SaleType.DecodeFrom(d)
	return d.Err()
}

// FirstSplCurrency 返回第一个价格的 SPL mint；免费或原生币计价时 ok=false
func (s SaleConfig) FirstSplCurrency() (types.Pubkey, bool) {
	if len(s.Prices) == 0 {
		return types.Pubkey{}, false
	}
	if spl, ok := s.Prices[0].PriceType.(CurrencySpl); ok {
		return spl.ID, true
	}
	return types.Pubkey{}, false
}

func encodeRules(e *codec.Encoder, rules []Rule) {
	if !e.VecLen(len(rules)) {
		return
	}
	for _, r := range rules {
		encodeUnion(e, "Rule", r)
	}
}

func decodeRules(d *codec.Decoder) []Rule {
	n := d.VecLen(1)
	out := make([]Rule, 0, n)
	for i := 0; i < n; i++ {
		r := DecodeRule(d)
		if d.Err() != nil {
			return out
		}
		out = append(out, r)
	}
	return out
}

// StoreConfig 商店级手续费与规则
type StoreConfig struct {
	Fee           uint64
	FeePercentage uint16
	FeeType       FeeType
	Trust         types.Pubkey
	Rules         []Rule
}

func (c StoreConfig) EncodeTo(e *codec.Encoder) {
	e.U64(c.Fee)
	e.U16(c.FeePercentage)
	c.FeeType.EncodeTo(e)
	e.Pubkey(c.Trust)
	encodeRules(e, c.Rules)
}

func (c *StoreConfig) DecodeFrom(d *codec.Decoder) error {
	c.Fee = d.U64()
	c.FeePercentage = d.U16()
	_ = c.FeeType.DecodeFrom(d)
	c.Trust = d.Pubkey()
	c.Rules = decodeRules(d)
	return d.Err()
}

type PackConfig struct {
	Odds       []uint16
	Reveal     uint8
	MaxPerOpen uint8
}

func (c PackConfig) EncodeTo(e *codec.Encoder) {
	if e.VecLen(len(c.Odds)) {
		for _, o := range c.Odds {
			e.U16(o)
		}
	}
	e.U8(c.Reveal)
	e.U8(c.MaxPerOpen)
}

func (c *PackConfig) DecodeFrom(d *codec.Decoder) error {
	n := d.VecLen(2)
	c.Odds = make([]uint16, n)
	for i := 0; i < n; i++ {
		c.Odds[i] = d.U16()
	}
	c.Reveal = d.U8()
	c.MaxPerOpen = d.U8()
	return d.Err()
}
