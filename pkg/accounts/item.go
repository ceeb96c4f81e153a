package accounts

import (
	"listings-sdk-sol/pkg/codec"
	"listings-sdk-sol/pkg/model"
	"listings-sdk-sol/pkg/types"
)

// ItemHeader Single 与 Pack 共用的前缀字段（到 item 为止）
type ItemHeader struct {
	Class            model.AccountClass
	GlobalState      model.GlobalState
	Holder           types.Pubkey // 所属商店
	Creator          types.Pubkey
	Dates            model.IndexDates
	Category         model.Category
	SuperCategory    model.SuperCategory
	EventCategory    uint16
	TrackType        model.TrackRegistry
	MainCurrencyHash uint64
	Track            model.ItemTrack
	Popularity       model.Popularity
	Filtering        model.Filter
	Page             uint64
	Manager          types.Pubkey
	IsServerless     uint8
	AvailableOption  uint8
	HasWrappedTokens uint8
	BurntPieces      uint32
	Flag             [1]uint8
	Item             model.Item
}

func (h ItemHeader) EncodeTo(e *codec.Encoder) {
	h.Class.EncodeTo(e)
	h.GlobalState.EncodeTo(e)
	e.Pubkey(h.Holder)
	e.Pubkey(h.Creator)
	h.Dates.EncodeTo(e)
	h.Category.EncodeTo(e)
	h.SuperCategory.EncodeTo(e)
	e.U16(h.EventCategory)
	h.TrackType.EncodeTo(e)
	e.U64(h.MainCurrencyHash)
	h.Track.EncodeTo(e)
	h.Popularity.EncodeTo(e)
	h.Filtering.EncodeTo(e)
	e.U64(h.Page)
	e.Pubkey(h.Manager)
	e.U8(h.IsServerless)
	e.U8(h.AvailableOption)
	e.U8(h.HasWrappedTokens)
	e.U32(h.BurntPieces)
	e.FixedBytes(h.Flag[:])
	h.Item.EncodeTo(e)
}

func (h *ItemHeader) DecodeFrom(d *codec.Decoder) error {
	_ = h.Class.DecodeFrom(d)
	_ = h.GlobalState.DecodeFrom(d)
	h.Holder = d.Pubkey()
	h.Creator = d.Pubkey()
	_ = h.Dates.DecodeFrom(d)
	_ = h.Category.DecodeFrom(d)
	_ = h.SuperCategory.DecodeFrom(d)
	h.EventCategory = d.U16()
	_ = h.TrackType.DecodeFrom(d)
	h.MainCurrencyHash = d.U64()
	_ = h.Track.DecodeFrom(d)
	_ = h.Popularity.DecodeFrom(d)
	_ = h.Filtering.DecodeFrom(d)
	h.Page = d.U64()
	h.Manager = d.Pubkey()
	h.IsServerless = d.U8()
	h.AvailableOption = d.U8()
	h.HasWrappedTokens = d.U8()
	h.BurntPieces = d.U32()
	d.FixedBytes(h.Flag[:])
	_ = h.Item.DecodeFrom(d)
	return d.Err()
}

// Collection 商品所属合集，未设置时返回零地址
func (h *ItemHeader) Collection() types.Pubkey {
	if h.Item.Metadata.Collection == nil {
		return types.Pubkey{}
	}
	return h.Item.Metadata.Collection.Key
}

// Single 单品（可多版次铸造）
type Single struct {
	ItemHeader
	SaleConfig model.SaleConfig
	Identifier uint64
	Hash       uint64
	HashTraits uint64
	Volume     []model.FakeVolumeTrack
	Extra      [4]uint8
}

func (s *Single) Discriminator() codec.Discriminator {
	return SingleDiscriminator
}

func (s Single) EncodeTo(e *codec.Encoder) {
	s.ItemHeader.EncodeTo(e)
	s.SaleConfig.EncodeTo(e)
	e.U64(s.Identifier)
	e.U64(s.Hash)
	e.U64(s.HashTraits)
	model.EncodeVolumes(e, s.Volume)
	e.FixedBytes(s.Extra[:])
}

func (s *Single) DecodeFrom(d *codec.Decoder) error {
	_ = s.ItemHeader.DecodeFrom(d)
	_ = s.SaleConfig.DecodeFrom(d)
	s.Identifier = d.U64()
	s.Hash = d.U64()
	s.HashTraits = d.U64()
	s.Volume = model.DecodeVolumes(d)
	d.FixedBytes(s.Extra[:])
	return d.Err()
}

func DecodeSingle(data []byte) (*Single, error) {
	return Decode[Single](data)
}

// Pack 卡包
type Pack struct {
	ItemHeader
	Count      uint64
	Live       uint64
	Available  uint64
	Printed    uint64
	SaleConfig model.SaleConfig
	Opened     uint64
	Owed       uint64
	Identifier uint64
	Hash       uint64
	HashTraits uint64
	PackConfig model.PackConfig
	Volume     []model.FakeVolumeTrack
	Delegate   []types.Pubkey
	Extra      [4]uint8
}

func (p *Pack) Discriminator() codec.Discriminator {
	return PackDiscriminator
}

func (p Pack) EncodeTo(e *codec.Encoder) {
	p.ItemHeader.EncodeTo(e)
	e.U64(p.Count)
	e.U64(p.Live)
	e.U64(p.Available)
	e.U64(p.Printed)
	p.SaleConfig.EncodeTo(e)
	e.U64(p.Opened)
	e.U64(p.Owed)
	e.U64(p.Identifier)
	e.U64(p.Hash)
	e.U64(p.HashTraits)
	p.PackConfig.EncodeTo(e)
	model.EncodeVolumes(e, p.Volume)
	encodePubkeys(e, p.Delegate)
	e.FixedBytes(p.Extra[:])
}

func (p *Pack) DecodeFrom(d *codec.Decoder) error {
	_ = p.ItemHeader.DecodeFrom(d)
	p.Count = d.U64()
	p.Live = d.U64()
	p.Available = d.U64()
	p.Printed = d.U64()
	_ = p.SaleConfig.DecodeFrom(d)
	p.Opened = d.U64()
	p.Owed = d.U64()
	p.Identifier = d.U64()
	p.Hash = d.U64()
	p.HashTraits = d.U64()
	_ = p.PackConfig.DecodeFrom(d)
	p.Volume = model.DecodeVolumes(d)
	p.Delegate = decodePubkeys(d)
	d.FixedBytes(p.Extra[:])
	return d.Err()
}

func DecodePack(data []byte) (*Pack, error) {
	return Decode[Pack](data)
}

func encodePubkeys(e *codec.Encoder, keys []types.Pubkey) {
	if !e.VecLen(len(keys)) {
		return
	}
	for _, k := range keys {
		e.Pubkey(k)
	}
}

func decodePubkeys(d *codec.Decoder) []types.Pubkey {
	n := d.VecLen(types.PubkeySize)
	out := make([]types.Pubkey, n)
	for i := 0; i < n; i++ {
		out[i] = d.Pubkey()
	}
	return out
}
