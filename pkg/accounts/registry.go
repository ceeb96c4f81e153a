package accounts

import (
	"listings-sdk-sol/pkg/codec"
	"listings-sdk-sol/pkg/model"
	"listings-sdk-sol/pkg/types"
)

// CreatorRegistry 创作者在某商店、某币种下的销售统计
type CreatorRegistry struct {
	Class     model.AccountClass
	StoreHash uint64
	Currency  types.Pubkey
	Creator   types.Pubkey
	Donations uint64
	Date      model.IndexDate
	Filters   [8]uint8
	Track     model.SaleTrack
	Lut       types.Pubkey // 地址查找表
}

func (r *CreatorRegistry) Discriminator() codec.Discriminator {
	return CreatorRegistryDiscriminator
}

func (r CreatorRegistry) EncodeTo(e *codec.Encoder) {
	r.Class.EncodeTo(e)
	e.U64(r.StoreHash)
	e.Pubkey(r.Currency)
	e.Pubkey(r.Creator)
	e.U64(r.Donations)
	r.Date.EncodeTo(e)
	e.FixedBytes(r.Filters[:])
	r.Track.EncodeTo(e)
	e.Pubkey(r.Lut)
}

func (r *CreatorRegistry) DecodeFrom(d *codec.Decoder) error {
	_ = r.Class.DecodeFrom(d)
	r.StoreHash = d.U64()
	r.Currency = d.Pubkey()
	r.Creator = d.Pubkey()
	r.Donations = d.U64()
	_ = r.Date.DecodeFrom(d)
	d.FixedBytes(r.Filters[:])
	_ = r.Track.DecodeFrom(d)
	r.Lut = d.Pubkey()
	return d.Err()
}

func DecodeCreatorRegistry(data []byte) (*CreatorRegistry, error) {
	return Decode[CreatorRegistry](data)
}

// CollectionRegistry 合集维度的销售统计
type CollectionRegistry struct {
	Class      model.AccountClass
	StoreHash  uint64
	Currency   types.Pubkey
	Collection types.Pubkey
	Donations  uint64
	Date       model.IndexDate
	Filters    [8]uint8
	Track      model.SaleTrack
}

func (r *CollectionRegistry) Discriminator() codec.Discriminator {
	return CollectionRegistryDiscriminator
}

func (r CollectionRegistry) EncodeTo(e *codec.Encoder) {
	r.Class.EncodeTo(e)
	e.U64(r.StoreHash)
	e.Pubkey(r.Currency)
	e.Pubkey(r.Collection)
	e.U64(r.Donations)
	r.Date.EncodeTo(e)
	e.FixedBytes(r.Filters[:])
	r.Track.EncodeTo(e)
}

func (r *CollectionRegistry) DecodeFrom(d *codec.Decoder) error {
	_ = r.Class.DecodeFrom(d)
	r.StoreHash = d.U64()
	r.Currency = d.Pubkey()
	r.Collection = d.Pubkey()
	r.Donations = d.U64()
	_ = r.Date.DecodeFrom(d)
	d.FixedBytes(r.Filters[:])
	_ = r.Track.DecodeFrom(d)
	return d.Err()
}

func DecodeCollectionRegistry(data []byte) (*CollectionRegistry, error) {
	return Decode[CollectionRegistry](data)
}
