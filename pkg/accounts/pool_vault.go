package accounts

import (
	"listings-sdk-sol/pkg/codec"
	"listings-sdk-sol/pkg/model"
	"listings-sdk-sol/pkg/types"
)

// PoolVault 商店资金池
type PoolVault struct {
	Class     model.AccountClass
	State     model.PoolState
	StoreHash uint64
	Currency  types.Pubkey
	Creator   types.Pubkey
	PoolType  model.PoolType
	Access    model.PoolAccess
	Deposit   uint64
	Secured   uint64
	Decimals  uint8
	Managers  []types.Pubkey
	Name      string
}

func (v *PoolVault) Discriminator() codec.Discriminator {
	return PoolVaultDiscriminator
}

func (v PoolVault) EncodeTo(e *codec.Encoder) {
	v.Class.EncodeTo(e)
	v.State.EncodeTo(e)
	e.U64(v.StoreHash)
	e.Pubkey(v.Currency)
	e.Pubkey(v.Creator)
	v.PoolType.EncodeTo(e)
	v.Access.EncodeTo(e)
	e.U64(v.Deposit)
	e.U64(v.Secured)
	e.U8(v.Decimals)
	encodePubkeys(e, v.Managers)
	e.Str(v.Name)
}

func (v *PoolVault) DecodeFrom(d *codec.Decoder) error {
	_ = v.Class.DecodeFrom(d)
	_ = v.State.DecodeFrom(d)
	v.StoreHash = d.U64()
	v.Currency = d.Pubkey()
	v.Creator = d.Pubkey()
	_ = v.PoolType.DecodeFrom(d)
	_ = v.Access.DecodeFrom(d)
	v.Deposit = d.U64()
	v.Secured = d.U64()
	v.Decimals = d.U8()
	v.Managers = decodePubkeys(d)
	v.Name = d.Str()
	return d.Err()
}

func DecodePoolVault(data []byte) (*PoolVault, error) {
	return Decode[PoolVault](data)
}
