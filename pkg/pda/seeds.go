package pda

import (
	"encoding/binary"

	"listings-sdk-sol/pkg/types"
)

// 种子标签
const (
	SeedHolder            = "holder"
	SeedStore             = "store"
	SeedItem              = "item"
	SeedCreatorAuthority  = "creator_authority"
	SeedActivity          = "activity"
	SeedCreatorRegistry   = "creator_registry"
	SeedCollectorRegistry = "collector_registry"
	SeedCollectorGlobal   = "collector_global"
	SeedPayment           = "payment"

	SeedMetadata            = "metadata"
	SeedEdition             = "edition"
	SeedCollectionAuthority = "collection_authority"
)

// Programs 派生涉及的程序地址
type Programs struct {
	Listings        types.Pubkey
	TokenMetadata   types.Pubkey
	Token           types.Pubkey
	AssociatedToken types.Pubkey
}

// Deriver 具名派生集合；无状态，可并发使用
type Deriver struct {
	programs Programs
}

func NewDeriver(programs Programs) *Deriver {
	return &Deriver{programs: programs}
}

func (d *Deriver) Programs() Programs {
	return d.programs
}

func u16le(v uint16) []byte {
	return binary.LittleEndian.AppendUint16(nil, v)
}

func u64le(v uint64) []byte {
	return binary.LittleEndian.AppendUint64(nil, v)
}

func (d *Deriver) listings(seeds ...[]byte) (Address, error) {
	return FindProgramAddress(seeds, d.programs.Listings)
}

func (d *Deriver) Holder(creator types.Pubkey, slot uint64) (Address, error) {
	return d.listings([]byte(SeedHolder), creator[:], u64le(slot))
}

func (d *Deriver) Store(holder, creator types.Pubkey, storeID uint16) (Address, error) {
	return d.listings([]byte(SeedStore), holder[:], creator[:], u16le(storeID))
}

func (d *Deriver) Item(creator, store types.Pubkey, identifier uint64) (Address, error) {
	return d.listings([]byte(SeedItem), creator[:], store[:], u64le(identifier))
}

func (d *Deriver) CreatorAuthority(creator, store types.Pubkey) (Address, error) {
	return d.listings([]byte(SeedCreatorAuthority), creator[:], store[:])
}

func (d *Deriver) UserActivity(user, store types.Pubkey) (Address, error) {
	return d.listings([]byte(SeedActivity), user[:], store[:])
}

func (d *Deriver) CreatorRegistry(user, store, currency types.Pubkey) (Address, error) {
	return d.listings([]byte(SeedCreatorRegistry), user[:], store[:], currency[:])
}

func (d *Deriver) CollectorArtistRegistry(user, artist, store, currency types.Pubkey) (Address, error) {
	return d.listings([]byte(SeedCollectorRegistry), user[:], artist[:], store[:], currency[:])
}

func (d *Deriver) CollectorGlobalRegistry(user, store, currency types.Pubkey) (Address, error) {
	return d.listings([]byte(SeedCollectorGlobal), user[:], store[:], currency[:])
}

func (d *Deriver) Payment(owner, item types.Pubkey) (Address, error) {
	return d.listings([]byte(SeedPayment), owner[:], item[:])
}

// AssociatedToken owner 在 mint 下的关联代币账户
func (d *Deriver) AssociatedToken(owner, mint types.Pubkey) (Address, error) {
	tokenProgram := d.programs.Token
	return FindProgramAddress([][]byte{owner[:], tokenProgram[:], mint[:]}, d.programs.AssociatedToken)
}

func (d *Deriver) Metadata(mint types.Pubkey) (Address, error) {
	meta := d.programs.TokenMetadata
	return FindProgramAddress([][]byte{[]byte(SeedMetadata), meta[:], mint[:]}, meta)
}

func (d *Deriver) Edition(mint types.Pubkey) (Address, error) {
	meta := d.programs.TokenMetadata
	return FindProgramAddress([][]byte{[]byte(SeedMetadata), meta[:], mint[:], []byte(SeedEdition)}, meta)
}

func (d *Deriver) CollectionAuthorityRecord(mint, newAuthority types.Pubkey) (Address, error) {
	meta := d.programs.TokenMetadata
	return FindProgramAddress([][]byte{
		[]byte(SeedMetadata), meta[:], mint[:], []byte(SeedCollectionAuthority), newAuthority[:],
	}, meta)
}
