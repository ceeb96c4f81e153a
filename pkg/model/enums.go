package model

import (
	"fmt"

	"listings-sdk-sol/pkg/codec"
)

// 无负载的枚举统一按单字节 tag 编码

func encodeTag(e *codec.Encoder, union string, tag uint8, variants int) {
	if int(tag) >= variants {
		e.Fail(codec.ErrUnknownTag, fmt.Sprintf("%s tag %d", union, tag))
		return
	}
	e.Tag(tag)
}

func decodeTag[T ~uint8](d *codec.Decoder, union string, variants int) T {
	t, _ := d.Tag(union, variants)
	return T(t)
}

func enumName(names []string, tag uint8) string {
	if int(tag) < len(names) {
		return names[tag]
	}
	return fmt.Sprintf("Unknown(%d)", tag)
}

// AccountClass 账户类别
type AccountClass uint8

const (
	AccountClassStore AccountClass = iota
	AccountClassSingle
	AccountClassPack
	AccountClassRegistry
	AccountClassPool
	AccountClassActivity
)

var accountClassNames = []string{"Store", "Single", "Pack", "Registry", "Pool", "Activity"}

func (v AccountClass) String() string { return enumName(accountClassNames, uint8(v)) }
func (v AccountClass) EncodeTo(e *codec.Encoder) {
	encodeTag(e, "AccountClass", uint8(v), len(accountClassNames))
}
func (v *AccountClass) DecodeFrom(d *codec.Decoder) error {
	*v = decodeTag[AccountClass](d, "AccountClass", len(accountClassNames))
	return d.Err()
}

// GlobalState 记录在全局范围内的状态
type GlobalState uint8

const (
	GlobalStateActive GlobalState = iota
	GlobalStatePaused
	GlobalStateClosed
)

var globalStateNames = []string{"Active", "Paused", "Closed"}

func (v GlobalState) String() string { return enumName(globalStateNames, uint8(v)) }
func (v GlobalState) EncodeTo(e *codec.Encoder) {
	encodeTag(e, "GlobalState", uint8(v), len(globalStateNames))
}
func (v *GlobalState) DecodeFrom(d *codec.Decoder) error {
	*v = decodeTag[GlobalState](d, "GlobalState", len(globalStateNames))
	return d.Err()
}

// TrackRegistry 商品销量归属的统计维度
type TrackRegistry uint8

const (
	TrackRegistryNone TrackRegistry = iota
	TrackRegistryCreator
	TrackRegistryCollection
	TrackRegistryStore
)

var trackRegistryNames = []string{"None", "Creator", "Collection", "Store"}

func (v TrackRegistry) String() string { return enumName(trackRegistryNames, uint8(v)) }
func (v TrackRegistry) EncodeTo(e *codec.Encoder) {
	encodeTag(e, "TrackRegistry", uint8(v), len(trackRegistryNames))
}
func (v *TrackRegistry) DecodeFrom(d *codec.Decoder) error {
	*v = decodeTag[TrackRegistry](d, "TrackRegistry", len(trackRegistryNames))
	return d.Err()
}

type SaleType uint8

const (
	SaleTypeNormal SaleType = iota
	SaleTypeNoMarketFee
	SaleTypePartnership
	SaleTypeLocksInVault
)

var saleTypeNames = []string{"Normal", "NoMarketFee", "Partnership", "LocksInVault"}

func (v SaleType) String() string { return enumName(saleTypeNames, uint8(v)) }
func (v SaleType) EncodeTo(e *codec.Encoder) {
	encodeTag(e, "SaleType", uint8(v), len(saleTypeNames))
}
func (v *SaleType) DecodeFrom(d *codec.Decoder) error {
	*v = decodeTag[SaleType](d, "SaleType", len(saleTypeNames))
	return d.Err()
}

type PoolType uint8

const (
	PoolTypeNone PoolType = iota
	PoolTypeToken
)

var poolTypeNames = []string{"None", "Token"}

func (v PoolType) String() string { return enumName(poolTypeNames, uint8(v)) }
func (v PoolType) EncodeTo(e *codec.Encoder) {
	encodeTag(e, "PoolType", uint8(v), len(poolTypeNames))
}
func (v *PoolType) DecodeFrom(d *codec.Decoder) error {
	*v = decodeTag[PoolType](d, "PoolType", len(poolTypeNames))
	return d.Err()
}

type PoolState uint8

const (
	PoolStateOpen PoolState = iota
	PoolStateLocked
	PoolStateClosed
)

var poolStateNames = []string{"Open", "Locked", "Closed"}

func (v PoolState) String() string { return enumName(poolStateNames, uint8(v)) }
func (v PoolState) EncodeTo(e *codec.Encoder) {
	encodeTag(e, "PoolState", uint8(v), len(poolStateNames))
}
func (v *PoolState) DecodeFrom(d *codec.Decoder) error {
	*v = decodeTag[PoolState](d, "PoolState", len(poolStateNames))
	return d.Err()
}

type PoolAccess uint8

const (
	PoolAccessPublic PoolAccess = iota
	PoolAccessManagers
)

var poolAccessNames = []string{"Public", "Managers"}

func (v PoolAccess) String() string { return enumName(poolAccessNames, uint8(v)) }
func (v PoolAccess) EncodeTo(e *codec.Encoder) {
	encodeTag(e, "PoolAccess", uint8(v), len(poolAccessNames))
}
func (v *PoolAccess) DecodeFrom(d *codec.Decoder) error {
	*v = decodeTag[PoolAccess](d, "PoolAccess", len(poolAccessNames))
	return d.Err()
}

type DepositTrackType uint8

const (
	DepositTrackTypeCreator DepositTrackType = iota
	DepositTrackTypePdaCreator
	DepositTrackTypeCollection
)

var depositTrackTypeNames = []string{"Creator", "PdaCreator", "Collection"}

func (v DepositTrackType) String() string { return enumName(depositTrackTypeNames, uint8(v)) }
func (v DepositTrackType) EncodeTo(e *codec.Encoder) {
	encodeTag(e, "DepositTrackType", uint8(v), len(depositTrackTypeNames))
}
func (v *DepositTrackType) DecodeFrom(d *codec.Decoder) error {
	*v = decodeTag[DepositTrackType](d, "DepositTrackType", len(depositTrackTypeNames))
	return d.Err()
}

type DepositSubtype uint8

const (
	DepositSubtypeSingle DepositSubtype = iota
	DepositSubtypePack
	DepositSubtypeAny
)

var depositSubtypeNames = []string{"Single", "Pack", "Any"}

func (v DepositSubtype) String() string { return enumName(depositSubtypeNames, uint8(v)) }
func (v DepositSubtype) EncodeTo(e *codec.Encoder) {
	encodeTag(e, "DepositSubtype", uint8(v), len(depositSubtypeNames))
}
func (v *DepositSubtype) DecodeFrom(d *codec.Decoder) error {
	*v = decodeTag[DepositSubtype](d, "DepositSubtype", len(depositSubtypeNames))
	return d.Err()
}

// FeeType 商店手续费的收取范围
type FeeType uint8

const (
	FeeTypeAllMints FeeType = iota
	FeeTypeSingleMints
	FeeTypePackMints
)

var feeTypeNames = []string{"AllMints", "SingleMints", "PackMints"}

func (v FeeType) String() string { return enumName(feeTypeNames, uint8(v)) }
func (v FeeType) EncodeTo(e *codec.Encoder) {
	encodeTag(e, "FeeType", uint8(v), len(feeTypeNames))
}
func (v *FeeType) DecodeFrom(d *codec.Decoder) error {
	*v = decodeTag[FeeType](d, "FeeType", len(feeTypeNames))
	return d.Err()
}
