package accounts

import (
	"context"
	"errors"
	"fmt"

	"listings-sdk-sol/pkg/codec"
	"listings-sdk-sol/pkg/transport"
	"listings-sdk-sol/pkg/types"
)

// ErrOwnerMismatch 账户不属于预期程序；先于判别码校验
var ErrOwnerMismatch = errors.New("account doesn't belong to this program")

// 五类持久化记录的判别码
var (
	CollectionRegistryDiscriminator = codec.AccountDiscriminator("CollectionRegistry")
	CreatorRegistryDiscriminator    = codec.AccountDiscriminator("CreatorRegistry")
	PackDiscriminator               = codec.AccountDiscriminator("Pack")
	SingleDiscriminator             = codec.AccountDiscriminator("Single")
	PoolVaultDiscriminator          = codec.AccountDiscriminator("PoolVault")
)

// Record 判别码 + 固定字段布局
type Record interface {
	codec.Encodable
	codec.Decodable
	Discriminator() codec.Discriminator
}

// recordPtr 约束 *T 实现 Record，便于按值类型实例化泛型
type recordPtr[T any] interface {
	*T
	Record
}

// Decode 校验判别码后解码；data 末尾的多余空间忽略
func Decode[T any, PT recordPtr[T]](data []byte) (*T, error) {
	var v T
	pt := PT(&v)
	if err := codec.CheckDiscriminator(data, pt.Discriminator()); err != nil {
		return nil, err
	}
	if err := codec.Unmarshal(data[codec.DiscriminatorSize:], pt); err != nil {
		return nil, err
	}
	return &v, nil
}

// Encode 判别码 + 字段
func Encode(r Record) ([]byte, error) {
	e := codec.NewEncoder(512)
	disc := r.Discriminator()
	e.FixedBytes(disc[:])
	r.EncodeTo(e)
	return e.Bytes()
}

func decodeOwned[T any, PT recordPtr[T]](info *transport.AccountInfo, programID types.Pubkey) (*T, error) {
	if info.Owner != programID {
		return nil, fmt.Errorf("%w: %s owned by %s", ErrOwnerMismatch, info.Address, info.Owner)
	}
	v, err := Decode[T, PT](info.Data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", info.Address, err)
	}
	return v, nil
}

// Fetch 读取并解码单个账户；账户不存在返回 nil, nil
func Fetch[T any, PT recordPtr[T]](ctx context.Context, reader transport.AccountReader, addr, programID types.Pubkey) (*T, error) {
	info, err := reader.GetAccount(ctx, addr)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, nil
	}
	if info.Address.IsZero() {
		info.Address = addr
	}
	return decodeOwned[T, PT](info, programID)
}

// FetchMultiple 结果与 addrs 一一对应，不存在的位置为 nil；任一账户结构不合法即整体失败
func FetchMultiple[T any, PT recordPtr[T]](ctx context.Context, reader transport.AccountReader, addrs []types.Pubkey, programID types.Pubkey) ([]*T, error) {
	infos, err := reader.GetMultipleAccounts(ctx, addrs)
	if err != nil {
		return nil, err
	}
	if len(infos) != len(addrs) {
		return nil, fmt.Errorf("account count mismatch: got=%d want=%d", len(infos), len(addrs))
	}

	out := make([]*T, len(addrs))
	for i, info := range infos {
		if info == nil {
			continue
		}
		if info.Address.IsZero() {
			info.Address = addrs[i]
		}
		v, err := decodeOwned[T, PT](info, programID)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func FetchSingle(ctx context.Context, reader transport.AccountReader, addr, programID types.Pubkey) (*Single, error) {
	return Fetch[Single](ctx, reader, addr, programID)
}

func FetchPack(ctx context.Context, reader transport.AccountReader, addr, programID types.Pubkey) (*Pack, error) {
	return Fetch[Pack](ctx, reader, addr, programID)
}

func FetchPoolVault(ctx context.Context, reader transport.AccountReader, addr, programID types.Pubkey) (*PoolVault, error) {
	return Fetch[PoolVault](ctx, reader, addr, programID)
}

func FetchCreatorRegistry(ctx context.Context, reader transport.AccountReader, addr, programID types.Pubkey) (*CreatorRegistry, error) {
	return Fetch[CreatorRegistry](ctx, reader, addr, programID)
}

func FetchCollectionRegistry(ctx context.Context, reader transport.AccountReader, addr, programID types.Pubkey) (*CollectionRegistry, error) {
	return Fetch[CollectionRegistry](ctx, reader, addr, programID)
}
