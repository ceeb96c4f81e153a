package instructions

import (
	"github.com/blocto/solana-go-sdk/common"
	sdktypes "github.com/blocto/solana-go-sdk/types"
	"github.com/near/borsh-go"

	"listings-sdk-sol/internal/consts"
	"listings-sdk-sol/pkg/model"
	"listings-sdk-sol/pkg/types"
)

// Token Metadata 程序指令序号
const (
	metaCreateMasterEditionV3      uint8 = 17
	metaApproveCollectionAuthority uint8 = 23
	metaCreateMetadataAccountV3    uint8 = 33
)

type metaCreator struct {
	Address  common.PublicKey
	Verified bool
	Share    uint8
}

type metaCollection struct {
	Verified bool
	Key      common.PublicKey
}

type metaUses struct {
	UseMethod uint8
	Remaining uint64
	Total     uint64
}

type metaDataV2 struct {
	Name                 string
	Symbol               string
	Uri                  string
	SellerFeeBasisPoints uint16
	Creators             *[]metaCreator
	Collection           *metaCollection
	Uses                 *metaUses
}

type metaCollectionDetailsV1 struct {
	Size uint64
}

type metaCollectionDetails struct {
	Enum borsh.Enum `borsh_enum:"true"`
	V1   metaCollectionDetailsV1
}

type createMetadataAccountV3Args struct {
	Instruction       uint8
	Data              metaDataV2
	IsMutable         bool
	CollectionDetails *metaCollectionDetails
}

type createMasterEditionV3Args struct {
	Instruction uint8
	MaxSupply   *uint64
}

// CollectionDetails 合集标记；Size 为 0 表示由程序维护计数
type CollectionDetails struct {
	Size uint64
}

type CreateMetadataAccountV3Param struct {
	ProgramID       types.Pubkey // Token Metadata 程序
	Metadata        types.Pubkey
	Mint            types.Pubkey
	MintAuthority   types.Pubkey
	Payer           types.Pubkey
	UpdateAuthority types.Pubkey

	Name                 string
	Symbol               string
	URI                  string
	SellerFeeBasisPoints uint16
	Creators             []model.Creator
	Collection           *model.Collection
	IsMutable            bool
	CollectionDetails    *CollectionDetails
}

func CreateMetadataAccountV3(p CreateMetadataAccountV3Param) (sdktypes.Instruction, error) {
	args := createMetadataAccountV3Args{
		Instruction: metaCreateMetadataAccountV3,
		Data: metaDataV2{
			Name:                 p.Name,
			Symbol:               p.Symbol,
			Uri:                  p.URI,
			SellerFeeBasisPoints: p.SellerFeeBasisPoints,
		},
		IsMutable: p.IsMutable,
	}
	if len(p.Creators) > 0 {
		creators := make([]metaCreator, 0, len(p.Creators))
		for _, c := range p.Creators {
			creators = append(creators, metaCreator{Address: c.Address.ToCommon(), Verified: c.Verified, Share: c.Share})
		}
		args.Data.Creators = &creators
	}
	if p.Collection != nil {
		args.Data.Collection = &metaCollection{Verified: p.Collection.Verified, Key: p.Collection.Key.ToCommon()}
	}
	if p.CollectionDetails != nil {
		args.CollectionDetails = &metaCollectionDetails{Enum: 0, V1: metaCollectionDetailsV1{Size: p.CollectionDetails.Size}}
	}

	data, err := serializeArgs("create_metadata_account_v3", args)
	if err != nil {
		return sdktypes.Instruction{}, err
	}
	return sdktypes.Instruction{
		ProgramID: p.ProgramID.ToCommon(),
		Accounts: []sdktypes.AccountMeta{
			writable(p.Metadata),
			readonly(p.Mint),
			signer(p.MintAuthority),
			signerWritable(p.Payer),
			readonly(p.UpdateAuthority),
			readonly(consts.SystemProgram),
			readonly(consts.SysvarRent),
		},
		Data: data,
	}, nil
}

type CreateMasterEditionV3Param struct {
	ProgramID       types.Pubkey
	TokenProgram    types.Pubkey
	Edition         types.Pubkey
	Mint            types.Pubkey
	UpdateAuthority types.Pubkey
	MintAuthority   types.Pubkey
	Payer           types.Pubkey
	Metadata        types.Pubkey
	MaxSupply       *uint64 // nil 表示不限量
}

func CreateMasterEditionV3(p CreateMasterEditionV3Param) (sdktypes.Instruction, error) {
	data, err := serializeArgs("create_master_edition_v3", createMasterEditionV3Args{
		Instruction: metaCreateMasterEditionV3,
		MaxSupply:   p.MaxSupply,
	})
	if err != nil {
		return sdktypes.Instruction{}, err
	}
	return sdktypes.Instruction{
		ProgramID: p.ProgramID.ToCommon(),
		Accounts: []sdktypes.AccountMeta{
			writable(p.Edition),
			writable(p.Mint),
			signer(p.UpdateAuthority),
			signer(p.MintAuthority),
			signerWritable(p.Payer),
			writable(p.Metadata),
			readonly(p.TokenProgram),
			readonly(consts.SystemProgram),
			readonly(consts.SysvarRent),
		},
		Data: data,
	}, nil
}

type ApproveCollectionAuthorityParam struct {
	ProgramID                 types.Pubkey
	CollectionAuthorityRecord types.Pubkey
	NewCollectionAuthority    types.Pubkey
	UpdateAuthority           types.Pubkey
	Payer                     types.Pubkey
	Metadata                  types.Pubkey
	Mint                      types.Pubkey
}

// ApproveCollectionAuthority 授权 NewCollectionAuthority 代表合集验证条目
func ApproveCollectionAuthority(p ApproveCollectionAuthorityParam) sdktypes.Instruction {
	return sdktypes.Instruction{
		ProgramID: p.ProgramID.ToCommon(),
		Accounts: []sdktypes.AccountMeta{
			writable(p.CollectionAuthorityRecord),
			readonly(p.NewCollectionAuthority),
			signerWritable(p.UpdateAuthority),
			signerWritable(p.Payer),
			readonly(p.Metadata),
			readonly(p.Mint),
			readonly(consts.SystemProgram),
			readonly(consts.SysvarRent),
		},
		Data: []byte{metaApproveCollectionAuthority},
	}
}
