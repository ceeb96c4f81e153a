package instructions

import (
	"fmt"

	sdktypes "github.com/blocto/solana-go-sdk/types"
	"github.com/near/borsh-go"

	"listings-sdk-sol/internal/consts"
	"listings-sdk-sol/pkg/codec"
	"listings-sdk-sol/pkg/model"
	"listings-sdk-sol/pkg/types"
)

// 市场程序指令判别码
var (
	CreateStoreDiscriminator       = codec.InstructionDiscriminator("create_store")
	CreateSingleDiscriminator      = codec.InstructionDiscriminator("create_single")
	RegisterCreatorDiscriminator   = codec.InstructionDiscriminator("register_creator")
	BuySingleDiscriminator         = codec.InstructionDiscriminator("buy_single")
	RegisterCollectorDiscriminator = codec.InstructionDiscriminator("register_collector")
)

func newArgs(disc codec.Discriminator) *codec.Encoder {
	e := codec.NewEncoder(256)
	e.FixedBytes(disc[:])
	return e
}

func build(programID types.Pubkey, accounts []sdktypes.AccountMeta, e *codec.Encoder) (sdktypes.Instruction, error) {
	data, err := e.Bytes()
	if err != nil {
		return sdktypes.Instruction{}, err
	}
	return sdktypes.Instruction{ProgramID: programID.ToCommon(), Accounts: accounts, Data: data}, nil
}

type CreateStoreParam struct {
	ProgramID types.Pubkey
	Holder    types.Pubkey
	Store     types.Pubkey
	Payer     types.Pubkey
	Name      string
	Config    model.StoreConfig
	StoreID   uint16
}

// CreateStore 参数：name, storeConfig, storeId
func CreateStore(p CreateStoreParam) (sdktypes.Instruction, error) {
	e := newArgs(CreateStoreDiscriminator)
	e.Str(p.Name)
	p.Config.EncodeTo(e)
	e.U16(p.StoreID)

	return build(p.ProgramID, []sdktypes.AccountMeta{
		writable(p.Holder),
		writable(p.Store),
		signerWritable(p.Payer),
		readonly(consts.SystemProgram),
	}, e)
}

type CreateSingleParam struct {
	ProgramID        types.Pubkey
	Store            types.Pubkey
	Item             types.Pubkey
	CreatorAuthority types.Pubkey
	ItemReserveList  types.Pubkey
	Creator          types.Pubkey
	Payer            types.Pubkey

	Supply        uint64
	ShortMetadata model.ShortMetadataArgs
	SaleConfig    model.SaleConfig
	Identifier    uint64
	Category      model.Category
	SuperCategory model.SuperCategory
	EventCategory uint16
	HashTraits    uint64
}

func CreateSingle(p CreateSingleParam) (sdktypes.Instruction, error) {
	e := newArgs(CreateSingleDiscriminator)
	e.U64(p.Supply)
	p.ShortMetadata.EncodeTo(e)
	p.SaleConfig.EncodeTo(e)
	e.U64(p.Identifier)
	p.Category.EncodeTo(e)
	p.SuperCategory.EncodeTo(e)
	e.U16(p.EventCategory)
	e.U64(p.HashTraits)

	return build(p.ProgramID, []sdktypes.AccountMeta{
		writable(p.Store),
		writable(p.Item),
		readonly(p.CreatorAuthority),
		readonly(p.ItemReserveList),
		signer(p.Creator),
		signerWritable(p.Payer),
		readonly(consts.SystemProgram),
	}, e)
}

// 只含定长字段的参数直接用 borsh-go 序列化；注意必须传值，传指针会多出 Option 前缀
type registerCreatorArgs struct {
	Discriminator    [8]byte
	UserActivityBump uint8
}

type buySingleArgs struct {
	Discriminator     [8]byte
	DistributionBumps []uint8
	Identifier        uint64
}

type registerCollectorArgs struct {
	Discriminator [8]byte
	CreatorBump   uint8
	ActivityBump  uint8
}

func serializeArgs(name string, args any) ([]byte, error) {
	data, err := borsh.Serialize(args)
	if err != nil {
		return nil, fmt.Errorf("serialize %s args: %w", name, err)
	}
	return data, nil
}

type RegisterCreatorParam struct {
	ProgramID        types.Pubkey
	CreatorRegistry  types.Pubkey
	UserActivity     types.Pubkey
	Item             types.Pubkey
	Store            types.Pubkey
	Payer            types.Pubkey
	UserActivityBump uint8
}

func RegisterCreator(p RegisterCreatorParam) (sdktypes.Instruction, error) {
	data, err := serializeArgs("register_creator", registerCreatorArgs{
		Discriminator:    RegisterCreatorDiscriminator,
		UserActivityBump: p.UserActivityBump,
	})
	if err != nil {
		return sdktypes.Instruction{}, err
	}
	return sdktypes.Instruction{
		ProgramID: p.ProgramID.ToCommon(),
		Accounts: []sdktypes.AccountMeta{
			writable(p.CreatorRegistry),
			writable(p.UserActivity),
			readonly(p.Item),
			readonly(p.Store),
			signerWritable(p.Payer),
			readonly(consts.SystemProgram),
		},
		Data: data,
	}, nil
}

type BuySingleParam struct {
	ProgramID    types.Pubkey
	Payment      types.Pubkey
	Item         types.Pubkey
	Pack         types.Pubkey
	BurnProgress types.Pubkey
	PoolVault    types.Pubkey
	Holder       types.Pubkey
	Owner        types.Pubkey
	Payer        types.Pubkey
	Store        types.Pubkey
	GlobalStore  types.Pubkey
	Creator      types.Pubkey
	Collection   types.Pubkey
	TokenProgram types.Pubkey

	DistributionBumps []uint8
	Identifier        uint64

	// 追加在固定账户之后的 remaining accounts
	ExtraAccounts []sdktypes.AccountMeta
}

func BuySingle(p BuySingleParam) (sdktypes.Instruction, error) {
	data, err := serializeArgs("buy_single", buySingleArgs{
		Discriminator:     BuySingleDiscriminator,
		DistributionBumps: p.DistributionBumps,
		Identifier:        p.Identifier,
	})
	if err != nil {
		return sdktypes.Instruction{}, err
	}

	accounts := make([]sdktypes.AccountMeta, 0, 14+len(p.ExtraAccounts))
	accounts = append(accounts,
		writable(p.Payment),
		writable(p.Item),
		writable(p.Pack),
		writable(p.BurnProgress),
		writable(p.PoolVault),
		writable(p.Holder),
		readonly(p.Owner),
		signerWritable(p.Payer),
		readonly(p.Store),
		writable(p.GlobalStore),
		writable(p.Creator),
		readonly(p.Collection),
		readonly(consts.SystemProgram),
		readonly(p.TokenProgram),
	)
	accounts = append(accounts, p.ExtraAccounts...)

	return sdktypes.Instruction{ProgramID: p.ProgramID.ToCommon(), Accounts: accounts, Data: data}, nil
}

type RegisterCollectorParam struct {
	ProgramID               types.Pubkey
	CollectorArtistRegistry types.Pubkey
	CollectorGlobalRegistry types.Pubkey
	UserActivity            types.Pubkey
	CreatorRegistry         types.Pubkey
	Store                   types.Pubkey
	Payer                   types.Pubkey
	CreatorBump             uint8
	ActivityBump            uint8
}

func RegisterCollector(p RegisterCollectorParam) (sdktypes.Instruction, error) {
	data, err := serializeArgs("register_collector", registerCollectorArgs{
		Discriminator: RegisterCollectorDiscriminator,
		CreatorBump:   p.CreatorBump,
		ActivityBump:  p.ActivityBump,
	})
	if err != nil {
		return sdktypes.Instruction{}, err
	}
	return sdktypes.Instruction{
		ProgramID: p.ProgramID.ToCommon(),
		Accounts: []sdktypes.AccountMeta{
			writable(p.CollectorArtistRegistry),
			writable(p.CollectorGlobalRegistry),
			writable(p.UserActivity),
			writable(p.CreatorRegistry),
			readonly(p.Store),
			signerWritable(p.Payer),
			readonly(consts.SystemProgram),
		},
		Data: data,
	}, nil
}
