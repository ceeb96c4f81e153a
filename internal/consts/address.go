package consts

// Base58 地址常量（可读性高，适合配置与日志使用）
const (
	//  Programs
	SystemProgramStr          = "11111111111111111111111111111111"
	TokenProgramStr           = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	AssociatedTokenProgramStr = "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"
	TokenMetaProgramIdStr     = "metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s"
	SysvarRentStr             = "SysvarRent111111111111111111111111111111111"

	// Listings 市场程序
	ListingsProgramStr = "6anbDQNCcVh2f6okexjaX1VGj6tEnizJ1kV5UTBS8Zhi"

	// 压缩 NFT 程序；注册表派生中兼作"无币种"占位
	CnftProgramStr = "Borqy3dEjw9az7Uj9nW69A9ZDansFGHWEggUx7tkv44f"

	// Holder（商店的上级账户）派生参数
	DevnetHolderCreatorStr  = "AUH6c4QLMr2qQr9N5Kkpz5astDM9gBNroXCSxQiFTGQv"
	MainnetHolderCreatorStr = "DYougPS3ao5Ticdy5bFcKKcXgSjHVJ2yuwaMgxHpPoQr"

	// 全局商店账户，购买指令的附加账户
	DevnetGlobalStoreStr  = "GyPCu89S63P9NcCQAtuSJesiefhhgpGWrNVJs4bF2cSK"
	MainnetGlobalStoreStr = "AmQNs2kgw4LvS9sm6yE9JJ4Hs3JpVu65eyx9pxMG2xA"

	// 示例合集（devnet）
	DevnetSampleCollectionStr = "Dj91sSU6EErETscXj4mv4tMV6GM8HgJKFvqDqmq3F7Fz"
)
