package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"listings-sdk-sol/internal/consts"
	"listings-sdk-sol/pkg/listings"
	"listings-sdk-sol/pkg/logger"
	"listings-sdk-sol/pkg/receipt"
	"listings-sdk-sol/pkg/transport"
	"listings-sdk-sol/pkg/types"
	"listings-sdk-sol/pkg/upload"
)

type LogConfig struct {
	Format   string `json:"format,optional" yaml:"format"`     // 日志格式，支持 "console" 或 "json"
	LogDir   string `json:"log_dir,optional" yaml:"log_dir"`   // 日志目录（可为相对路径或绝对路径）
	Level    string `json:"level,optional" yaml:"level"`       // 日志级别：debug / info / warn / error
	Compress bool   `json:"compress,optional" yaml:"compress"` // 是否压缩旧日志文件
}

func (c *LogConfig) ToLogOption() logger.LogOption {
	return logger.LogOption{
		Format:   c.Format,
		LogDir:   c.LogDir,
		Level:    c.Level,
		Compress: c.Compress,
	}
}

// RPCConfig 表示 Solana JSON-RPC 节点配置
type RPCConfig struct {
	Endpoint          string  `json:"endpoint,optional" yaml:"endpoint"`                       // 为空时按 network 使用公共节点
	RequestsPerSecond float64 `json:"requests_per_second,optional" yaml:"requests_per_second"` // 每秒请求上限
	Burst             int     `json:"burst,optional" yaml:"burst"`                             // 令牌桶容量
	ConfirmTimeoutMs  int     `json:"confirm_timeout_ms,optional" yaml:"confirm_timeout_ms"`   // 等待交易确认的超时（毫秒）
	PollIntervalMs    int     `json:"poll_interval_ms,optional" yaml:"poll_interval_ms"`       // 查询签名状态的间隔（毫秒）
}

func (c *RPCConfig) ToRPCOption(network string) transport.RPCOption {
	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = consts.DefaultEndpoint(network)
	}
	return transport.RPCOption{
		Endpoint:          endpoint,
		RequestsPerSecond: c.RequestsPerSecond,
		Burst:             c.Burst,
		ConfirmTimeout:    time.Duration(c.ConfirmTimeoutMs) * time.Millisecond,
		PollInterval:      time.Duration(c.PollIntervalMs) * time.Millisecond,
	}
}

// UploadConfig 表示上传服务配置
type UploadConfig struct {
	Endpoint  string `json:"endpoint,optional" yaml:"endpoint"`     // 上传服务地址，例如 http://upload.service.local
	TimeoutMs int    `json:"timeout_ms,optional" yaml:"timeout_ms"` // 单次请求超时（毫秒）
}

func (c *UploadConfig) ToHTTPOption() upload.HTTPOption {
	return upload.HTTPOption{
		Endpoint: c.Endpoint,
		Timeout:  time.Duration(c.TimeoutMs) * time.Millisecond,
	}
}

// RedisConfig 上传会话记录；Addr 为空时不记录
type RedisConfig struct {
	Addr     string `json:"addr,optional" yaml:"addr"`
	Password string `json:"password,optional" yaml:"password"`
	DB       int    `json:"db,optional" yaml:"db"`
}

// KafkaProducerConfig 表示回执投递的 Kafka 配置；Brokers 为空时不投递
type KafkaProducerConfig struct {
	Brokers       string `json:"brokers,optional" yaml:"brokers"`                 // Kafka broker 地址，多个用英文逗号分隔
	BatchSize     int    `json:"batch_size,optional" yaml:"batch_size"`           // 批处理大小（单位字节）
	LingerMs      int    `json:"linger_ms,optional" yaml:"linger_ms"`             // 批处理最大延迟（毫秒）
	Topic         string `json:"topic,optional" yaml:"topic"`                     // 回执 topic
	Partitions    int    `json:"partitions,optional" yaml:"partitions"`           // topic 分区数
	SendTimeoutMs int    `json:"send_timeout_ms,optional" yaml:"send_timeout_ms"` // 单条回执等待 ack 的超时（毫秒）
}

func (c *KafkaProducerConfig) ToKafkaOption() receipt.KafkaProducerOption {
	return receipt.KafkaProducerOption{
		Brokers:    c.Brokers,
		BatchSize:  c.BatchSize,
		LingerMs:   c.LingerMs,
		Topic:      c.Topic,
		Partitions: c.Partitions,
	}
}

func (c *KafkaProducerConfig) ToPublisherOption() receipt.KafkaPublisherOption {
	return receipt.KafkaPublisherOption{
		Topic:             c.Topic,
		Partitions:        c.Partitions,
		PerMessageTimeout: time.Duration(c.SendTimeoutMs) * time.Millisecond,
	}
}

// ExtraAccountConfig 购买指令追加的账户
type ExtraAccountConfig struct {
	Pubkey   string `json:"pubkey" yaml:"pubkey"`
	Signer   bool   `json:"signer,optional" yaml:"signer"`
	Writable bool   `json:"writable,optional" yaml:"writable"`
}

// ProgramConfig 覆盖网络预设中的地址，留空沿用预设
type ProgramConfig struct {
	Listings      string               `json:"listings,optional" yaml:"listings"`
	HolderCreator string               `json:"holder_creator,optional" yaml:"holder_creator"`
	GlobalStore   string               `json:"global_store,optional" yaml:"global_store"`
	NoCurrency    string               `json:"no_currency,optional" yaml:"no_currency"`
	ExtraAccounts []ExtraAccountConfig `json:"extra_accounts,optional" yaml:"extra_accounts"`
}

// Config 是主配置结构体，用于驱动 listings 命令行
type Config struct {
	Network     string              `json:"network,default=devnet" yaml:"network"` // devnet / mainnet-beta
	LogConf     LogConfig           `json:"logger,optional" yaml:"logger"`          // 日志配置
	RPC         RPCConfig           `json:"rpc,optional" yaml:"rpc"`                // 节点配置
	Upload      UploadConfig        `json:"upload,optional" yaml:"upload"`          // 上传服务配置
	Redis       RedisConfig         `json:"redis,optional" yaml:"redis"`            // 上传会话记录
	KafkaConf   KafkaProducerConfig `json:"kafka_producer,optional" yaml:"kafka_producer"`
	Programs    ProgramConfig       `json:"programs,optional" yaml:"programs"`
	MetricsAddr string              `json:"metrics_addr,optional" yaml:"metrics_addr"` // Prometheus 指标监听地址，为空不启动
}

// Load 用 yaml.v3 读取配置文件，供嵌入 SDK 的程序使用
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if c.Network == "" {
		c.Network = consts.NetworkDevnet
	}
	return c, nil
}

func parseKey(field, s string) (types.Pubkey, error) {
	k, err := types.TryPubkeyFromBase58(s)
	if err != nil {
		return types.Pubkey{}, fmt.Errorf("programs.%s: %w", field, err)
	}
	return k, nil
}

// ToListingsConfig 以网络预设为基础，叠加配置中的覆盖项
func (c *Config) ToListingsConfig() (listings.Config, error) {
	cfg, err := listings.NetworkConfig(c.Network)
	if err != nil {
		return listings.Config{}, err
	}

	p := c.Programs
	if p.Listings != "" {
		if cfg.Programs.Listings, err = parseKey("listings", p.Listings); err != nil {
			return listings.Config{}, err
		}
		cfg.ItemReserveList = cfg.Programs.Listings
	}
	if p.HolderCreator != "" {
		if cfg.Holder.Creator, err = parseKey("holder_creator", p.HolderCreator); err != nil {
			return listings.Config{}, err
		}
	}
	if p.GlobalStore != "" {
		if cfg.GlobalStore, err = parseKey("global_store", p.GlobalStore); err != nil {
			return listings.Config{}, err
		}
		cfg.ExtraAccounts = []listings.ExtraAccount{{Pubkey: cfg.GlobalStore, IsWritable: true}}
	}
	if p.NoCurrency != "" {
		if cfg.NoCurrency, err = parseKey("no_currency", p.NoCurrency); err != nil {
			return listings.Config{}, err
		}
	}
	if len(p.ExtraAccounts) > 0 {
		extra := make([]listings.ExtraAccount, 0, len(p.ExtraAccounts))
		for i, a := range p.ExtraAccounts {
			k, err := parseKey(fmt.Sprintf("extra_accounts[%d]", i), a.Pubkey)
			if err != nil {
				return listings.Config{}, err
			}
			extra = append(extra, listings.ExtraAccount{Pubkey: k, IsSigner: a.Signer, IsWritable: a.Writable})
		}
		cfg.ExtraAccounts = extra
	}
	return cfg, nil
}
