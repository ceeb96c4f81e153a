package svc

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"listings-sdk-sol/internal/config"
	"listings-sdk-sol/pkg/listings"
	"listings-sdk-sol/pkg/logger"
	"listings-sdk-sol/pkg/receipt"
	"listings-sdk-sol/pkg/transport"
	"listings-sdk-sol/pkg/upload"
)

const redisPingTimeout = 3 * time.Second

// ServiceContext 包含命令行运行所需的资源
type ServiceContext struct {
	Config    config.Config
	Transport *transport.RPCTransport
	Redis     redis.UniversalClient
	Journal   upload.Journal
	Publisher *receipt.KafkaPublisher
	Client    *listings.Client
}

// NewServiceContext 按配置初始化各组件；Redis / Kafka / 上传服务未配置时跳过
func NewServiceContext(c config.Config) (*ServiceContext, error) {
	sc := &ServiceContext{Config: c}

	// 1. 客户端配置
	cfg, err := c.ToListingsConfig()
	if err != nil {
		logger.Errorf("[Svc] listings 配置无效: %v", err)
		return nil, err
	}

	// 2. RPC 传输
	sc.Transport, err = transport.NewRPCTransport(c.RPC.ToRPCOption(c.Network))
	if err != nil {
		logger.Errorf("[Svc] RPC 初始化失败: %v", err)
		return nil, err
	}

	// 3. 上传服务
	var up upload.Uploader
	if c.Upload.Endpoint != "" {
		httpUploader, err := upload.NewHTTPUploader(c.Upload.ToHTTPOption())
		if err != nil {
			logger.Errorf("[Svc] 上传服务初始化失败: %v", err)
			return nil, err
		}
		up = httpUploader
	} else {
		logger.Warnf("[Svc] 未配置上传服务，创建合集与单品不可用")
	}

	opts := []listings.Option{}

	// 4. 上传会话记录（Redis）
	if c.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			_ = rdb.Close()
			logger.Errorf("[Svc] Redis 连接失败: %v", err)
			return nil, err
		}
		sc.Redis = rdb
		sc.Journal = upload.NewRedisJournal(rdb)
		opts = append(opts, listings.WithJournal(sc.Journal))
	}

	// 5. 回执投递（Kafka）
	if c.KafkaConf.Brokers != "" {
		producer, err := receipt.NewKafkaProducer(c.KafkaConf.ToKafkaOption())
		if err != nil {
			sc.Close()
			logger.Errorf("[Svc] Kafka producer 初始化失败: %v", err)
			return nil, err
		}
		sc.Publisher, err = receipt.NewKafkaPublisher(producer, c.KafkaConf.ToPublisherOption())
		if err != nil {
			producer.Close()
			sc.Close()
			return nil, err
		}
		opts = append(opts, listings.WithPublisher(sc.Publisher))
	}

	// 6. 客户端
	sc.Client, err = listings.New(cfg, sc.Transport, up, opts...)
	if err != nil {
		sc.Close()
		return nil, err
	}

	logger.Infof("[Svc] 服务上下文初始化完成: network=%s, journal=%v, receipts=%v", c.Network, sc.Journal != nil, sc.Publisher != nil)
	return sc, nil
}

// Close 关闭服务上下文中的资源
func (sc *ServiceContext) Close() {
	if sc.Publisher != nil {
		sc.Publisher.Close()
	}
	if sc.Redis != nil {
		_ = sc.Redis.Close()
	}
}
