package receipt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"google.golang.org/protobuf/types/known/structpb"

	"listings-sdk-sol/pkg/logger"
	"listings-sdk-sol/pkg/types"
)

// Type 回执类型，写在消息前缀里
type Type uint32

const (
	TypeUnknown Type = iota
	TypeStoreCreated
	TypeCollectionCreated
	TypeItemCreated
	TypeItemPurchased
)

func (t Type) String() string {
	switch t {
	case TypeStoreCreated:
		return "store_created"
	case TypeCollectionCreated:
		return "collection_created"
	case TypeItemCreated:
		return "item_created"
	case TypeItemPurchased:
		return "item_purchased"
	default:
		return "unknown"
	}
}

// Receipt 一次已确认工作流的结果
type Receipt struct {
	Type      Type
	Signature string
	Payer     types.Pubkey
	Accounts  map[string]types.Pubkey // 派生出的关键地址，按角色命名
	Fields    map[string]any          // 其它业务字段，需为 structpb 可表示的类型
	At        time.Time
}

// ToStruct 转换为 protobuf Struct
func (r *Receipt) ToStruct() (*structpb.Struct, error) {
	m := make(map[string]any, len(r.Fields)+5)
	for k, v := range r.Fields {
		m[k] = v
	}
	accounts := make(map[string]any, len(r.Accounts))
	for role, k := range r.Accounts {
		accounts[role] = k.String()
	}
	m["type"] = r.Type.String()
	m["signature"] = r.Signature
	m["payer"] = r.Payer.String()
	m["accounts"] = accounts
	m["at"] = r.At.Unix()
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("receipt to struct: %w", err)
	}
	return s, nil
}

// Publisher 发布回执；发布失败不影响已上链的交易
type Publisher interface {
	Publish(ctx context.Context, r *Receipt) error
}

// NopPublisher 丢弃所有回执
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *Receipt) error { return nil }

type KafkaPublisherOption struct {
	Topic             string
	Partitions        int
	PerMessageTimeout time.Duration
}

// KafkaPublisher 按付款人公钥分区，同一付款人的回执保持顺序
type KafkaPublisher struct {
	producer   *kafka.Producer
	topic      string
	partitions uint32
	timeout    time.Duration
}

func NewKafkaPublisher(producer *kafka.Producer, opt KafkaPublisherOption) (*KafkaPublisher, error) {
	if producer == nil {
		return nil, errors.New("kafka producer is nil")
	}
	if opt.Topic == "" {
		return nil, errors.New("receipt topic is empty")
	}
	timeout := opt.PerMessageTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	partitions := opt.Partitions
	if partitions < 0 {
		partitions = 0
	}
	return &KafkaPublisher{
		producer:   producer,
		topic:      opt.Topic,
		partitions: uint32(partitions),
		timeout:    timeout,
	}, nil
}

func (p *KafkaPublisher) partitionFor(payer types.Pubkey) int32 {
	if p.partitions == 0 {
		return kafka.PartitionAny
	}
	return int32(PartitionHashBytes(payer[:], p.partitions))
}

func (p *KafkaPublisher) Publish(ctx context.Context, r *Receipt) error {
	s, err := r.ToStruct()
	if err != nil {
		return err
	}
	value, err := Encode(r.Type, s)
	if err != nil {
		return err
	}

	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &p.topic, Partition: p.partitionFor(r.Payer)},
		Key:            r.Payer.Bytes(),
		Value:          value,
	}
	if err := deliver(ctx, p.producer, msg, p.timeout); err != nil {
		logger.Warnf("[Receipt] 回执发送失败: type=%s, sig=%s, err=%v", r.Type, r.Signature, err)
		return fmt.Errorf("publish receipt %s: %w", r.Signature, err)
	}
	return nil
}

// Close 关闭前等待未完成的投递
func (p *KafkaPublisher) Close() {
	p.producer.Flush(5000)
	p.producer.Close()
}
