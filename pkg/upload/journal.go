package upload

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionState 上传会话状态
type SessionState string

const (
	SessionReserved  SessionState = "reserved"  // 已分配 ID，尚未上传
	SessionUploaded  SessionState = "uploaded"  // 已上传，交易未确认
	SessionSubmitted SessionState = "submitted" // 交易已发送但确认超时，需重新探测签名
	SessionConfirmed SessionState = "confirmed" // 交易已确认，等待 finalize
	SessionFinalized SessionState = "finalized"
	SessionAbandoned SessionState = "abandoned" // 交易失败，上传成为孤儿
)

// Redis key 前缀
const (
	sessionPrefix = "listings:upload:session"
	pendingKey    = "listings:upload:pending"
)

const sessionTTL = 7 * 24 * time.Hour

var ErrSessionNotFound = errors.New("upload session not found")

// Session 会话记录
type Session struct {
	ID         string
	Workflow   string
	Payer      string
	State      SessionState
	ContentURL string
	Signature  string
	Reason     string
	UpdatedAt  time.Time
}

// Journal 记录上传会话的两阶段状态，进程重启后可据此补做 finalize
type Journal interface {
	Reserve(ctx context.Context, workflow, payer string) (string, error)
	MarkUploaded(ctx context.Context, id, contentURL string) error
	MarkSubmitted(ctx context.Context, id, signature string) error
	MarkConfirmed(ctx context.Context, id, signature string) error
	MarkFinalized(ctx context.Context, id string) error
	MarkAbandoned(ctx context.Context, id, reason string) error
	Get(ctx context.Context, id string) (*Session, error)
	Pending(ctx context.Context) ([]string, error)
}

// NewSessionID 生成上传会话 ID
func NewSessionID() string {
	return uuid.NewString()
}

// RedisJournal 每个会话一个 hash，未 finalize 的会话 ID 放在 pending 集合里
type RedisJournal struct {
	rdb redis.UniversalClient
}

func NewRedisJournal(rdb redis.UniversalClient) *RedisJournal {
	return &RedisJournal{rdb: rdb}
}

func (j *RedisJournal) getKey(id string) string {
	return fmt.Sprintf("%s:%s", sessionPrefix, id)
}

// Reserve 分配会话 ID 并记录为 reserved
func (j *RedisJournal) Reserve(ctx context.Context, workflow, payer string) (string, error) {
	id := NewSessionID()
	key := j.getKey(id)
	_, err := j.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			"workflow", workflow,
			"payer", payer,
			"state", string(SessionReserved),
			"updated_at", time.Now().Unix(),
		)
		pipe.Expire(ctx, key, sessionTTL)
		pipe.SAdd(ctx, pendingKey, id)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("redis reserve session error: %w", err)
	}
	return id, nil
}

func (j *RedisJournal) MarkUploaded(ctx context.Context, id, contentURL string) error {
	return j.update(ctx, id, SessionUploaded, "content_url", contentURL)
}

// MarkSubmitted 记录签名但保留在 pending 中，交易是否落地未知
func (j *RedisJournal) MarkSubmitted(ctx context.Context, id, signature string) error {
	return j.update(ctx, id, SessionSubmitted, "signature", signature)
}

func (j *RedisJournal) MarkConfirmed(ctx context.Context, id, signature string) error {
	return j.update(ctx, id, SessionConfirmed, "signature", signature)
}

// MarkFinalized 终态，移出 pending
func (j *RedisJournal) MarkFinalized(ctx context.Context, id string) error {
	return j.update(ctx, id, SessionFinalized)
}

// MarkAbandoned 终态，移出 pending
func (j *RedisJournal) MarkAbandoned(ctx context.Context, id, reason string) error {
	return j.update(ctx, id, SessionAbandoned, "reason", reason)
}

func (j *RedisJournal) update(ctx context.Context, id string, state SessionState, fields ...any) error {
	key := j.getKey(id)
	values := append([]any{"state", string(state), "updated_at", time.Now().Unix()}, fields...)
	_, err := j.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, values...)
		pipe.Expire(ctx, key, sessionTTL)
		if state == SessionFinalized || state == SessionAbandoned {
			pipe.SRem(ctx, pendingKey, id)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis mark session %s error: %w", state, err)
	}
	return nil
}

func (j *RedisJournal) Get(ctx context.Context, id string) (*Session, error) {
	m, err := j.rdb.HGetAll(ctx, j.getKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis get session error: %w", err)
	}
	if len(m) == 0 {
		return nil, ErrSessionNotFound
	}
	s := &Session{
		ID:         id,
		Workflow:   m["workflow"],
		Payer:      m["payer"],
		State:      SessionState(m["state"]),
		ContentURL: m["content_url"],
		Signature:  m["signature"],
		Reason:     m["reason"],
	}
	if ts, err := strconv.ParseInt(m["updated_at"], 10, 64); err == nil {
		s.UpdatedAt = time.Unix(ts, 0)
	}
	return s, nil
}

// Pending 未到终态的会话；hash 过期后集合里可能残留 ID，调用方 Get 时会拿到 ErrSessionNotFound
func (j *RedisJournal) Pending(ctx context.Context) ([]string, error) {
	ids, err := j.rdb.SMembers(ctx, pendingKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list pending sessions error: %w", err)
	}
	return ids, nil
}
