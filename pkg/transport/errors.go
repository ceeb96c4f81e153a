package transport

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAccountAlreadyExists 目标账户已被占用（通常是随机 ID 撞车），换 ID 重试即可
	ErrAccountAlreadyExists = errors.New("account already exists")
	ErrConfirmTimeout       = errors.New("transaction confirmation timeout")
)

// TransportError 网络或 RPC 层失败
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("rpc %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError 交易被链上程序拒绝（预执行或执行失败），保留程序日志
type ProtocolError struct {
	Signature string
	Message   string
	Logs      []string
}

func (e *ProtocolError) Error() string {
	var b strings.Builder
	b.WriteString("transaction rejected")
	if e.Signature != "" {
		b.WriteString(" (")
		b.WriteString(e.Signature)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if len(e.Logs) > 0 {
		b.WriteString("\nlogs:\n  ")
		b.WriteString(strings.Join(e.Logs, "\n  "))
	}
	return b.String()
}

func (e *ProtocolError) Is(target error) bool {
	return target == ErrAccountAlreadyExists && e.accountInUse()
}

func (e *ProtocolError) accountInUse() bool {
	if strings.Contains(e.Message, "already in use") {
		return true
	}
	for _, l := range e.Logs {
		if strings.Contains(l, "already in use") {
			return true
		}
	}
	return false
}
