package codec

import (
	"errors"
	"fmt"
)

// 结构性错误类别，统一用 errors.Is 判断
var (
	ErrTruncated             = errors.New("buffer truncated")
	ErrDiscriminatorMismatch = errors.New("invalid account discriminator")
	ErrUnknownTag            = errors.New("invalid enum object")
	ErrInvalidUTF8           = errors.New("invalid utf-8 string")
	ErrInvalidBool           = errors.New("invalid bool value")
	ErrValueOverflow         = errors.New("value out of range")
)

// Error 记录出错位置；Kind 为上面的哨兵错误之一
type Error struct {
	Op     string // encode / decode
	Kind   error
	Offset int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("codec %s: %v at offset %d", e.Op, e.Kind, e.Offset)
	}
	return fmt.Sprintf("codec %s: %v at offset %d: %s", e.Op, e.Kind, e.Offset, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Kind
}
