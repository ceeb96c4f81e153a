package codec

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
	"unicode/utf8"

	"listings-sdk-sol/pkg/types"
)

// Encoder 与 Decoder 对称；写入失败同样只保留第一个错误
type Encoder struct {
	buf []byte
	err error
}

func NewEncoder(capacity int) *Encoder {
	return &Encoder{buf: make([]byte, 0, capacity)}
}

// Fail 记录编码错误（仅保留第一个），供联合类型报告非法变体
func (e *Encoder) Fail(kind error, detail string) {
	e.fail(kind, detail)
}

func (e *Encoder) fail(kind error, detail string) {
	if e.err == nil {
		e.err = &Error{Op: "encode", Kind: kind, Offset: len(e.buf), Detail: detail}
	}
}

// Bytes 返回编码结果，有错误时结果为 nil
func (e *Encoder) Bytes() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.buf, nil
}

func (e *Encoder) Err() error {
	return e.err
}

func (e *Encoder) U8(v uint8) {
	e.buf = append(e.buf, v)
}

func (e *Encoder) U16(v uint16) {
	e.buf = binary.LittleEndian.AppendUint16(e.buf, v)
}

func (e *Encoder) U32(v uint32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
}

func (e *Encoder) U64(v uint64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, v)
}

func (e *Encoder) I64(v int64) {
	e.U64(uint64(v))
}

// U128 nil 视为 0；负数或超过 128 位报 ErrValueOverflow
func (e *Encoder) U128(v *big.Int) {
	var le [16]byte
	if v != nil {
		if v.Sign() < 0 || v.BitLen() > 128 {
			e.fail(ErrValueOverflow, fmt.Sprintf("u128 %s", v.String()))
			return
		}
		be := v.Bytes()
		for i := 0; i < len(be); i++ {
			le[i] = be[len(be)-1-i]
		}
	}
	e.buf = append(e.buf, le[:]...)
}

func (e *Encoder) Bool(v bool) {
	if v {
		e.U8(1)
	} else {
		e.U8(0)
	}
}

func (e *Encoder) Pubkey(p types.Pubkey) {
	e.buf = append(e.buf, p[:]...)
}

func (e *Encoder) FixedBytes(b []byte) {
	e.buf = append(e.buf, b...)
}

func (e *Encoder) Str(s string) {
	if !utf8.ValidString(s) {
		e.fail(ErrInvalidUTF8, "")
		return
	}
	if !e.VecLen(len(s)) {
		return
	}
	e.buf = append(e.buf, s...)
}

// VecLen 写入 u32 长度前缀，超出 u32 时返回 false
func (e *Encoder) VecLen(n int) bool {
	if n < 0 || uint64(n) > math.MaxUint32 {
		e.fail(ErrValueOverflow, fmt.Sprintf("length %d", n))
		return false
	}
	e.U32(uint32(n))
	return true
}

func (e *Encoder) Tag(t uint8) {
	e.U8(t)
}

func (e *Encoder) Option(present bool) {
	e.Bool(present)
}
