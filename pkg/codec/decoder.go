package codec

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"unicode/utf8"

	"listings-sdk-sol/pkg/types"
)

// Decoder 顺序读取 borsh 布局；遇到第一个错误后所有读取返回零值，最终通过 Err 取回
type Decoder struct {
	buf []byte
	off int
	err error
}

func NewDecoder(data []byte) *Decoder {
	return &Decoder{buf: data}
}

func (d *Decoder) Err() error {
	return d.err
}

func (d *Decoder) Offset() int {
	return d.off
}

func (d *Decoder) Remaining() int {
	return len(d.buf) - d.off
}

// Fail 记录错误（仅保留第一个），供记录类型报告自身的结构错误
func (d *Decoder) Fail(kind error, detail string) {
	if d.err != nil {
		return
	}
	d.err = &Error{Op: "decode", Kind: kind, Offset: d.off, Detail: detail}
}

func (d *Decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || d.Remaining() < n {
		d.Fail(ErrTruncated, fmt.Sprintf("need %d bytes, have %d", n, d.Remaining()))
		return nil
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b
}

func (d *Decoder) U8() uint8 {
	b := d.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (d *Decoder) U16() uint16 {
	b := d.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (d *Decoder) U32() uint32 {
	b := d.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (d *Decoder) U64() uint64 {
	b := d.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (d *Decoder) I64() int64 {
	return int64(d.U64())
}

// U128 读取 16 字节小端无符号整数
func (d *Decoder) U128() *big.Int {
	b := d.take(16)
	if b == nil {
		return new(big.Int)
	}
	var be [16]byte
	zero := true
	for i := 0; i < 16; i++ {
		be[15-i] = b[i]
		zero = zero && b[i] == 0
	}
	if zero {
		return new(big.Int)
	}
	return new(big.Int).SetBytes(be[:])
}

func (d *Decoder) Bool() bool {
	at := d.off
	v := d.U8()
	if d.err != nil {
		return false
	}
	switch v {
	case 0:
		return false
	case 1:
		return true
	default:
		d.err = &Error{Op: "decode", Kind: ErrInvalidBool, Offset: at, Detail: fmt.Sprintf("got %d", v)}
		return false
	}
}

func (d *Decoder) Pubkey() types.Pubkey {
	var p types.Pubkey
	d.FixedBytes(p[:])
	return p
}

func (d *Decoder) FixedBytes(dst []byte) {
	b := d.take(len(dst))
	if b != nil {
		copy(dst, b)
	}
}

// Str 读取 u32 长度前缀的 UTF-8 字符串
func (d *Decoder) Str() string {
	n := d.U32()
	if d.err != nil {
		return ""
	}
	at := d.off
	b := d.take(int(n))
	if b == nil {
		return ""
	}
	if !utf8.Valid(b) {
		d.err = &Error{Op: "decode", Kind: ErrInvalidUTF8, Offset: at}
		return ""
	}
	return string(b)
}

// VecLen 读取 u32 元素个数；剩余字节装不下 count*minElemSize 时直接判定截断，避免按伪造的长度分配内存
func (d *Decoder) VecLen(minElemSize int) int {
	n := d.U32()
	if d.err != nil {
		return 0
	}
	if minElemSize < 1 {
		minElemSize = 1
	}
	if uint64(n)*uint64(minElemSize) > uint64(d.Remaining()) {
		d.Fail(ErrTruncated, fmt.Sprintf("vec of %d elements does not fit in %d bytes", n, d.Remaining()))
		return 0
	}
	return int(n)
}

// Tag 读取 tagged union 的变体序号；序号 >= variants 时报 ErrUnknownTag
func (d *Decoder) Tag(union string, variants int) (uint8, bool) {
	at := d.off
	t := d.U8()
	if d.err != nil {
		return 0, false
	}
	if int(t) >= variants {
		d.err = &Error{Op: "decode", Kind: ErrUnknownTag, Offset: at, Detail: fmt.Sprintf("%s tag %d", union, t)}
		return 0, false
	}
	return t, true
}

// Option 读取可选值的存在标记
func (d *Decoder) Option() bool {
	t, ok := d.Tag("Option", 2)
	return ok && t == 1
}
