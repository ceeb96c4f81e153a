package receipt

import (
	"encoding/binary"
	"errors"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const typePrefixSize = 4

var ErrShortFrame = errors.New("receipt frame too short")

// Encode 前 4 字节为回执类型（小端），后面是确定性 protobuf 编码
func Encode(t Type, msg proto.Message) ([]byte, error) {
	const extraBuffer = 32

	size := proto.Size(msg)
	buf := make([]byte, typePrefixSize, typePrefixSize+size+extraBuffer)
	binary.LittleEndian.PutUint32(buf[:typePrefixSize], uint32(t))

	opts := proto.MarshalOptions{Deterministic: true}
	result, err := opts.MarshalAppend(buf, msg)
	if err != nil {
		return nil, fmt.Errorf("encode receipt: marshal %T: %w", msg, err)
	}
	return result, nil
}

// Decode 解析 Encode 的输出
func Decode(b []byte) (Type, *structpb.Struct, error) {
	if len(b) < typePrefixSize {
		return 0, nil, ErrShortFrame
	}
	t := Type(binary.LittleEndian.Uint32(b[:typePrefixSize]))
	var s structpb.Struct
	if err := proto.Unmarshal(b[typePrefixSize:], &s); err != nil {
		return 0, nil, fmt.Errorf("decode receipt: %w", err)
	}
	return t, &s, nil
}

// PartitionHashBytes 取公钥中的 4 个字节拼成 uint32 再取模；非加密哈希，只用于分区
func PartitionHashBytes(b []byte, mod uint32) uint32 {
	if len(b) < 28 || mod == 0 {
		return 0
	}
	hash := uint32(b[7])<<24 | uint32(b[15])<<16 | uint32(b[19])<<8 | uint32(b[27])
	return hash % mod
}
