package codec

import (
	"bytes"
	"crypto/sha256"
	"fmt"
)

const DiscriminatorSize = 8

// Discriminator 账户 / 指令前 8 字节的类型标识
type Discriminator [DiscriminatorSize]byte

func sighash(namespace, name string) Discriminator {
	sum := sha256.Sum256([]byte(namespace + ":" + name))
	var d Discriminator
	copy(d[:], sum[:DiscriminatorSize])
	return d
}

// AccountDiscriminator sha256("account:<Name>")[:8]
func AccountDiscriminator(name string) Discriminator {
	return sighash("account", name)
}

// InstructionDiscriminator sha256("global:<snake_name>")[:8]
func InstructionDiscriminator(name string) Discriminator {
	return sighash("global", name)
}

// CheckDiscriminator 校验 data 前 8 字节
func CheckDiscriminator(data []byte, want Discriminator) error {
	if len(data) < DiscriminatorSize {
		return &Error{Op: "decode", Kind: ErrTruncated, Detail: fmt.Sprintf("discriminator needs %d bytes, have %d", DiscriminatorSize, len(data))}
	}
	if !bytes.Equal(data[:DiscriminatorSize], want[:]) {
		return &Error{Op: "decode", Kind: ErrDiscriminatorMismatch, Detail: fmt.Sprintf("got %v want %v", data[:DiscriminatorSize], want[:])}
	}
	return nil
}
