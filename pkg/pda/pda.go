package pda

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"filippo.io/edwards25519"

	"listings-sdk-sol/pkg/types"
)

const (
	MaxSeedLength = 32
	MaxSeeds      = 16
	pdaMarker     = "ProgramDerivedAddress"
)

var (
	ErrMaxSeedLength = errors.New("seed exceeds 32 bytes")
	ErrTooManySeeds  = errors.New("too many seeds")
	ErrOnCurve       = errors.New("derived address lies on the ed25519 curve")
	ErrNoViableBump  = errors.New("no viable bump seed")
)

// Address 派生结果：地址 + 使其落在曲线外的 bump
type Address struct {
	Key  types.Pubkey
	Bump uint8
}

func (a Address) String() string {
	return a.Key.String()
}

// IsOnCurve 判断 32 字节是否为合法的 ed25519 点编码
func IsOnCurve(p types.Pubkey) bool {
	_, err := new(edwards25519.Point).SetBytes(p[:])
	return err == nil
}

func checkSeeds(seeds [][]byte, reserved int) error {
	if len(seeds)+reserved > MaxSeeds {
		return fmt.Errorf("%w: %d", ErrTooManySeeds, len(seeds)+reserved)
	}
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return fmt.Errorf("%w: seed[%d] has %d bytes", ErrMaxSeedLength, i, len(s))
		}
	}
	return nil
}

func hashSeeds(seeds [][]byte, programID types.Pubkey) types.Pubkey {
	h := sha256.New()
	for _, s := range seeds {
		h.Write(s)
	}
	h.Write(programID[:])
	h.Write([]byte(pdaMarker))
	var out types.Pubkey
	copy(out[:], h.Sum(nil))
	return out
}

// CreateProgramAddress 按给定种子（已含 bump）直接计算地址，结果在曲线上时报 ErrOnCurve
func CreateProgramAddress(seeds [][]byte, programID types.Pubkey) (types.Pubkey, error) {
	if err := checkSeeds(seeds, 0); err != nil {
		return types.Pubkey{}, err
	}
	addr := hashSeeds(seeds, programID)
	if IsOnCurve(addr) {
		return types.Pubkey{}, ErrOnCurve
	}
	return addr, nil
}

// FindProgramAddress 从 255 递减尝试 bump，返回第一个落在曲线外的地址
func FindProgramAddress(seeds [][]byte, programID types.Pubkey) (Address, error) {
	if err := checkSeeds(seeds, 1); err != nil {
		return Address{}, err
	}
	buf := make([][]byte, len(seeds)+1)
	copy(buf, seeds)
	bump := []byte{0}
	buf[len(seeds)] = bump
	for b := 255; b >= 0; b-- {
		bump[0] = uint8(b)
		addr := hashSeeds(buf, programID)
		if !IsOnCurve(addr) {
			return Address{Key: addr, Bump: uint8(b)}, nil
		}
	}
	return Address{}, ErrNoViableBump
}
