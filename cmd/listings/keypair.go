package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	sdktypes "github.com/blocto/solana-go-sdk/types"
)

// loadKeypair 支持 solana-keygen 的 JSON 数组文件，或直接给出 base58 私钥
func loadKeypair(value string) (sdktypes.Account, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return sdktypes.Account{}, errors.New("keypair is empty")
	}
	raw := value
	if data, err := os.ReadFile(value); err == nil {
		raw = strings.TrimSpace(string(data))
	}
	if strings.HasPrefix(raw, "[") {
		var bytes []byte
		var ints []int
		if err := json.Unmarshal([]byte(raw), &ints); err != nil {
			return sdktypes.Account{}, fmt.Errorf("parse keypair json: %w", err)
		}
		for i, v := range ints {
			if v < 0 || v > 255 {
				return sdktypes.Account{}, fmt.Errorf("keypair byte %d out of range: %d", i, v)
			}
			bytes = append(bytes, byte(v))
		}
		return sdktypes.AccountFromBytes(bytes)
	}
	return sdktypes.AccountFromBase58(raw)
}
