package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	sdktypes "github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadKeypairFromJSONFile(t *testing.T) {
	acc := sdktypes.NewAccount()
	ints := make([]int, len(acc.PrivateKey))
	for i, b := range acc.PrivateKey {
		ints[i] = int(b)
	}
	data, err := json.Marshal(ints)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "id.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	got, err := loadKeypair(path)
	require.NoError(t, err)
	assert.Equal(t, acc.PublicKey, got.PublicKey)
}

func TestLoadKeypairFromBase58(t *testing.T) {
	acc := sdktypes.NewAccount()
	got, err := loadKeypair(base58.Encode(acc.PrivateKey))
	require.NoError(t, err)
	assert.Equal(t, acc.PublicKey, got.PublicKey)
}

func TestLoadKeypairRejectsBadInput(t *testing.T) {
	_, err := loadKeypair("")
	assert.Error(t, err)

	_, err = loadKeypair("[1, 2, 300]")
	assert.ErrorContains(t, err, "out of range")

	_, err = loadKeypair("[1, 2, 3]")
	assert.Error(t, err)
}
