package storage

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecCompressesAndRestores(t *testing.T) {
	codec, err := NewCodec()
	require.NoError(t, err)
	defer codec.Close()

	state := testState(t, "DeepMine", 5)
	data, err := codec.Encode(state)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, zstdMagic), "данные сжаты zstd")

	plain, err := json.Marshal(state)
	require.NoError(t, err)
	assert.Less(t, len(data), len(plain), "сжатие уменьшает снимок")

	got, err := codec.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, state, got)
}

func TestCodecAcceptsPlainJSON(t *testing.T) {
	codec, err := NewCodec()
	require.NoError(t, err)
	defer codec.Close()

	state := testState(t, "VillageMine", 6)
	plain, err := json.Marshal(state)
	require.NoError(t, err)

	got, err := codec.Decode(plain)
	require.NoError(t, err)
	assert.Equal(t, state.Layout.Rows, got.Layout.Rows)

	_, err = codec.Decode([]byte("мусор"))
	assert.Error(t, err)
	_, err = codec.Decode(append(append([]byte{}, zstdMagic...), 1, 2, 3))
	assert.Error(t, err)
}
