package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/annel0/mine-game/internal/world/mine"
)

// zstdMagic - первые байты кадра zstd
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Codec сериализует mine.State в JSON и сжимает его zstd.
// Encoder и Decoder из klauspost/compress безопасны для параллельных EncodeAll/DecodeAll.
type Codec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewCodec создаёт кодек со скоростью сжатия по умолчанию
func NewCodec() (*Codec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	return &Codec{enc: enc, dec: dec}, nil
}

// Encode сериализует и сжимает снимок
func (c *Codec) Encode(state mine.State) ([]byte, error) {
	raw, err := encodeJSON(state)
	if err != nil {
		return nil, err
	}
	return c.enc.EncodeAll(raw, make([]byte, 0, len(raw)/4)), nil
}

// Decode распаковывает снимок. Несжатый JSON тоже принимается.
func (c *Codec) Decode(data []byte) (mine.State, error) {
	raw := data
	if bytes.HasPrefix(data, zstdMagic) {
		var err error
		raw, err = c.dec.DecodeAll(data, nil)
		if err != nil {
			return mine.State{}, fmt.Errorf("ошибка распаковки снимка: %w", err)
		}
	}
	return decodeJSON(raw)
}

// Close освобождает ресурсы кодека
func (c *Codec) Close() {
	c.enc.Close()
	c.dec.Close()
}

func encodeJSON(state mine.State) ([]byte, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации снимка %s: %w", state.Location, err)
	}
	return data, nil
}

func decodeJSON(data []byte) (mine.State, error) {
	var state mine.State
	if err := json.Unmarshal(data, &state); err != nil {
		return state, fmt.Errorf("ошибка десериализации снимка: %w", err)
	}
	return state, nil
}
