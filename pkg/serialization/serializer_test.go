package serialization

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	ID    string         `json:"id" msgpack:"id"`
	State map[string]any `json:"state" msgpack:"state"`
	At    time.Time      `json:"at" msgpack:"at"`
}

func samplePayload() payload {
	return payload{
		ID: "cp-1",
		State: map[string]any{
			"analysis": "long enough text to make compression worthwhile",
			"nested":   map[string]any{"score": 0.75},
		},
		At: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
	}
}

func TestSerializer_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		s    *Serializer
	}{
		{"msgpack plain", New(MsgPackCodec{})},
		{"msgpack zstd", New(MsgPackCodec{}, WithCompression(CompressionZstd))},
		{"msgpack gzip", New(MsgPackCodec{}, WithCompression(CompressionGzip))},
		{"json plain", New(JSONCodec{})},
		{"json zstd", New(JSONCodec{}, WithCompression(CompressionZstd))},
		{"default", Default()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := samplePayload()
			data, err := tt.s.Marshal(in)
			require.NoError(t, err)
			require.NotEmpty(t, data)

			var out payload
			require.NoError(t, tt.s.Unmarshal(data, &out))
			assert.Equal(t, in.ID, out.ID)
			assert.True(t, in.At.Equal(out.At))
			assert.Equal(t, "long enough text to make compression worthwhile", out.State["analysis"])
		})
	}
}

func TestSerializer_Encryption(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, 32)

	t.Run("round trip", func(t *testing.T) {
		s := New(MsgPackCodec{}, WithCompression(CompressionZstd), WithEncryptionKey(key))
		data, err := s.Marshal(samplePayload())
		require.NoError(t, err)

		var out payload
		require.NoError(t, s.Unmarshal(data, &out))
		assert.Equal(t, "cp-1", out.ID)
	})

	t.Run("ciphertext is opaque without the key", func(t *testing.T) {
		enc := New(JSONCodec{}, WithEncryptionKey(key))
		data, err := enc.Marshal(samplePayload())
		require.NoError(t, err)
		assert.NotContains(t, string(data), "cp-1")

		plain := New(JSONCodec{})
		var out payload
		assert.Error(t, plain.Unmarshal(data, &out))
	})

	t.Run("wrong key fails to decrypt", func(t *testing.T) {
		enc := New(MsgPackCodec{}, WithEncryptionKey(key))
		data, err := enc.Marshal(samplePayload())
		require.NoError(t, err)

		other := New(MsgPackCodec{}, WithEncryptionKey(bytes.Repeat([]byte{0x13}, 32)))
		var out payload
		assert.Error(t, other.Unmarshal(data, &out))
	})

	t.Run("truncated ciphertext is rejected", func(t *testing.T) {
		s := New(MsgPackCodec{}, WithEncryptionKey(key))
		var out payload
		assert.Error(t, s.Unmarshal([]byte{0x01, 0x02}, &out))
	})
}

func TestCodecNames(t *testing.T) {
	assert.Equal(t, "msgpack", MsgPackCodec{}.Name())
	assert.Equal(t, "json", JSONCodec{}.Name())
}
