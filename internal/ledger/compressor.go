package ledger

import (
	"fmt"

	"dirpurge/internal/ledger/interfaces"
	"dirpurge/internal/structures"

	"github.com/klauspost/compress/zstd"
)

// ZstdCompression stores the ledger document as one zstd frame.
type ZstdCompression struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func (z *ZstdCompression) Compress(val []byte) ([]byte, error) {
	return z.encoder.EncodeAll(val, make([]byte, 0, len(val)/2)), nil
}

func (z *ZstdCompression) Decompress(val []byte) ([]byte, error) {
	out, err := z.decoder.DecodeAll(val, nil)
	if err != nil {
		return nil, fmt.Errorf("decode zstd ledger: %w", err)
	}
	return out, nil
}

func (z *ZstdCompression) Close() {
	_ = z.encoder.Close()
	z.decoder.Close()
}

func NewZstdCompressor() (interfaces.CompressorInterface, error) {
	// the whole ledger is re-encoded on every insert
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("ledger zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		_ = encoder.Close()
		return nil, fmt.Errorf("ledger zstd decoder: %w", err)
	}
	return &ZstdCompression{encoder: encoder, decoder: decoder}, nil
}

// PlainCompression stores ledger bytes as they are, keeping the file readable JSON.
type PlainCompression struct{}

func (p *PlainCompression) Compress(val []byte) ([]byte, error)   { return val, nil }
func (p *PlainCompression) Decompress(val []byte) ([]byte, error) { return val, nil }
func (p *PlainCompression) Close()                                {}

// NewCompressor picks the ledger compressor configured by ledger.compression.
func NewCompressor(conf *structures.Config) (interfaces.CompressorInterface, error) {
	switch conf.Ledger.Compression {
	case "zstd":
		return NewZstdCompressor()
	case "", "none":
		return &PlainCompression{}, nil
	default:
		return nil, fmt.Errorf("unknown ledger compression %q", conf.Ledger.Compression)
	}
}
