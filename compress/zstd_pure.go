//go:build !gozstd

package compress

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// zstdDecoderPool pools zstd decoders for reuse. The klauspost decoder is
// designed to operate without allocations after a warmup, so pooling
// instances eliminates per-call setup cost.
var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
		)
		if err != nil {
			// never happens with valid options
			panic(fmt.Sprintf("failed to create zstd decoder for pool: %v", err))
		}
		return decoder
	},
}

// zstdEncoders caches one encoder per compression level. EncodeAll is
// stateless and safe for concurrent use on a shared encoder.
var zstdEncoders sync.Map // int -> *zstd.Encoder

func zstdEncoderForLevel(level int) *zstd.Encoder {
	if enc, ok := zstdEncoders.Load(level); ok {
		return enc.(*zstd.Encoder)
	}

	encoder, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)),
		zstd.WithEncoderCRC(false),
	)
	if err != nil {
		// never happens with a validated level
		panic(fmt.Sprintf("failed to create zstd encoder for level %d: %v", level, err))
	}

	actual, _ := zstdEncoders.LoadOrStore(level, encoder)

	return actual.(*zstd.Encoder)
}

// Compress compresses the input using Zstandard at the codec's level.
func (c ZstdCodec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return zstdEncoderForLevel(c.level).EncodeAll(data, nil), nil
}

// Decompress decompresses Zstd-compressed data using a pooled decoder.
func (c ZstdCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	decoder := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(decoder)

	decompressed, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}

	return decompressed, nil
}
