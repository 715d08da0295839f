package compress

// ZstdCodec provides Zstandard supercompression for level payloads.
//
// Zstd is the higher-ratio scheme of the two supported; levels run 1-22
// with higher levels trading time and memory for smaller output. Levels
// above 20 need considerably more memory and should be used with care.
//
// The Compress/Decompress implementations are build-tag selected: the
// pure-Go path lives in zstd_pure.go, the cgo path in zstd_cgo.go.
type ZstdCodec struct {
	level int
}

var _ Codec = (*ZstdCodec)(nil)

// NewZstdCodec creates a Zstd codec at the given level (1-22). The level
// must already be validated by the caller; CreateCodec does this.
func NewZstdCodec(level int) ZstdCodec {
	return ZstdCodec{level: level}
}
