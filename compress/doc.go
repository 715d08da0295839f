// Package compress implements the supercompression codecs applied to
// format-encoded level payloads: Zstandard (levels 1-22), ZLIB (levels
// 1-9), and a no-op codec for the None scheme.
//
// Codecs compress whole level payloads after format encoding and are
// independent of the pixel or block format. All codecs are safe for
// concurrent use; a single codec instance may compress payloads of many
// containers in parallel.
//
// The Zstandard codec has two implementations selected at build time: the
// default pure-Go path (klauspost/compress) and a cgo path (valyala/gozstd)
// behind the "gozstd" build tag.
package compress
