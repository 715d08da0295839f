package compress

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/texturelab/ktx2/errs"
	"github.com/texturelab/ktx2/format"
)

func TestCreateCodec_LevelValidation(t *testing.T) {
	tests := []struct {
		name    string
		scheme  format.SupercompressionScheme
		level   int
		wantErr error
	}{
		{name: "zstd min level", scheme: format.SchemeZstd, level: 1},
		{name: "zstd max level", scheme: format.SchemeZstd, level: 22},
		{name: "zstd level zero", scheme: format.SchemeZstd, level: 0, wantErr: errs.ErrInvalidParameter},
		{name: "zstd level too high", scheme: format.SchemeZstd, level: 30, wantErr: errs.ErrInvalidParameter},
		{name: "zlib min level", scheme: format.SchemeZLIB, level: 1},
		{name: "zlib max level", scheme: format.SchemeZLIB, level: 9},
		{name: "zlib level too high", scheme: format.SchemeZLIB, level: 10, wantErr: errs.ErrInvalidParameter},
		{name: "zlib negative level", scheme: format.SchemeZLIB, level: -1, wantErr: errs.ErrInvalidParameter},
		{name: "none ignores level", scheme: format.SchemeNone, level: 999},
		{name: "basislz reserved", scheme: format.SchemeBasisLZ, level: 1, wantErr: errs.ErrUnsupportedFormat},
		{name: "unknown scheme", scheme: format.SupercompressionScheme(42), level: 1, wantErr: errs.ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec, err := CreateCodec(tt.scheme, tt.level)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, codec)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, codec)
		})
	}
}

func TestGetDecompressor(t *testing.T) {
	for _, scheme := range []format.SupercompressionScheme{format.SchemeNone, format.SchemeZstd, format.SchemeZLIB} {
		t.Run(scheme.String(), func(t *testing.T) {
			d, err := GetDecompressor(scheme)
			require.NoError(t, err)
			require.NotNil(t, d)
		})
	}

	_, err := GetDecompressor(format.SchemeBasisLZ)
	require.ErrorIs(t, err, errs.ErrUnsupportedFormat)
}

func testCodecs(t *testing.T) map[string]Codec {
	t.Helper()

	zstd, err := CreateCodec(format.SchemeZstd, 3)
	require.NoError(t, err)
	zlib, err := CreateCodec(format.SchemeZLIB, 6)
	require.NoError(t, err)

	return map[string]Codec{
		"NoOp": NewNoOpCodec(),
		"Zstd": zstd,
		"ZLIB": zlib,
	}
}

func TestAllCodecs_RoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{name: "small_payload", data: []byte{0xAB, 0x4B, 0x54, 0x58}},
		{name: "repeated_pattern", data: bytes.Repeat([]byte{0x10, 0x20, 0x30, 0x40}, 256)},
		{name: "single_byte", data: []byte{0x42}},
		{name: "level_payload_64k", data: func() []byte {
			data := make([]byte, 64*1024)
			for i := range data {
				data[i] = byte(i % 251)
			}

			return data
		}()},
		{name: "highly_compressible", data: make([]byte, 256*1024)},
	}

	for codecName, codec := range testCodecs(t) {
		t.Run(codecName, func(t *testing.T) {
			for _, tc := range testCases {
				t.Run(tc.name, func(t *testing.T) {
					compressed, err := codec.Compress(tc.data)
					require.NoError(t, err)

					decompressed, err := codec.Decompress(compressed)
					require.NoError(t, err)
					require.Equal(t, tc.data, decompressed)
				})
			}
		})
	}
}

func TestAllCodecs_EmptyData(t *testing.T) {
	for codecName, codec := range testCodecs(t) {
		t.Run(codecName, func(t *testing.T) {
			compressed, err := codec.Compress(nil)
			require.NoError(t, err)

			decompressed, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Empty(t, decompressed)
		})
	}
}

func TestAllCodecs_InvalidData(t *testing.T) {
	invalidInputs := [][]byte{
		{0xFF, 0xFF, 0xFF, 0xFF},
		[]byte("this is not compressed data"),
	}

	for codecName, codec := range testCodecs(t) {
		if codecName == "NoOp" {
			continue // passthrough codec does not validate
		}
		t.Run(codecName, func(t *testing.T) {
			for i, input := range invalidInputs {
				t.Run(fmt.Sprintf("input_%d", i), func(t *testing.T) {
					_, err := codec.Decompress(input)
					require.Error(t, err)
				})
			}
		})
	}
}

func TestZstd_LevelsProduceDecodableStreams(t *testing.T) {
	data := bytes.Repeat([]byte("level payload with moderate redundancy "), 128)

	for _, level := range []int{1, 3, 9, 19, 22} {
		t.Run(fmt.Sprintf("level_%d", level), func(t *testing.T) {
			codec, err := CreateCodec(format.SchemeZstd, level)
			require.NoError(t, err)

			compressed, err := codec.Compress(data)
			require.NoError(t, err)
			require.Less(t, len(compressed), len(data))

			// any decompressor handles any level
			d, err := GetDecompressor(format.SchemeZstd)
			require.NoError(t, err)
			decompressed, err := d.Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, data, decompressed)
		})
	}
}

func TestAllCodecs_ConcurrentUsage(t *testing.T) {
	const numGoroutines = 16
	data := bytes.Repeat([]byte("concurrent supercompression payload "), 64)

	for codecName, codec := range testCodecs(t) {
		t.Run(codecName, func(t *testing.T) {
			compressed, err := codec.Compress(data)
			require.NoError(t, err)

			done := make(chan error, numGoroutines*2)
			for range numGoroutines {
				go func() {
					_, err := codec.Compress(data)
					done <- err
				}()
				go func() {
					out, err := codec.Decompress(compressed)
					if err == nil && !bytes.Equal(out, data) {
						err = fmt.Errorf("decompressed data mismatch")
					}
					done <- err
				}()
			}

			for range numGoroutines * 2 {
				require.NoError(t, <-done)
			}
		})
	}
}
