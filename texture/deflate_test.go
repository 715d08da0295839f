package texture

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/texturelab/ktx2/errs"
	"github.com/texturelab/ktx2/format"
)

func TestDeflate_RoundTrip(t *testing.T) {
	for _, scheme := range []format.SupercompressionScheme{format.SchemeZstd, format.SchemeZLIB} {
		t.Run(scheme.String(), func(t *testing.T) {
			tex, err := Create(rgbaInfo(64, 64, 4), true)
			require.NoError(t, err)
			fillPlanes(t, tex, 10)
			digest := tex.DataDigest()

			require.NoError(t, tex.Deflate(scheme, 3))
			require.Equal(t, scheme, tex.SupercompressionScheme())

			require.NoError(t, tex.Inflate())
			require.Equal(t, format.SchemeNone, tex.SupercompressionScheme())
			require.Equal(t, digest, tex.DataDigest())
		})
	}
}

func TestDeflate_TwiceFails(t *testing.T) {
	tex, err := Create(rgbaInfo(16, 16, 1), true)
	require.NoError(t, err)
	fillPlanes(t, tex, 11)

	require.NoError(t, tex.Deflate(format.SchemeZstd, 5))

	err = tex.Deflate(format.SchemeZstd, 5)
	require.ErrorIs(t, err, errs.ErrAlreadySupercompressed)
	err = tex.Deflate(format.SchemeZLIB, 5)
	require.ErrorIs(t, err, errs.ErrAlreadySupercompressed)

	// still exactly one scheme active and data intact
	require.Equal(t, format.SchemeZstd, tex.SupercompressionScheme())
	require.NoError(t, tex.Inflate())
}

func TestDeflate_Validation(t *testing.T) {
	tex, err := Create(rgbaInfo(16, 16, 1), true)
	require.NoError(t, err)
	fillPlanes(t, tex, 12)

	t.Run("scheme none rejected", func(t *testing.T) {
		require.ErrorIs(t, tex.Deflate(format.SchemeNone, 1), errs.ErrInvalidParameter)
	})

	t.Run("zstd level out of range", func(t *testing.T) {
		require.ErrorIs(t, tex.Deflate(format.SchemeZstd, 30), errs.ErrInvalidParameter)
		require.ErrorIs(t, tex.Deflate(format.SchemeZstd, 0), errs.ErrInvalidParameter)
	})

	t.Run("zlib level out of range", func(t *testing.T) {
		require.ErrorIs(t, tex.Deflate(format.SchemeZLIB, 10), errs.ErrInvalidParameter)
	})

	t.Run("basislz reserved", func(t *testing.T) {
		require.ErrorIs(t, tex.Deflate(format.SchemeBasisLZ, 1), errs.ErrUnsupportedFormat)
	})

	t.Run("failed deflate leaves scheme none", func(t *testing.T) {
		require.Equal(t, format.SchemeNone, tex.SupercompressionScheme())
	})

	t.Run("no image data", func(t *testing.T) {
		empty, err := Create(rgbaInfo(16, 16, 1), false)
		require.NoError(t, err)
		require.ErrorIs(t, empty.Deflate(format.SchemeZstd, 3), errs.ErrDataNotLoaded)
	})
}

func TestDeflate_BlocksDataAccess(t *testing.T) {
	tex, err := Create(rgbaInfo(16, 16, 1), true)
	require.NoError(t, err)
	fillPlanes(t, tex, 13)

	require.NoError(t, tex.Deflate(format.SchemeZLIB, 9))

	// plane access requires inflated payloads
	_, err = tex.ImageData(0, 0, 0)
	require.ErrorIs(t, err, errs.ErrInvalidOperation)
	err = tex.SetImageFromMemory(0, 0, 0, make([]byte, 16*16*4))
	require.ErrorIs(t, err, errs.ErrInvalidOperation)
}

func TestDeflate_AfterCompress(t *testing.T) {
	tex, err := Create(rgbaInfo(32, 32, 2), true)
	require.NoError(t, err)
	fillPlanes(t, tex, 14)

	require.NoError(t, tex.CompressBasis(128))
	universalDigest := tex.DataDigest()

	require.NoError(t, tex.Deflate(format.SchemeZstd, 19))
	require.True(t, tex.NeedsTranscoding())
	require.Equal(t, format.SchemeZstd, tex.SupercompressionScheme())

	require.NoError(t, tex.Inflate())
	require.Equal(t, universalDigest, tex.DataDigest())
}

func TestInflate_NoopWithoutScheme(t *testing.T) {
	tex, err := Create(rgbaInfo(8, 8, 1), true)
	require.NoError(t, err)
	fillPlanes(t, tex, 15)
	digest := tex.DataDigest()

	require.NoError(t, tex.Inflate())
	require.Equal(t, digest, tex.DataDigest())
}
