package texture

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/texturelab/ktx2/errs"
	"github.com/texturelab/ktx2/format"
)

// universalTexture builds a compressed universal container for transcode
// tests.
func universalTexture(t *testing.T, srgb bool) *Texture {
	t.Helper()

	f := format.FormatR8G8B8A8Unorm
	if srgb {
		f = format.FormatR8G8B8A8Srgb
	}

	tex, err := Create(CreateInfo{
		Format: f, BaseWidth: 32, BaseHeight: 32, BaseDepth: 1,
		LevelCount: 3, LayerCount: 1, FaceCount: 1,
	}, true)
	require.NoError(t, err)
	fillPlanes(t, tex, 20)
	require.NoError(t, tex.CompressBasis(128))

	return tex
}

func TestTranscode_ToRGBA32(t *testing.T) {
	tex := universalTexture(t, false)

	require.NoError(t, tex.Transcode(format.TargetRGBA32, 0))

	require.Equal(t, format.FormatR8G8B8A8Unorm, tex.VkFormat())
	require.False(t, tex.NeedsTranscoding())
	require.Equal(t, format.SchemeNone, tex.SupercompressionScheme())
	require.Equal(t, format.ModelRGBSDA, tex.Descriptor().Model)

	plane, err := tex.ImageData(0, 0, 0)
	require.NoError(t, err)
	require.Len(t, plane, 32*32*4)
}

func TestTranscode_ToBC1(t *testing.T) {
	tex := universalTexture(t, true)

	require.NoError(t, tex.Transcode(format.TargetBC1RGB, 0))

	require.Equal(t, format.FormatBC1RGBSrgb, tex.VkFormat())
	require.Equal(t, format.TransferSRGB, tex.OETF())
	require.Equal(t, format.ModelBC1, tex.Descriptor().Model)

	plane, err := tex.ImageData(0, 0, 0)
	require.NoError(t, err)
	require.Len(t, plane, 8*8*8) // 8x8 blocks, 8 bytes each
}

func TestTranscode_SRGBPropagation(t *testing.T) {
	linear := universalTexture(t, false)
	require.NoError(t, linear.Transcode(format.TargetBC1RGB, 0))
	require.Equal(t, format.FormatBC1RGBUnorm, linear.VkFormat())

	srgb := universalTexture(t, true)
	require.NoError(t, srgb.Transcode(format.TargetRGBA32, 0))
	require.Equal(t, format.FormatR8G8B8A8Srgb, srgb.VkFormat())
}

func TestTranscode_OfSupercompressedContainer(t *testing.T) {
	tex := universalTexture(t, false)
	require.NoError(t, tex.Deflate(format.SchemeZstd, 9))

	// transcode inflates internally and commits with SchemeNone
	require.NoError(t, tex.Transcode(format.TargetRGBA32, 0))
	require.Equal(t, format.SchemeNone, tex.SupercompressionScheme())
	require.Equal(t, format.FormatR8G8B8A8Unorm, tex.VkFormat())
}

func TestTranscode_Validation(t *testing.T) {
	t.Run("concrete container rejected", func(t *testing.T) {
		tex, err := Create(rgbaInfo(16, 16, 1), true)
		require.NoError(t, err)
		fillPlanes(t, tex, 21)

		require.ErrorIs(t, tex.Transcode(format.TargetRGBA32, 0), errs.ErrInvalidOperation)
	})

	t.Run("one shot only", func(t *testing.T) {
		tex := universalTexture(t, false)
		require.NoError(t, tex.Transcode(format.TargetRGBA32, 0))
		require.ErrorIs(t, tex.Transcode(format.TargetBC1RGB, 0), errs.ErrInvalidOperation)
	})

	t.Run("unsupported target", func(t *testing.T) {
		tex := universalTexture(t, false)
		require.ErrorIs(t, tex.Transcode(format.TargetBC7RGBA, 0), errs.ErrUnsupportedTargetFormat)

		// failure leaves the universal data intact and transcodeable
		require.True(t, tex.NeedsTranscoding())
		require.NoError(t, tex.Transcode(format.TargetRGBA32, 0))
	})

	t.Run("reserved flags rejected", func(t *testing.T) {
		tex := universalTexture(t, false)
		require.ErrorIs(t, tex.Transcode(format.TargetRGBA32, format.TranscodeFlags(1)), errs.ErrInvalidParameter)
		require.ErrorIs(t, tex.Transcode(format.TargetRGBA32, format.TranscodeFlags(1<<9)), errs.ErrInvalidParameter)
		require.True(t, tex.NeedsTranscoding())
	})
}

func TestTranscode_MultipleTargetsFromSameBytes(t *testing.T) {
	src := universalTexture(t, false)
	data, err := src.Bytes()
	require.NoError(t, err)

	a, err := Parse(data)
	require.NoError(t, err)
	require.NoError(t, a.Transcode(format.TargetRGBA32, 0))
	require.Equal(t, format.FormatR8G8B8A8Unorm, a.VkFormat())

	b, err := Parse(data)
	require.NoError(t, err)
	require.NoError(t, b.Transcode(format.TargetBC1RGB, 0))
	require.Equal(t, format.FormatBC1RGBUnorm, b.VkFormat())
}

func TestTranscode_WithoutImageData(t *testing.T) {
	src := universalTexture(t, false)
	data, err := src.Bytes()
	require.NoError(t, err)

	tex, err := Parse(data, WithoutImageData())
	require.NoError(t, err)
	require.True(t, tex.NeedsTranscoding())

	require.ErrorIs(t, tex.Transcode(format.TargetRGBA32, 0), errs.ErrDataNotLoaded)
}
