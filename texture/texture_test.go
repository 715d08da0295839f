package texture

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/texturelab/ktx2/errs"
	"github.com/texturelab/ktx2/format"
)

func rgbaInfo(w, h, levels uint32) CreateInfo {
	return CreateInfo{
		Format:     format.FormatR8G8B8A8Unorm,
		BaseWidth:  w,
		BaseHeight: h,
		BaseDepth:  1,
		LevelCount: levels,
		LayerCount: 1,
		FaceCount:  1,
	}
}

// fillPlanes writes deterministic pixel data into every plane.
func fillPlanes(t *testing.T, tex *Texture, seed int64) {
	t.Helper()

	rng := rand.New(rand.NewSource(seed))
	for lvl := 0; lvl < int(tex.LevelCount()); lvl++ {
		size := tex.planeSize(lvl)
		for layer := 0; layer < int(tex.LayerCount()); layer++ {
			for face := 0; face < int(tex.FaceCount()); face++ {
				pixels := make([]byte, size)
				for i := range pixels {
					pixels[i] = byte(rng.Intn(256))
				}
				require.NoError(t, tex.SetImageFromMemory(lvl, layer, face, pixels))
			}
		}
	}
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name    string
		info    CreateInfo
		wantErr error
	}{
		{name: "valid 2D", info: rgbaInfo(256, 128, 9)},
		{name: "valid single level", info: rgbaInfo(1, 1, 1)},
		{
			name: "valid cube",
			info: CreateInfo{
				Format: format.FormatR8G8B8A8Srgb, BaseWidth: 64, BaseHeight: 64, BaseDepth: 1,
				LevelCount: 7, LayerCount: 1, FaceCount: 6,
			},
		},
		{
			name: "valid array",
			info: CreateInfo{
				Format: format.FormatR8G8B8A8Unorm, BaseWidth: 32, BaseHeight: 32, BaseDepth: 1,
				LevelCount: 1, LayerCount: 8, FaceCount: 1,
			},
		},
		{
			name:    "zero width",
			info:    CreateInfo{Format: format.FormatR8G8B8A8Unorm, BaseHeight: 4, BaseDepth: 1, LevelCount: 1, LayerCount: 1, FaceCount: 1},
			wantErr: errs.ErrInvalidParameter,
		},
		{
			name:    "zero level count",
			info:    CreateInfo{Format: format.FormatR8G8B8A8Unorm, BaseWidth: 4, BaseHeight: 4, BaseDepth: 1, LayerCount: 1, FaceCount: 1},
			wantErr: errs.ErrInvalidParameter,
		},
		{
			name: "face count neither 1 nor 6",
			info: CreateInfo{
				Format: format.FormatR8G8B8A8Unorm, BaseWidth: 4, BaseHeight: 4, BaseDepth: 1,
				LevelCount: 1, LayerCount: 1, FaceCount: 2,
			},
			wantErr: errs.ErrInvalidParameter,
		},
		{
			name: "cube must be square",
			info: CreateInfo{
				Format: format.FormatR8G8B8A8Unorm, BaseWidth: 64, BaseHeight: 32, BaseDepth: 1,
				LevelCount: 1, LayerCount: 1, FaceCount: 6,
			},
			wantErr: errs.ErrInvalidParameter,
		},
		{
			name:    "level count beyond full chain",
			info:    rgbaInfo(16, 16, 6), // 16x16 has at most 5 levels
			wantErr: errs.ErrInvalidParameter,
		},
		{
			name: "universal format not creatable",
			info: CreateInfo{
				Format: format.FormatUndefined, BaseWidth: 4, BaseHeight: 4, BaseDepth: 1,
				LevelCount: 1, LayerCount: 1, FaceCount: 1,
			},
			wantErr: errs.ErrInvalidParameter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tex, err := Create(tt.info, true)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, tex)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.info.Format, tex.VkFormat())
			require.Equal(t, tt.info.LevelCount, tex.LevelCount())
			require.True(t, tex.DataLoaded())
		})
	}
}

func TestCreate_NonPowerOfTwoChain(t *testing.T) {
	// 100x60: mip dims floor-halve and clamp at 1, chain length 7
	tex, err := Create(rgbaInfo(100, 60, 7), true)
	require.NoError(t, err)

	wantDims := [][2]uint32{{100, 60}, {50, 30}, {25, 15}, {12, 7}, {6, 3}, {3, 1}, {1, 1}}
	for i, want := range wantDims {
		w, h, d := tex.levelDims(i)
		require.Equal(t, want[0], w, "level %d width", i)
		require.Equal(t, want[1], h, "level %d height", i)
		require.Equal(t, uint32(1), d)
	}

	_, err = Create(rgbaInfo(100, 60, 8), true)
	require.ErrorIs(t, err, errs.ErrInvalidParameter)
}

func TestCreate_WithoutStorage(t *testing.T) {
	tex, err := Create(rgbaInfo(16, 16, 1), false)
	require.NoError(t, err)
	require.False(t, tex.DataLoaded())

	err = tex.SetImageFromMemory(0, 0, 0, make([]byte, 16*16*4))
	require.ErrorIs(t, err, errs.ErrDataNotLoaded)

	_, err = tex.ImageData(0, 0, 0)
	require.ErrorIs(t, err, errs.ErrDataNotLoaded)
}

func TestSetImageFromMemory(t *testing.T) {
	tex, err := Create(CreateInfo{
		Format: format.FormatR8G8B8A8Unorm, BaseWidth: 8, BaseHeight: 8, BaseDepth: 1,
		LevelCount: 2, LayerCount: 2, FaceCount: 1,
	}, true)
	require.NoError(t, err)

	pixels := make([]byte, 8*8*4)
	for i := range pixels {
		pixels[i] = byte(i)
	}
	require.NoError(t, tex.SetImageFromMemory(0, 1, 0, pixels))

	got, err := tex.ImageData(0, 1, 0)
	require.NoError(t, err)
	require.Equal(t, pixels, got)

	// neighboring plane untouched
	other, err := tex.ImageData(0, 0, 0)
	require.NoError(t, err)
	require.Equal(t, make([]byte, 8*8*4), other)

	t.Run("index validation", func(t *testing.T) {
		require.ErrorIs(t, tex.SetImageFromMemory(2, 0, 0, pixels), errs.ErrInvalidParameter)
		require.ErrorIs(t, tex.SetImageFromMemory(0, 2, 0, pixels), errs.ErrInvalidParameter)
		require.ErrorIs(t, tex.SetImageFromMemory(0, 0, 1, pixels), errs.ErrInvalidParameter)
		require.ErrorIs(t, tex.SetImageFromMemory(-1, 0, 0, pixels), errs.ErrInvalidParameter)
	})

	t.Run("size must match exactly", func(t *testing.T) {
		require.ErrorIs(t, tex.SetImageFromMemory(0, 0, 0, pixels[:10]), errs.ErrInvalidParameter)
		require.ErrorIs(t, tex.SetImageFromMemory(1, 0, 0, pixels), errs.ErrInvalidParameter)
	})
}

func TestDataDigest(t *testing.T) {
	a, err := Create(rgbaInfo(32, 32, 3), true)
	require.NoError(t, err)
	b, err := Create(rgbaInfo(32, 32, 3), true)
	require.NoError(t, err)

	fillPlanes(t, a, 42)
	fillPlanes(t, b, 42)
	require.Equal(t, a.DataDigest(), b.DataDigest())

	fillPlanes(t, b, 43)
	require.NotEqual(t, a.DataDigest(), b.DataDigest())
}

func TestDataSize(t *testing.T) {
	tex, err := Create(rgbaInfo(16, 16, 5), true)
	require.NoError(t, err)

	// 16x16 + 8x8 + 4x4 + 2x2 + 1x1 texels at 4 bytes each
	want := uint64(256+64+16+4+1) * 4
	require.Equal(t, want, tex.DataSize())
}

func TestKeyValueAccessors(t *testing.T) {
	tex, err := Create(rgbaInfo(4, 4, 1), true)
	require.NoError(t, err)

	_, ok := tex.KeyValue("KTXwriter")
	require.False(t, ok)

	require.NoError(t, tex.SetKeyValue("KTXwriter", []byte("test")))
	v, ok := tex.KeyValue("KTXwriter")
	require.True(t, ok)
	require.Equal(t, []byte("test"), v)

	require.NoError(t, tex.SetKeyValue("KTXwriter", []byte("replaced")))
	v, _ = tex.KeyValue("KTXwriter")
	require.Equal(t, []byte("replaced"), v)

	tex.DeleteKeyValue("KTXwriter")
	_, ok = tex.KeyValue("KTXwriter")
	require.False(t, ok)

	require.ErrorIs(t, tex.SetKeyValue("", []byte("x")), errs.ErrInvalidParameter)
}

func TestAccessors(t *testing.T) {
	tex, err := Create(CreateInfo{
		Format: format.FormatR8G8B8A8Srgb, BaseWidth: 128, BaseHeight: 64, BaseDepth: 1,
		LevelCount: 8, LayerCount: 3, FaceCount: 1, PremultipliedAlpha: true,
	}, true)
	require.NoError(t, err)

	require.Equal(t, format.FormatR8G8B8A8Srgb, tex.VkFormat())
	require.Equal(t, format.TransferSRGB, tex.OETF())
	require.True(t, tex.PremultipliedAlpha())
	require.False(t, tex.NeedsTranscoding())
	require.Equal(t, format.SchemeNone, tex.SupercompressionScheme())
	require.Equal(t, uint32(128), tex.Width())
	require.Equal(t, uint32(64), tex.Height())
	require.Equal(t, uint32(1), tex.Depth())
	require.Equal(t, uint32(8), tex.LevelCount())
	require.Equal(t, uint32(3), tex.LayerCount())
	require.Equal(t, uint32(1), tex.FaceCount())
}
