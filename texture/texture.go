package texture

import (
	"fmt"

	"github.com/texturelab/ktx2/encoder"
	"github.com/texturelab/ktx2/errs"
	"github.com/texturelab/ktx2/format"
	"github.com/texturelab/ktx2/internal/hash"
	"github.com/texturelab/ktx2/section"
)

// CreateInfo declares the shape of a new texture container.
type CreateInfo struct {
	// Format is the pixel or block format of the stored data. Universal
	// formats cannot be declared directly; they are produced by the
	// universal compress operations.
	Format format.Format
	// BaseWidth/BaseHeight/BaseDepth are the level 0 dimensions in texels.
	BaseWidth, BaseHeight, BaseDepth uint32
	// LevelCount is the number of mip levels, at least 1.
	LevelCount uint32
	// LayerCount is the number of array layers, at least 1.
	LayerCount uint32
	// FaceCount is 1, or 6 for cube maps.
	FaceCount uint32
	// PremultipliedAlpha marks the color channels as premultiplied.
	PremultipliedAlpha bool
}

// level holds one mip level's payload. With an active supercompression
// scheme data is the compressed stream and uncompressedLen the original
// payload length; otherwise data is the plane sequence itself.
type level struct {
	data            []byte
	uncompressedLen uint64
}

// Texture is the in-memory representation of a texture container.
type Texture struct {
	vkFormat   format.Format
	typeSize   uint32
	baseWidth  uint32
	baseHeight uint32
	baseDepth  uint32
	layerCount uint32
	faceCount  uint32
	scheme     format.SupercompressionScheme

	dfd section.FormatDescriptor
	kvd section.KeyValueData

	levels     []level // index 0 = base level
	dataLoaded bool
}

// Create constructs a texture container with the declared shape.
//
// With allocateStorage true every plane is allocated zeroed, ready for
// SetImageFromMemory. With false the container carries headers only;
// operations needing pixel data fail with ErrDataNotLoaded.
func Create(info CreateInfo, allocateStorage bool) (*Texture, error) {
	if err := validateCreateInfo(info); err != nil {
		return nil, err
	}

	dfd, err := section.DescriptorForFormat(info.Format, info.PremultipliedAlpha)
	if err != nil {
		return nil, err
	}

	t := &Texture{
		vkFormat:   info.Format,
		typeSize:   formatTypeSize(info.Format),
		baseWidth:  info.BaseWidth,
		baseHeight: info.BaseHeight,
		baseDepth:  info.BaseDepth,
		layerCount: info.LayerCount,
		faceCount:  info.FaceCount,
		scheme:     format.SchemeNone,
		dfd:        dfd,
		levels:     make([]level, info.LevelCount),
		dataLoaded: allocateStorage,
	}

	if allocateStorage {
		for i := range t.levels {
			t.levels[i].data = make([]byte, t.levelSize(i))
		}
	}

	return t, nil
}

func validateCreateInfo(info CreateInfo) error {
	if info.BaseWidth == 0 || info.BaseHeight == 0 || info.BaseDepth == 0 {
		return fmt.Errorf("zero dimensions %dx%dx%d: %w",
			info.BaseWidth, info.BaseHeight, info.BaseDepth, errs.ErrInvalidParameter)
	}
	if info.LevelCount == 0 || info.LayerCount == 0 || info.FaceCount == 0 {
		return fmt.Errorf("zero level/layer/face count: %w", errs.ErrInvalidParameter)
	}
	if info.FaceCount != 1 && info.FaceCount != 6 {
		return fmt.Errorf("face count %d (want 1 or 6): %w", info.FaceCount, errs.ErrInvalidParameter)
	}
	if info.FaceCount == 6 && (info.BaseWidth != info.BaseHeight || info.BaseDepth != 1) {
		return fmt.Errorf("cube map must be square and 2D: %w", errs.ErrInvalidParameter)
	}
	if _, _, _, ok := info.Format.BlockDims(); !ok {
		return fmt.Errorf("format %s: %w", info.Format, errs.ErrInvalidParameter)
	}
	if max := maxLevelCount(info.BaseWidth, info.BaseHeight, info.BaseDepth); info.LevelCount > max {
		return fmt.Errorf("level count %d exceeds full chain %d: %w",
			info.LevelCount, max, errs.ErrInvalidParameter)
	}

	return nil
}

// maxLevelCount is the full mip chain length for the base dimensions.
func maxLevelCount(w, h, d uint32) uint32 {
	m := w
	if h > m {
		m = h
	}
	if d > m {
		m = d
	}

	var n uint32 = 1
	for m > 1 {
		m >>= 1
		n++
	}

	return n
}

func formatTypeSize(f format.Format) uint32 {
	if f.IsUncompressedRGBA8() {
		return 1
	}

	return 1 // block-compressed data is always byte-oriented
}

// levelDims returns the texel dimensions of mip level i.
func (t *Texture) levelDims(i int) (w, h, d uint32) {
	w = t.baseWidth >> uint(i)
	h = t.baseHeight >> uint(i)
	d = t.baseDepth >> uint(i)
	if w == 0 {
		w = 1
	}
	if h == 0 {
		h = 1
	}
	if d == 0 {
		d = 1
	}

	return w, h, d
}

// planeSize returns the byte size of one (layer, face) plane at level i
// for the current concrete format. Zero for universal data, whose planes
// are self-framing instead.
func (t *Texture) planeSize(i int) int {
	bw, bh, bpb, ok := t.vkFormat.BlockDims()
	if !ok {
		return 0
	}

	w, h, d := t.levelDims(i)
	blocksX := (int(w) + bw - 1) / bw
	blocksY := (int(h) + bh - 1) / bh

	return blocksX * blocksY * int(d) * bpb
}

// levelSize returns the uncompressed byte size of level i for the current
// concrete format.
func (t *Texture) levelSize(i int) int {
	return t.planeSize(i) * int(t.layerCount) * int(t.faceCount)
}

// planeCount is the number of image planes per level.
func (t *Texture) planeCount() int {
	return int(t.layerCount) * int(t.faceCount)
}

// VkFormat returns the stored format tag; FormatUndefined marks universal
// data awaiting transcoding.
func (t *Texture) VkFormat() format.Format {
	return t.vkFormat
}

// OETF returns the transfer function of the stored channels.
func (t *Texture) OETF() format.TransferFunction {
	return t.dfd.Transfer
}

// PremultipliedAlpha reports whether color channels are premultiplied.
func (t *Texture) PremultipliedAlpha() bool {
	return t.dfd.PremultipliedAlpha
}

// NeedsTranscoding reports whether the stored data is a universal
// intermediate encoding requiring a transcode before GPU consumption.
func (t *Texture) NeedsTranscoding() bool {
	return t.vkFormat == format.FormatUndefined
}

// SupercompressionScheme returns the active supercompression scheme tag.
func (t *Texture) SupercompressionScheme() format.SupercompressionScheme {
	return t.scheme
}

// Descriptor returns the current format descriptor.
func (t *Texture) Descriptor() section.FormatDescriptor {
	return t.dfd
}

// Width returns the base level width in texels.
func (t *Texture) Width() uint32 { return t.baseWidth }

// Height returns the base level height in texels.
func (t *Texture) Height() uint32 { return t.baseHeight }

// Depth returns the base level depth in texels.
func (t *Texture) Depth() uint32 { return t.baseDepth }

// LevelCount returns the number of mip levels.
func (t *Texture) LevelCount() uint32 { return uint32(len(t.levels)) }

// LayerCount returns the number of array layers.
func (t *Texture) LayerCount() uint32 { return t.layerCount }

// FaceCount returns the number of cube faces (1 or 6).
func (t *Texture) FaceCount() uint32 { return t.faceCount }

// DataLoaded reports whether level payloads are present in memory.
func (t *Texture) DataLoaded() bool { return t.dataLoaded }

// DataSize returns the total byte size of all level payloads as stored.
func (t *Texture) DataSize() uint64 {
	var n uint64
	for i := range t.levels {
		n += uint64(len(t.levels[i].data))
	}

	return n
}

// DataDigest returns the xxHash64 of all level payloads in level order.
// Two containers with equal shape and equal digests hold identical data.
func (t *Texture) DataDigest() uint64 {
	parts := make([][]byte, len(t.levels))
	for i := range t.levels {
		parts[i] = t.levels[i].data
	}

	return hash.Digest(parts...)
}

// SetKeyValue stores a metadata entry, replacing any previous value.
func (t *Texture) SetKeyValue(key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("empty metadata key: %w", errs.ErrInvalidParameter)
	}
	if t.kvd == nil {
		t.kvd = make(section.KeyValueData)
	}
	t.kvd[key] = append([]byte(nil), value...)

	return nil
}

// KeyValue returns the metadata value stored under key.
func (t *Texture) KeyValue(key string) ([]byte, bool) {
	v, ok := t.kvd[key]
	return v, ok
}

// DeleteKeyValue removes a metadata entry.
func (t *Texture) DeleteKeyValue(key string) {
	delete(t.kvd, key)
}

// checkPlaneIndex validates a (level, layer, face) triple.
func (t *Texture) checkPlaneIndex(lvl, layer, face int) error {
	if lvl < 0 || lvl >= len(t.levels) {
		return fmt.Errorf("level %d of %d: %w", lvl, len(t.levels), errs.ErrInvalidParameter)
	}
	if layer < 0 || layer >= int(t.layerCount) {
		return fmt.Errorf("layer %d of %d: %w", layer, t.layerCount, errs.ErrInvalidParameter)
	}
	if face < 0 || face >= int(t.faceCount) {
		return fmt.Errorf("face %d of %d: %w", face, t.faceCount, errs.ErrInvalidParameter)
	}

	return nil
}

// SetImageFromMemory stores pixel data for one (level, layer, face) plane.
// The container must hold uncompressed or pre-encoded block data with no
// active supercompression scheme, and pixels must match the plane size
// exactly.
func (t *Texture) SetImageFromMemory(lvl, layer, face int, pixels []byte) error {
	if err := t.checkPlaneIndex(lvl, layer, face); err != nil {
		return err
	}
	if !t.dataLoaded {
		return fmt.Errorf("set image: %w", errs.ErrDataNotLoaded)
	}
	if t.scheme != format.SchemeNone {
		return fmt.Errorf("set image on supercompressed container: %w", errs.ErrInvalidOperation)
	}
	if t.vkFormat == format.FormatUndefined {
		return fmt.Errorf("set image on universal container: %w", errs.ErrInvalidOperation)
	}

	size := t.planeSize(lvl)
	if len(pixels) != size {
		return fmt.Errorf("plane size %d, got %d bytes: %w", size, len(pixels), errs.ErrInvalidParameter)
	}

	off := (layer*int(t.faceCount) + face) * size
	copy(t.levels[lvl].data[off:off+size], pixels)

	return nil
}

// ImageData returns the stored bytes of one (level, layer, face) plane.
// The returned slice aliases the container's storage; treat it as
// read-only.
func (t *Texture) ImageData(lvl, layer, face int) ([]byte, error) {
	if err := t.checkPlaneIndex(lvl, layer, face); err != nil {
		return nil, err
	}
	if !t.dataLoaded {
		return nil, fmt.Errorf("image data: %w", errs.ErrDataNotLoaded)
	}
	if t.scheme != format.SchemeNone {
		return nil, fmt.Errorf("image data on supercompressed container: %w", errs.ErrInvalidOperation)
	}

	plane := layer*int(t.faceCount) + face
	if t.vkFormat == format.FormatUndefined {
		planes, err := encoder.SplitPlanes(t.levels[lvl].data, t.planeCount())
		if err != nil {
			return nil, err
		}

		return planes[plane], nil
	}

	size := t.planeSize(lvl)
	off := plane * size

	return t.levels[lvl].data[off : off+size], nil
}
