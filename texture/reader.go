package texture

import (
	"fmt"
	"io"

	"github.com/texturelab/ktx2/endian"
	"github.com/texturelab/ktx2/errs"
	"github.com/texturelab/ktx2/format"
	"github.com/texturelab/ktx2/internal/options"
	"github.com/texturelab/ktx2/section"
)

// readConfig collects reader options.
type readConfig struct {
	skipImageData bool
}

// ReadOption configures Parse and Read.
type ReadOption = options.Option[*readConfig]

// WithoutImageData parses headers, index, descriptor, and metadata only,
// skipping the level payloads. The result answers every shape and format
// query but fails data operations with ErrDataNotLoaded.
func WithoutImageData() ReadOption {
	return options.NoError(func(c *readConfig) {
		c.skipImageData = true
	})
}

// Parse deserializes a container from its file bytes.
//
// Malformed input maps to three errors: ErrCorruptFile for a stream that
// is not a container or contradicts itself, ErrUnsupportedVersion for a
// container of a different format version, and ErrTruncatedFile for a
// stream shorter than its own declarations.
func Parse(data []byte, opts ...ReadOption) (*Texture, error) {
	var cfg readConfig
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	engine := endian.GetLittleEndianEngine()

	header, err := section.ParseHeader(data, engine)
	if err != nil {
		return nil, err
	}

	entries, err := section.ParseLevelIndex(data, int(header.LevelCount), uint64(len(data)), engine)
	if err != nil {
		return nil, err
	}

	dfd, err := parseDFDBlock(data, header, engine)
	if err != nil {
		return nil, err
	}

	kvd, err := parseKVDBlock(data, header, engine)
	if err != nil {
		return nil, err
	}

	t := &Texture{
		vkFormat:   header.VkFormat,
		typeSize:   header.TypeSize,
		baseWidth:  header.PixelWidth,
		baseHeight: header.PixelHeight,
		baseDepth:  header.PixelDepth,
		layerCount: header.LayerCount,
		faceCount:  header.FaceCount,
		scheme:     header.Scheme,
		dfd:        dfd,
		kvd:        kvd,
		levels:     make([]level, header.LevelCount),
	}

	if cfg.skipImageData {
		return t, nil
	}

	for i, e := range entries {
		payload := make([]byte, e.ByteLength)
		copy(payload, data[e.ByteOffset:e.ByteOffset+e.ByteLength])

		t.levels[i].data = payload
		if t.scheme != format.SchemeNone {
			t.levels[i].uncompressedLen = e.UncompressedByteLength
		}
	}
	t.dataLoaded = true

	if err := t.verifyLevelSizes(entries); err != nil {
		return nil, err
	}

	return t, nil
}

// Read deserializes a container from r.
func Read(r io.Reader, opts ...ReadOption) (*Texture, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read container: %w", err)
	}

	return Parse(data, opts...)
}

func parseDFDBlock(data []byte, h section.Header, engine endian.EndianEngine) (section.FormatDescriptor, error) {
	if h.DFDByteLength == 0 {
		return section.FormatDescriptor{}, fmt.Errorf("missing format descriptor: %w", errs.ErrCorruptFile)
	}

	end := uint64(h.DFDByteOffset) + uint64(h.DFDByteLength)
	if end > uint64(len(data)) {
		return section.FormatDescriptor{}, fmt.Errorf("format descriptor block: %w", errs.ErrTruncatedFile)
	}

	return section.ParseFormatDescriptor(data[h.DFDByteOffset:end], engine)
}

func parseKVDBlock(data []byte, h section.Header, engine endian.EndianEngine) (section.KeyValueData, error) {
	if h.KVDByteLength == 0 {
		return nil, nil
	}

	end := uint64(h.KVDByteOffset) + uint64(h.KVDByteLength)
	if end > uint64(len(data)) {
		return nil, fmt.Errorf("key/value block: %w", errs.ErrTruncatedFile)
	}

	return section.ParseKeyValueData(data[h.KVDByteOffset:end], engine)
}

// verifyLevelSizes cross-checks the declared payload lengths against the
// sizes implied by format and shape. Only concrete formats with no active
// scheme have predictable sizes; universal and supercompressed payloads
// are validated when decoded instead.
func (t *Texture) verifyLevelSizes(entries []section.LevelIndexEntry) error {
	if t.scheme != format.SchemeNone || t.vkFormat == format.FormatUndefined {
		return nil
	}

	for i, e := range entries {
		if want := uint64(t.levelSize(i)); e.ByteLength != want {
			return fmt.Errorf("level %d payload %d bytes, shape implies %d: %w",
				i, e.ByteLength, want, errs.ErrCorruptFile)
		}
	}

	return nil
}
