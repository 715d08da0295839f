package texture

import (
	"fmt"

	"github.com/texturelab/ktx2/encoder"
	"github.com/texturelab/ktx2/errs"
	"github.com/texturelab/ktx2/format"
	"github.com/texturelab/ktx2/section"
)

// CompressAstc encodes the container's uncompressed RGBA8 data into the
// ASTC block format using the default parameter bundle for quality
// (0-100). On success the stored data, format tag, and descriptor are
// replaced together.
func (t *Texture) CompressAstc(quality int) error {
	return t.CompressAstcEx(encoder.DefaultAstcParams(quality))
}

// CompressAstcEx is CompressAstc with the full parameter bundle.
func (t *Texture) CompressAstcEx(params encoder.AstcParams) error {
	return t.compressWith(encoder.Params{Family: encoder.FamilyASTC, Astc: params})
}

// CompressBasis encodes the container's uncompressed RGBA8 data into the
// universal intermediate format using the default parameter bundle for
// quality (0-255). The result requires Transcode before GPU consumption.
func (t *Texture) CompressBasis(quality int) error {
	return t.CompressBasisEx(encoder.DefaultBasisParams(quality))
}

// CompressBasisEx is CompressBasis with the full parameter bundle.
func (t *Texture) CompressBasisEx(params encoder.BasisParams) error {
	return t.compressWith(encoder.Params{Family: encoder.FamilyBasis, Basis: params})
}

// compressWith runs the selected encoder family over every plane of every
// level into working buffers, then commits data, format tag, and
// descriptor in one swap. A failure on any plane leaves the container
// untouched.
func (t *Texture) compressWith(params encoder.Params) error {
	if err := t.checkCompressSource(); err != nil {
		return err
	}

	switch params.Family {
	case encoder.FamilyASTC:
		return t.compressBlock(params.Astc)
	case encoder.FamilyBasis:
		return t.compressUniversal(params.Basis)
	default:
		return fmt.Errorf("encoder family %d: %w", params.Family, errs.ErrInvalidParameter)
	}
}

// checkCompressSource validates that the container holds compressible
// source data: uncompressed RGBA8, no active supercompression, data in
// memory, and 2D (possibly arrayed or cubed) shape.
func (t *Texture) checkCompressSource() error {
	if t.scheme != format.SchemeNone {
		return fmt.Errorf("compress on supercompressed container: %w", errs.ErrUnsupportedFormat)
	}
	if !t.vkFormat.IsUncompressedRGBA8() {
		return fmt.Errorf("compress source format %s: %w", t.vkFormat, errs.ErrUnsupportedFormat)
	}
	if !t.dataLoaded {
		return fmt.Errorf("compress without image data: %w", errs.ErrInvalidOperation)
	}
	if t.baseDepth > 1 {
		return fmt.Errorf("compress 3D texture: %w", errs.ErrUnsupportedFormat)
	}

	return nil
}

func (t *Texture) compressBlock(params encoder.AstcParams) error {
	enc, err := encoder.BlockEncoderFor(format.ModelASTC)
	if err != nil {
		return err
	}

	newFormat := enc.Format(t.vkFormat.IsSRGB())
	newDFD, err := section.DescriptorForFormat(newFormat, t.dfd.PremultipliedAlpha)
	if err != nil {
		return err
	}
	newDFD.Transfer = t.dfd.Transfer

	newLevels, err := t.encodeLevels(func(rgba []byte, w, h int) ([]byte, error) {
		return enc.EncodePlane(rgba, w, h, params)
	})
	if err != nil {
		return err
	}

	// commit
	t.levels = newLevels
	t.vkFormat = newFormat
	t.typeSize = 1
	t.dfd = newDFD

	return nil
}

func (t *Texture) compressUniversal(params encoder.BasisParams) error {
	enc, err := encoder.UniversalEncoderFor(format.ModelETC1S)
	if err != nil {
		return err
	}

	newDFD := section.FormatDescriptor{
		Model:              enc.Model(),
		ChannelCount:       3,
		Transfer:           t.dfd.Transfer,
		PremultipliedAlpha: t.dfd.PremultipliedAlpha,
		BlockWidth:         4,
		BlockHeight:        4,
		// BytesPerBlock stays 0: universal payloads are variable-rate
	}

	newLevels, err := t.encodeLevels(func(rgba []byte, w, h int) ([]byte, error) {
		return enc.EncodePlane(rgba, w, h, params)
	})
	if err != nil {
		return err
	}

	// commit
	t.levels = newLevels
	t.vkFormat = format.FormatUndefined
	t.typeSize = 1
	t.dfd = newDFD

	return nil
}

// encodeLevels runs encodePlane over every (level, layer, face) plane and
// returns the replacement level set. The receiver is never modified.
func (t *Texture) encodeLevels(encodePlane func(rgba []byte, w, h int) ([]byte, error)) ([]level, error) {
	newLevels := make([]level, len(t.levels))

	for i := range t.levels {
		w, h, _ := t.levelDims(i)
		size := t.planeSize(i)

		var data []byte
		for p := range t.planeCount() {
			src := t.levels[i].data[p*size : (p+1)*size]
			enc, err := encodePlane(src, int(w), int(h))
			if err != nil {
				return nil, fmt.Errorf("level %d plane %d: %w", i, p, err)
			}
			data = append(data, enc...)
		}
		newLevels[i] = level{data: data}
	}

	return newLevels, nil
}
