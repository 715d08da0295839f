package texture

import (
	"fmt"

	"github.com/texturelab/ktx2/encoder"
	"github.com/texturelab/ktx2/errs"
	"github.com/texturelab/ktx2/format"
	"github.com/texturelab/ktx2/section"
)

// Transcode converts universal intermediate data into the concrete target
// block format. It is a destructive one-shot: on success the universal
// payload is gone, replaced by target-format data with SchemeNone, and
// NeedsTranscoding reports false. To reach several targets, transcode
// separate copies read from the same source bytes.
//
// Fails with ErrInvalidOperation when the container does not need
// transcoding and ErrUnsupportedTargetFormat when the stored encoding has
// no path to target.
func (t *Texture) Transcode(target format.TranscodeTarget, flags format.TranscodeFlags) error {
	if !t.NeedsTranscoding() {
		return fmt.Errorf("transcode concrete format %s: %w", t.vkFormat, errs.ErrInvalidOperation)
	}
	if !t.dataLoaded {
		return fmt.Errorf("transcode: %w", errs.ErrDataNotLoaded)
	}

	tc, err := encoder.TranscoderFor(t.dfd.Model)
	if err != nil {
		return err
	}

	newFormat, err := tc.TargetFormat(target, t.dfd.Transfer == format.TransferSRGB)
	if err != nil {
		return err
	}
	newDFD, err := section.DescriptorForFormat(newFormat, t.dfd.PremultipliedAlpha)
	if err != nil {
		return err
	}
	newDFD.Transfer = t.dfd.Transfer

	src, err := t.inflatedLevels()
	if err != nil {
		return err
	}

	newLevels := make([]level, len(src))
	for i := range src {
		w, h, _ := t.levelDims(i)
		planes, err := encoder.SplitPlanes(src[i].data, t.planeCount())
		if err != nil {
			return fmt.Errorf("level %d: %w", i, err)
		}

		var data []byte
		for p, payload := range planes {
			out, err := tc.TranscodePlane(payload, int(w), int(h), target, flags)
			if err != nil {
				return fmt.Errorf("level %d plane %d: %w", i, p, err)
			}
			data = append(data, out...)
		}
		newLevels[i] = level{data: data}
	}

	// commit
	t.levels = newLevels
	t.vkFormat = newFormat
	t.typeSize = 1
	t.scheme = format.SchemeNone
	t.dfd = newDFD

	return nil
}
