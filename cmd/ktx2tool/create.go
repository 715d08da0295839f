package main

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/texturelab/ktx2"
	"github.com/texturelab/ktx2/format"
)

func createCmd() *cli.Command {
	var (
		input   string
		output  string
		srgb    bool
		mipmap  bool
		encode  string
		quality int
		scheme  string
		level   int
	)

	return &cli.Command{
		Name:  "create",
		Usage: "Build a texture container from a PNG image",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "input",
				Aliases:     []string{"i"},
				Usage:       "path to source PNG",
				Destination: &input,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "path to container file to write",
				Destination: &output,
				Required:    true,
			},
			&cli.BoolFlag{Name: "srgb", Usage: "tag the data as sRGB encoded", Value: true, Destination: &srgb},
			&cli.BoolFlag{Name: "mipmap", Usage: "generate a full mip chain", Destination: &mipmap},
			&cli.StringFlag{Name: "encode", Usage: "compression family: none, astc, basis", Value: "none", Destination: &encode},
			&cli.IntFlag{Name: "quality", Usage: "encoder quality (astc 0-100, basis 0-255)", Value: 60, Destination: &quality},
			&cli.StringFlag{Name: "supercompress", Usage: "supercompression scheme: none, zstd, zlib", Value: "none", Destination: &scheme},
			&cli.IntFlag{Name: "level", Usage: "supercompression level (zstd 1-22, zlib 1-9)", Value: 3, Destination: &level},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			_ = ctx

			rgba, err := loadPNG(input)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			tex, err := buildTexture(rgba, srgb, mipmap)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			switch encode {
			case "none":
			case "astc":
				err = tex.CompressAstc(quality)
			case "basis":
				err = tex.CompressBasis(quality)
			default:
				return cli.Exit(fmt.Sprintf("error: unknown encode family %q", encode), 1)
			}
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: encode: %v", err), 1)
			}

			if scheme != "none" {
				s, err := parseScheme(scheme)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
				if err := tex.Deflate(s, level); err != nil {
					return cli.Exit(fmt.Sprintf("error: supercompress: %v", err), 1)
				}
			}

			if err := ktx2.WriteFile(tex, output); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			fmt.Printf("wrote %s: %dx%d, %d levels, %s, %s\n",
				output, tex.Width(), tex.Height(), tex.LevelCount(), tex.VkFormat(), tex.SupercompressionScheme())

			return nil
		},
	}
}

func loadPNG(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	return rgba, nil
}

func buildTexture(rgba *image.RGBA, srgb, mipmap bool) (*ktx2.Texture, error) {
	w := uint32(rgba.Bounds().Dx())
	h := uint32(rgba.Bounds().Dy())

	f := format.FormatR8G8B8A8Unorm
	if srgb {
		f = format.FormatR8G8B8A8Srgb
	}

	levels := uint32(1)
	if mipmap {
		for m := max(w, h); m > 1; m >>= 1 {
			levels++
		}
	}

	tex, err := ktx2.NewTexture(ktx2.CreateInfo{
		Format:     f,
		BaseWidth:  w,
		BaseHeight: h,
		BaseDepth:  1,
		LevelCount: levels,
		LayerCount: 1,
		FaceCount:  1,
	}, true)
	if err != nil {
		return nil, err
	}

	cur := rgba
	for lvl := uint32(0); lvl < levels; lvl++ {
		if err := tex.SetImageFromMemory(int(lvl), 0, 0, cur.Pix); err != nil {
			return nil, fmt.Errorf("level %d: %w", lvl, err)
		}
		if lvl+1 < levels {
			cur = downsample(cur)
		}
	}

	return tex, nil
}

// downsample box-filters an image to the next mip level.
func downsample(src *image.RGBA) *image.RGBA {
	sw := src.Bounds().Dx()
	sh := src.Bounds().Dy()
	dw := max(sw/2, 1)
	dh := max(sh/2, 1)

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	for y := range dh {
		for x := range dw {
			var sum [4]uint32
			var n uint32
			for dy := range 2 {
				for dx := range 2 {
					sx := min(x*2+dx, sw-1)
					sy := min(y*2+dy, sh-1)
					p := src.PixOffset(sx, sy)
					for ch := range 4 {
						sum[ch] += uint32(src.Pix[p+ch])
					}
					n++
				}
			}
			p := dst.PixOffset(x, y)
			for ch := range 4 {
				dst.Pix[p+ch] = uint8((sum[ch] + n/2) / n)
			}
		}
	}

	return dst
}
