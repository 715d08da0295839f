package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/texturelab/ktx2"
	"github.com/texturelab/ktx2/format"
)

func supercompressCmd() *cli.Command {
	var (
		input  string
		output string
		scheme string
		level  int
	)

	return &cli.Command{
		Name:  "supercompress",
		Usage: "Apply a supercompression scheme to a container's level payloads",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "input",
				Aliases:     []string{"i"},
				Usage:       "path to container file",
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
			&cli.StringFlag{Name: "scheme", Usage: "supercompression scheme: zstd, zlib", Value: "zstd", Destination: &scheme},
			&cli.IntFlag{Name: "level", Usage: "compression level (zstd 1-22, zlib 1-9)", Value: 3, Destination: &level},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			_ = ctx

			tex, err := ktx2.ReadFile(input)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			s, err := parseScheme(scheme)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			before := tex.DataSize()
			if err := tex.Deflate(s, level); err != nil {
				return cli.Exit(fmt.Sprintf("error: supercompress: %v", err), 1)
			}

			if err := ktx2.WriteFile(tex, output); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			after := tex.DataSize()
			fmt.Printf("wrote %s: %s level %d, payload %d -> %d bytes (%.1f%%)\n",
				output, s, level, before, after, float64(after)/float64(before)*100)

			return nil
		},
	}
}

func parseScheme(name string) (format.SupercompressionScheme, error) {
	switch name {
	case "zstd":
		return format.SchemeZstd, nil
	case "zlib":
		return format.SchemeZLIB, nil
	default:
		return format.SchemeNone, fmt.Errorf("unknown supercompression scheme %q", name)
	}
}
