package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/texturelab/ktx2"
	"github.com/texturelab/ktx2/format"
)

func transcodeCmd() *cli.Command {
	var (
		input  string
		output string
		target string
	)

	return &cli.Command{
		Name:  "transcode",
		Usage: "Transcode universal texture data to a concrete GPU format",
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
			&cli.StringFlag{Name: "target", Usage: "target format: rgba32, bc1, bc3, bc7, etc1, astc", Value: "rgba32", Destination: &target},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			_ = ctx

			tex, err := ktx2.ReadFile(input)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			if !tex.NeedsTranscoding() {
				return cli.Exit(fmt.Sprintf("error: %s holds concrete %s data, nothing to transcode", input, tex.VkFormat()), 1)
			}

			tgt, err := parseTarget(target)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			if err := tex.Transcode(tgt, 0); err != nil {
				return cli.Exit(fmt.Sprintf("error: transcode: %v", err), 1)
			}

			if err := ktx2.WriteFile(tex, output); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			fmt.Printf("wrote %s: %s\n", output, tex.VkFormat())

			return nil
		},
	}
}

func parseTarget(name string) (format.TranscodeTarget, error) {
	switch name {
	case "rgba32":
		return format.TargetRGBA32, nil
	case "bc1":
		return format.TargetBC1RGB, nil
	case "bc3":
		return format.TargetBC3RGBA, nil
	case "bc7":
		return format.TargetBC7RGBA, nil
	case "etc1":
		return format.TargetETC1RGB, nil
	case "astc":
		return format.TargetASTC4x4RGBA, nil
	default:
		return 0, fmt.Errorf("unknown transcode target %q", name)
	}
}
