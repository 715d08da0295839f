package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/texturelab/ktx2/endian"
	"github.com/texturelab/ktx2/section"
)

// fileInfo is the JSON shape of the info command output.
type fileInfo struct {
	Path        string      `json:"path"`
	FileSize    int         `json:"fileSize"`
	VkFormat    string      `json:"vkFormat"`
	TypeSize    uint32      `json:"typeSize"`
	Width       uint32      `json:"width"`
	Height      uint32      `json:"height"`
	Depth       uint32      `json:"depth"`
	Layers      uint32      `json:"layers"`
	Faces       uint32      `json:"faces"`
	Scheme      string      `json:"supercompression"`
	ColorModel  string      `json:"colorModel"`
	Transfer    string      `json:"transfer"`
	Premult     bool        `json:"premultipliedAlpha"`
	BlockDims   string      `json:"blockDims"`
	Levels      []levelInfo `json:"levels"`
	KeyValues   []string    `json:"keyValues,omitempty"`
	KVDByteSize uint32      `json:"kvdByteSize,omitempty"`
}

type levelInfo struct {
	Level              int    `json:"level"`
	ByteOffset         uint64 `json:"byteOffset"`
	ByteLength         uint64 `json:"byteLength"`
	UncompressedLength uint64 `json:"uncompressedByteLength"`
}

func infoCmd() *cli.Command {
	var (
		path   string
		asJSON bool
	)

	return &cli.Command{
		Name:  "info",
		Usage: "Inspect the contents of a texture container file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "input",
				Aliases:     []string{"i"},
				Usage:       "path to container file",
				Destination: &path,
				Required:    true,
			},
			&cli.BoolFlag{Name: "json", Usage: "emit machine-readable JSON", Destination: &asJSON},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			_ = ctx

			data, err := os.ReadFile(path)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: read %s: %v", path, err), 1)
			}

			info, err := collectInfo(path, data)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")

				return enc.Encode(info)
			}

			printInfo(info)

			return nil
		},
	}
}

// collectInfo parses the raw sections directly so the tool reports exactly
// what is on disk, including files whose payloads it cannot decode.
func collectInfo(path string, data []byte) (*fileInfo, error) {
	engine := endian.GetLittleEndianEngine()

	header, err := section.ParseHeader(data, engine)
	if err != nil {
		return nil, err
	}

	entries, err := section.ParseLevelIndex(data, int(header.LevelCount), uint64(len(data)), engine)
	if err != nil {
		return nil, err
	}

	info := &fileInfo{
		Path:        path,
		FileSize:    len(data),
		VkFormat:    header.VkFormat.String(),
		TypeSize:    header.TypeSize,
		Width:       header.PixelWidth,
		Height:      header.PixelHeight,
		Depth:       header.PixelDepth,
		Layers:      header.LayerCount,
		Faces:       header.FaceCount,
		Scheme:      header.Scheme.String(),
		KVDByteSize: header.KVDByteLength,
	}

	if header.DFDByteLength > 0 {
		end := uint64(header.DFDByteOffset) + uint64(header.DFDByteLength)
		if end <= uint64(len(data)) {
			dfd, err := section.ParseFormatDescriptor(data[header.DFDByteOffset:end], engine)
			if err != nil {
				return nil, err
			}
			info.ColorModel = dfd.Model.String()
			info.Transfer = dfd.Transfer.String()
			info.Premult = dfd.PremultipliedAlpha
			info.BlockDims = fmt.Sprintf("%dx%d", dfd.BlockWidth, dfd.BlockHeight)
		}
	}

	if header.KVDByteLength > 0 {
		end := uint64(header.KVDByteOffset) + uint64(header.KVDByteLength)
		if end <= uint64(len(data)) {
			kvd, err := section.ParseKeyValueData(data[header.KVDByteOffset:end], engine)
			if err != nil {
				return nil, err
			}
			for k := range kvd {
				info.KeyValues = append(info.KeyValues, k)
			}
			sort.Strings(info.KeyValues)
		}
	}

	for i, e := range entries {
		info.Levels = append(info.Levels, levelInfo{
			Level:              i,
			ByteOffset:         e.ByteOffset,
			ByteLength:         e.ByteLength,
			UncompressedLength: e.UncompressedByteLength,
		})
	}

	return info, nil
}

func printInfo(info *fileInfo) {
	fmt.Printf("File: %s (%d bytes)\n", info.Path, info.FileSize)
	row("vkFormat", info.VkFormat)
	row("dimensions", fmt.Sprintf("%dx%dx%d", info.Width, info.Height, info.Depth))
	row("layers", fmt.Sprintf("%d", info.Layers))
	row("faces", fmt.Sprintf("%d", info.Faces))
	row("levels", fmt.Sprintf("%d", len(info.Levels)))
	row("supercompression", info.Scheme)
	row("colorModel", info.ColorModel)
	row("transfer", info.Transfer)
	row("premultiplied", fmt.Sprintf("%v", info.Premult))
	row("blockDims", info.BlockDims)
	if len(info.KeyValues) > 0 {
		row("metadata", strings.Join(info.KeyValues, ", "))
	}

	fmt.Println("\nLevel index:")
	for _, l := range info.Levels {
		fmt.Printf("  level %-2d off=%-10d len=%-10d uncompressed=%d\n",
			l.Level, l.ByteOffset, l.ByteLength, l.UncompressedLength)
	}
}

func row(label, value string) {
	if value == "" {
		return
	}
	fmt.Printf("%-20s %s\n", label+":", value)
}
