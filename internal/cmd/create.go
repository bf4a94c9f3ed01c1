package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hoperedemption/imgfs/internal/imgfs"
	"github.com/hoperedemption/imgfs/internal/imgfserr"
)

// create defaults and caps.
const (
	defaultMaxFiles = 128
	defaultThumbRes = 64
	defaultSmallRes = 256
	maxThumbRes     = 128
	maxSmallRes     = 512
)

func newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <imgFS_filename> [-max_files N] [-thumb_res W H] [-small_res W H]",
		Short: "Create a new imgFS store",
		Long: "Create a new imgFS store.\n" +
			"  -max_files N:     maximum number of images (default 128)\n" +
			"  -thumb_res W H:   thumbnail resolution (default 64x64, at most 128x128)\n" +
			"  -small_res W H:   small resolution (default 256x256, at most 512x512)",
		// Options use single-dash multi-value syntax, parsed by hand below.
		DisableFlagParsing: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return imgfserr.ErrNotEnoughArguments
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if err := checkFilename(path); err != nil {
				return err
			}

			maxFiles := uint32(defaultMaxFiles)
			thumbW, thumbH := uint16(defaultThumbRes), uint16(defaultThumbRes)
			smallW, smallH := uint16(defaultSmallRes), uint16(defaultSmallRes)

			rest := args[1:]
			for len(rest) > 0 {
				opt := rest[0]
				rest = rest[1:]

				switch opt {
				case "-max_files":
					if len(rest) < 1 {
						return imgfserr.ErrNotEnoughArguments
					}
					maxFiles = atoUint32(rest[0])
					rest = rest[1:]
					if maxFiles == 0 {
						return imgfserr.ErrMaxFiles
					}
				case "-thumb_res":
					if len(rest) < 2 {
						return imgfserr.ErrNotEnoughArguments
					}
					thumbW, thumbH = atoUint16(rest[0]), atoUint16(rest[1])
					rest = rest[2:]
					if !resolutionOK(thumbW, thumbH, maxThumbRes) {
						return imgfserr.ErrResolutions
					}
				case "-small_res":
					if len(rest) < 2 {
						return imgfserr.ErrNotEnoughArguments
					}
					smallW, smallH = atoUint16(rest[0]), atoUint16(rest[1])
					rest = rest[2:]
					if !resolutionOK(smallW, smallH, maxSmallRes) {
						return imgfserr.ErrResolutions
					}
				default:
					return imgfserr.ErrInvalidArgument
				}
			}

			tpl := imgfs.Header{MaxFiles: maxFiles}
			tpl.ResizedRes = [4]uint16{thumbW, thumbH, smallW, smallH}

			store, err := imgfs.Create(path, tpl, nil)
			if err != nil {
				return err
			}
			return store.Close()
		},
	}
}

func resolutionOK(width, height, max uint16) bool {
	return width != 0 && height != 0 && width <= max && height <= max
}
