package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hoperedemption/imgfs/internal/imaging"
	"github.com/hoperedemption/imgfs/internal/imgfs"
	"github.com/hoperedemption/imgfs/internal/imgfserr"
)

func newReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <imgFS_filename> <imgID> [original|orig|thumbnail|thumb|small]",
		Short: "Read an image from an imgFS store and save it to a file",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 && len(args) != 3 {
				return imgfserr.ErrNotEnoughArguments
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFilename(args[0]); err != nil {
				return err
			}
			imgID := args[1]
			if err := checkImgID(imgID); err != nil {
				return err
			}

			res := imgfs.ResOrig
			if len(args) == 3 {
				var ok bool
				res, ok = imgfs.ParseResolution(args[2])
				if !ok {
					return imgfserr.ErrResolutions
				}
			}

			store, err := imgfs.Open(args[0], true, imaging.NewVipsCodec())
			if err != nil {
				return err
			}
			defer store.Close()

			data, err := store.Read(imgID, res)
			if err != nil {
				return err
			}

			out := fmt.Sprintf("%s_%s.jpg", imgID, res)
			if err := os.WriteFile(out, data, 0644); err != nil {
				return fmt.Errorf("%w: write %s: %v", imgfserr.ErrIO, out, err)
			}
			return nil
		},
	}
}
