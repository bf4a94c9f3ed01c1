package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hoperedemption/imgfs/internal/config"
	"github.com/hoperedemption/imgfs/internal/imaging"
	"github.com/hoperedemption/imgfs/internal/imgfs"
	"github.com/hoperedemption/imgfs/internal/imgfserr"
	"github.com/hoperedemption/imgfs/internal/source"
)

func newInsertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insert <imgFS_filename> <imgID> <path|s3://bucket/key>",
		Short: "Insert a new image into an imgFS store",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 3 {
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

			data, err := source.Fetch(cmd.Context(), config.Load(), args[2])
			if err != nil {
				return err
			}

			store, err := imgfs.Open(args[0], true, imaging.NewVipsCodec())
			if err != nil {
				return err
			}
			defer store.Close()

			return store.Insert(data, imgID)
		},
	}
}
