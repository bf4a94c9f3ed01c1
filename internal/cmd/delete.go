package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hoperedemption/imgfs/internal/imgfs"
	"github.com/hoperedemption/imgfs/internal/imgfserr"
)

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <imgFS_filename> <imgID>",
		Short: "Delete an image from an imgFS store",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return imgfserr.ErrNotEnoughArguments
			}
			if len(args) > 2 {
				return imgfserr.ErrInvalidCommand
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

			store, err := imgfs.Open(args[0], true, nil)
			if err != nil {
				return err
			}
			defer store.Close()

			return store.Delete(imgID)
		},
	}
}
