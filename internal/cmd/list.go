package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hoperedemption/imgfs/internal/imgfs"
	"github.com/hoperedemption/imgfs/internal/imgfserr"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <imgFS_filename>",
		Short: "List the content of an imgFS store",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return imgfserr.ErrNotEnoughArguments
			}
			if len(args) > 1 {
				return imgfserr.ErrInvalidCommand
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFilename(args[0]); err != nil {
				return err
			}

			store, err := imgfs.Open(args[0], false, nil)
			if err != nil {
				return err
			}
			defer store.Close()

			return store.DumpText(os.Stdout)
		},
	}
}
