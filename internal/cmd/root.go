// Package cmd implements the imgfscmd command set over the storage engine.
package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hoperedemption/imgfs/internal/imgfs"
	"github.com/hoperedemption/imgfs/internal/imgfserr"
)

// maxFilenameLen bounds store file paths accepted on the command line.
const maxFilenameLen = 4096

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "imgfscmd",
		Short:         "imgFS command line tool",
		Long:          "imgfscmd: create, inspect and modify imgFS image stores.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return imgfserr.ErrNotEnoughArguments
		},
	}

	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newCreateCmd())
	rootCmd.AddCommand(newReadCmd())
	rootCmd.AddCommand(newInsertCmd())
	rootCmd.AddCommand(newDeleteCmd())

	return rootCmd
}

// stringOK reports whether s is non-empty and fits in max bytes.
func stringOK(s string, max int) bool {
	return s != "" && len(s) <= max
}

func checkFilename(path string) error {
	if !stringOK(path, maxFilenameLen) {
		return imgfserr.ErrInvalidFilename
	}
	return nil
}

func checkImgID(id string) error {
	if !stringOK(id, imgfs.MaxImgID) {
		return imgfserr.ErrInvalidImgID
	}
	return nil
}

// atoUint16 parses s as an unsigned 16-bit value, returning 0 on any parse
// failure so callers reject it with their own error kind.
func atoUint16(s string) uint16 {
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0
	}
	return uint16(v)
}

// atoUint32 is atoUint16 for 32-bit values.
func atoUint32(s string) uint32 {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0
	}
	return uint32(v)
}
