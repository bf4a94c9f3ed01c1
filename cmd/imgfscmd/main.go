package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/hoperedemption/imgfs/internal/cmd"
	"github.com/hoperedemption/imgfs/internal/imaging"
	"github.com/hoperedemption/imgfs/internal/imgfserr"
	"github.com/hoperedemption/imgfs/internal/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger.InitFromEnv()

	imaging.Startup()
	defer imaging.Shutdown()

	root := cmd.NewRootCmd()
	err := root.Execute()
	if err == nil {
		return 0
	}

	fmt.Fprintf(os.Stderr, "ERROR: %s\n", imgfserr.Message(err))

	// Command-parse failures re-print the help text; errors cobra produced
	// itself (unknown command, bad flags) count as invalid commands.
	kind := imgfserr.Kind(err)
	if kind == nil {
		err = imgfserr.ErrInvalidCommand
		kind = err
	}
	switch {
	case errors.Is(kind, imgfserr.ErrInvalidCommand),
		errors.Is(kind, imgfserr.ErrNotEnoughArguments),
		errors.Is(kind, imgfserr.ErrInvalidArgument):
		_ = root.Help()
	}

	return imgfserr.ExitCode(err)
}
