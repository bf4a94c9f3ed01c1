// Package imgfserr defines the error kinds shared by the storage engine, the
// HTTP layers and the CLI, together with their canonical messages and exit
// codes.
package imgfserr

import "errors"

var (
	ErrIO                 = errors.New("I/O error")
	ErrOutOfMemory        = errors.New("out of memory")
	ErrRuntime            = errors.New("runtime error")
	ErrDebug              = errors.New("internal error")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidCommand     = errors.New("invalid command")
	ErrInvalidFilename    = errors.New("invalid filename")
	ErrInvalidImgID       = errors.New("invalid image id")
	ErrImageNotFound      = errors.New("image not found")
	ErrDuplicateID        = errors.New("duplicate image id")
	ErrImgFSFull          = errors.New("image store is full")
	ErrMaxFiles           = errors.New("invalid maximum number of files")
	ErrNotEnoughArguments = errors.New("not enough arguments")
	ErrResolutions        = errors.New("invalid image resolutions")
	ErrImgLib             = errors.New("image processing error")
)

// kinds, in exit-code order: kind i exits with code i+1, since exit code 0 is
// reserved for success.
var kinds = []error{
	ErrIO,
	ErrOutOfMemory,
	ErrRuntime,
	ErrDebug,
	ErrInvalidArgument,
	ErrInvalidCommand,
	ErrInvalidFilename,
	ErrInvalidImgID,
	ErrImageNotFound,
	ErrDuplicateID,
	ErrImgFSFull,
	ErrMaxFiles,
	ErrNotEnoughArguments,
	ErrResolutions,
	ErrImgLib,
}

// Kind returns the error kind err belongs to, or nil when err wraps none of
// them.
func Kind(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// Message returns the canonical message for err's kind. Errors outside the
// known kinds fall back to their own message.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if k := Kind(err); k != nil {
		return k.Error()
	}
	return err.Error()
}

// ExitCode maps err to the process exit code: 0 for nil, a stable non-zero
// code per kind, and the ErrDebug code for anything unrecognized.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	for i, k := range kinds {
		if errors.Is(err, k) {
			return i + 1
		}
	}
	return ExitCode(ErrDebug)
}
