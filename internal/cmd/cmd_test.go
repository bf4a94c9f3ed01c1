package cmd

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoperedemption/imgfs/internal/imgfs"
	"github.com/hoperedemption/imgfs/internal/imgfserr"
)

func TestSubcommandsRegistered(t *testing.T) {
	root := NewRootCmd()

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"list", "create", "read", "insert", "delete"} {
		assert.True(t, names[name], "%q subcommand not registered", name)
	}
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.Execute()
}

func TestArgumentValidation(t *testing.T) {
	assert.ErrorIs(t, execute(t, "list"), imgfserr.ErrNotEnoughArguments)
	assert.ErrorIs(t, execute(t, "list", "a", "b"), imgfserr.ErrInvalidCommand)
	assert.ErrorIs(t, execute(t, "delete", "store.imgfs"), imgfserr.ErrNotEnoughArguments)
	assert.ErrorIs(t, execute(t, "delete", "store.imgfs", "id", "extra"), imgfserr.ErrInvalidCommand)
	assert.ErrorIs(t, execute(t, "insert", "store.imgfs", "id"), imgfserr.ErrNotEnoughArguments)
	assert.ErrorIs(t, execute(t, "read", "store.imgfs"), imgfserr.ErrNotEnoughArguments)
	assert.ErrorIs(t, execute(t, "create"), imgfserr.ErrNotEnoughArguments)
}

func TestCreateOptionValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.imgfs")

	assert.ErrorIs(t, execute(t, "create", path, "-max_files", "0"), imgfserr.ErrMaxFiles)
	assert.ErrorIs(t, execute(t, "create", path, "-max_files"), imgfserr.ErrNotEnoughArguments)
	assert.ErrorIs(t, execute(t, "create", path, "-thumb_res", "0", "64"), imgfserr.ErrResolutions)
	assert.ErrorIs(t, execute(t, "create", path, "-thumb_res", "129", "64"), imgfserr.ErrResolutions)
	assert.ErrorIs(t, execute(t, "create", path, "-small_res", "513", "512"), imgfserr.ErrResolutions)
	assert.ErrorIs(t, execute(t, "create", path, "-small_res", "512"), imgfserr.ErrNotEnoughArguments)
	assert.ErrorIs(t, execute(t, "create", path, "-bogus"), imgfserr.ErrInvalidArgument)

	// No file may exist after a failed create.
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestCreateDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh.imgfs")
	require.NoError(t, execute(t, "create", path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(imgfs.HeaderSize+defaultMaxFiles*imgfs.MetadataSize), info.Size())

	store, err := imgfs.Open(path, false, nil)
	require.NoError(t, err)
	defer store.Close()
	assert.Equal(t, uint32(defaultMaxFiles), store.Header.MaxFiles)
	assert.Equal(t, [4]uint16{64, 64, 256, 256}, store.Header.ResizedRes)
}

func TestCreateCustomOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.imgfs")
	require.NoError(t, execute(t, "create", path,
		"-max_files", "10", "-thumb_res", "32", "48", "-small_res", "200", "300"))

	store, err := imgfs.Open(path, false, nil)
	require.NoError(t, err)
	defer store.Close()
	assert.Equal(t, uint32(10), store.Header.MaxFiles)
	assert.Equal(t, [4]uint16{32, 48, 200, 300}, store.Header.ResizedRes)
}

func TestHelperParsers(t *testing.T) {
	assert.Equal(t, uint16(64), atoUint16("64"))
	assert.Equal(t, uint16(0), atoUint16("nan"))
	assert.Equal(t, uint16(0), atoUint16("-1"))
	assert.Equal(t, uint16(0), atoUint16("65536"))
	assert.Equal(t, uint32(128), atoUint32("128"))
	assert.Equal(t, uint32(0), atoUint32("4294967296"))
}
