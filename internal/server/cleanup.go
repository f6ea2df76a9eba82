package server

import (
	"os"

	"github.com/spf13/afero"
)

// removeSocket removes the socket file. A missing file is not an error.
func removeSocket(fs afero.Fs, path string) error {
	if err := fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
