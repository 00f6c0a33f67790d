package providers

import "github.com/spf13/afero"

// NewFsProvider returns the filesystem the purge engine works on.
func NewFsProvider() afero.Fs {
	return afero.NewOsFs()
}
