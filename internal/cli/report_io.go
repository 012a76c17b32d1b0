package cli

import (
	"os"

	"github.com/pkg/errors"
)

func createFile(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "creating report file %q", path)
	}
	return f, nil
}
