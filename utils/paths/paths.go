package paths

import (
	"os"
	"path/filepath"
)

func GetCurrentBinaryPath() string {
	// get current binary path
	dir, err := filepath.Abs(filepath.Dir(os.Args[0]))
	if err != nil {
		// get current working dir
		if dir, err = os.Getwd(); err != nil {
			return "."
		}
	}

	return dir
}
