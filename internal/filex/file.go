package filex

import (
	"bytes"
	"fmt"
	"os"
)

// MaxSecretFileSize bounds how much ReadTrimmed is willing to load.
const MaxSecretFileSize = 64 << 10

// ReadTrimmed reads a small text file, such as a mounted secret, and strips
// leading and trailing whitespace including the final newline.
func ReadTrimmed(path string) ([]byte, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if fi.IsDir() {
		return nil, fmt.Errorf("read %s: is a directory", path)
	}

	if fi.Size() > MaxSecretFileSize {
		return nil, fmt.Errorf("read %s: file is too large (%d bytes)", path, fi.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return bytes.TrimSpace(data), nil
}
