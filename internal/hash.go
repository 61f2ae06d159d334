package internal

import (
	"crypto/md5"
	"fmt"
	"io"
	"os"
)

// Fingerprint computes the MD5 content hash of a file. The hash is taken
// over the original bytes exactly as they arrive, before any metadata
// rewriting, so re-importing the same capture always lands on the same
// fingerprint. Streams so memory use is independent of file size.
func Fingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
