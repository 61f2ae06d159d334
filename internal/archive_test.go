package internal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestArchive(t *testing.T) *Archive {
	t.Helper()
	cfg := &Config{
		Library:       t.TempDir(),
		PreviewWidth:  160,
		PreviewHeight: 120,
		JPEGQuality:   85,
		ImageExt:      []string{".jpg", ".jpeg", ".png"},
	}
	a, err := OpenArchive(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}
