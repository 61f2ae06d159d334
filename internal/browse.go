package internal

import (
	"fmt"
	"os"
	"path/filepath"
)

// BuildBrowse creates a hardlink tree under <library>/browse organized
// by capture date: browse/<YYYY>/<MM>/<DD>-<fid>.jpg, each link pointing
// at the fingerprint-addressed master. The store itself is opaque to a
// human; the browse tree keeps it navigable without duplicating bytes.
// Photos with an unknown date land under browse/unknown. Existing links
// are left alone, so rebuilding is cheap and idempotent.
func (a *Archive) BuildBrowse() (int, error) {
	photos, err := a.Catalog.List()
	if err != nil {
		return 0, err
	}

	browseRoot := filepath.Join(a.Config.Library, "browse")
	linked := 0
	for _, p := range photos {
		master := a.Masters.PathFor(p.Fingerprint)
		if _, err := os.Stat(master); err != nil {
			fmt.Printf("Warning: skipping %s - master missing\n", p.FID())
			continue
		}

		var linkPath string
		if p.Taken == TakenUnknown {
			linkPath = filepath.Join(browseRoot, "unknown", p.FID()+".jpg")
		} else {
			t := parseTaken(p.Taken)
			linkPath = filepath.Join(browseRoot,
				fmt.Sprintf("%04d", t.Year()),
				fmt.Sprintf("%02d", t.Month()),
				fmt.Sprintf("%02d-%s.jpg", t.Day(), p.FID()))
		}

		if _, err := os.Lstat(linkPath); err == nil {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(linkPath), 0755); err != nil {
			return linked, fmt.Errorf("failed to create browse directory: %w", err)
		}
		if err := os.Link(master, linkPath); err != nil {
			// Hardlink can fail across filesystems; skip rather than abort.
			fmt.Printf("Warning: hardlink failed for %s: %v\n", p.FID(), err)
			continue
		}
		linked++
	}
	return linked, nil
}
