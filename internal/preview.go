package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
)

// PreviewBox is the bounding box previews are scaled to fit, described
// in display orientation.
type PreviewBox struct {
	Width  int
	Height int
}

// PreviewRelPath returns the library-relative preview path for a photo:
// preview/<YYYY>-<MM>/<DD>-<fid>.jpg. A pure function of taken and id,
// deliberately independent of fingerprint: correcting a capture date
// moves the expected preview and invalidates the old one.
func PreviewRelPath(taken string, id int64) string {
	t := parseTaken(taken)
	return filepath.Join(
		"preview",
		fmt.Sprintf("%04d-%02d", t.Year(), t.Month()),
		fmt.Sprintf("%02d-%s.jpg", t.Day(), FormatID(id)),
	)
}

// parseTaken parses a canonical taken value, full or date-only form.
// Unparseable values collapse to the epoch sentinel date.
func parseTaken(taken string) time.Time {
	if t, err := time.Parse(takenLayout, taken); err == nil {
		return t
	}
	if t, err := time.Parse("20060102", taken); err == nil {
		return t
	}
	return time.Unix(0, 0).UTC()
}

// DerivePreview loads a master, applies the corrective rotation, fits it
// within box and writes a JPEG to destPath, creating parent directories
// as needed. Re-encoding drops all embedded metadata. The box's width
// and height are swapped for ±90 rotations so the configured box always
// describes the display orientation. Not transactional: a crash can
// leave a truncated file, which --force regeneration replaces.
func DerivePreview(masterPath, destPath string, rotation int, box PreviewBox, quality int) error {
	img, err := imaging.Open(masterPath)
	if err != nil {
		return fmt.Errorf("failed to decode master %s: %w", masterPath, err)
	}

	switch rotation {
	case 90:
		// imaging rotates counter-clockwise; +90 corrective means
		// clockwise for display.
		img = imaging.Rotate270(img)
	case -90:
		img = imaging.Rotate90(img)
	case 180:
		img = imaging.Rotate180(img)
	}

	w, h := box.Width, box.Height
	if rotation == 90 || rotation == -90 {
		w, h = h, w
	}
	img = imaging.Fit(img, w, h, imaging.Lanczos)

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("failed to create preview directory: %w", err)
	}
	if err := imaging.Save(img, destPath, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("failed to write preview %s: %w", destPath, err)
	}
	return nil
}
