package internal

import (
	"fmt"
	"image"
	"os"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	exiftool "github.com/barasher/go-exiftool"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/tiff"
)

// TakenUnknown is the epoch sentinel marking "capture date unknown".
// An explicit marker beats a silently wrong date from a drifted camera
// clock.
const TakenUnknown = "19700101T000000"

const takenLayout = "20060102T150405"

const exifLayout = "2006:01:02 15:04:05"

// Metadata is the canonical per-photo metadata derived once at import.
type Metadata struct {
	Taken    string // YYYYMMDDTHHMMSS, or TakenUnknown
	Rotation int    // Corrective rotation in degrees: -90, 0, 90 or 180
	Width    int    // Raw stored pixel width (no orientation swap)
	Height   int
}

// Extractor reads capture metadata. goexif handles the common in-process
// path; an exiftool sidecar process (when enabled and installed) adds
// tag coverage and is the only backend that can rewrite the orientation
// tag on a stored master.
type Extractor struct {
	et *exiftool.Exiftool
}

// NewExtractor builds an Extractor. With useExiftool set it starts a
// stay-open exiftool process; a missing exiftool binary is an error so
// the caller can decide to degrade.
func NewExtractor(useExiftool bool) (*Extractor, error) {
	if !useExiftool {
		return &Extractor{}, nil
	}
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("failed to start exiftool: %w", err)
	}
	return &Extractor{et: et}, nil
}

func (e *Extractor) Close() {
	if e.et != nil {
		e.et.Close()
	}
}

// CanWrite reports whether the extractor can rewrite tags in place.
func (e *Extractor) CanWrite() bool {
	return e.et != nil
}

// Extract derives the canonical metadata for one image file.
func (e *Extractor) Extract(path string) (Metadata, error) {
	m := Metadata{Taken: TakenUnknown}

	w, h, err := imageSize(path)
	if err != nil {
		return m, fmt.Errorf("failed to read image dimensions: %w", err)
	}
	m.Width, m.Height = w, h

	var createDate, dateOriginal string

	f, err := os.Open(path)
	if err != nil {
		return m, err
	}
	if x, err := exif.Decode(f); err == nil {
		m.Rotation = rotationFromOrientation(exifOrientation(x))
		createDate = exifDateField(x, exif.DateTimeDigitized)
		dateOriginal = exifDateField(x, exif.DateTimeOriginal)
	}
	f.Close()

	// exiftool sees tags goexif misses (HEIC, maker notes, XMP).
	if e.et != nil {
		fms := e.et.ExtractMetadata(path)
		if len(fms) == 1 && fms[0].Err == nil {
			if createDate == "" {
				createDate = exiftoolDateField(fms[0], "CreateDate")
			}
			if dateOriginal == "" {
				dateOriginal = exiftoolDateField(fms[0], "DateTimeOriginal")
			}
		}
	}

	modify := ""
	if fi, err := os.Stat(path); err == nil {
		modify = fi.ModTime().Format(takenLayout)
	}

	// Fallback chain: CreateDate, DateTimeOriginal, FileModifyDate.
	m.Taken = chooseTaken([]string{createDate, dateOriginal, modify})
	return m, nil
}

// ResetOrientation rewrites the stored orientation tag to "normal" (1).
// The corrective rotation is carried as catalog state from then on, not
// re-derived from file metadata. Requires the exiftool backend.
func (e *Extractor) ResetOrientation(path string) error {
	if e.et == nil {
		return fmt.Errorf("orientation reset requires exiftool")
	}
	fms := e.et.ExtractMetadata(path)
	if len(fms) != 1 {
		return fmt.Errorf("failed to read metadata for %s", path)
	}
	if fms[0].Err != nil {
		return fms[0].Err
	}
	fms[0].SetString("Orientation#", "1")
	e.et.WriteMetadata(fms)
	if fms[0].Err != nil {
		return fmt.Errorf("failed to reset orientation on %s: %w", path, fms[0].Err)
	}
	return nil
}

// rotationFromOrientation maps an EXIF orientation tag to the corrective
// rotation applied at display time. Mirrored orientations are rare from
// cameras and treated as unrotated.
func rotationFromOrientation(orientation int) int {
	switch orientation {
	case 6:
		return 90
	case 8:
		return -90
	case 3:
		return 180
	}
	return 0
}

// chooseTaken returns the first candidate that is a strict
// YYYYMMDDTHHMMSS timestamp with a year after 1970, else the sentinel.
// Candidates may be empty (tag absent).
func chooseTaken(candidates []string) string {
	for _, c := range candidates {
		if validTaken(c) {
			return c
		}
	}
	return TakenUnknown
}

func validTaken(ts string) bool {
	if len(ts) != len(takenLayout) {
		return false
	}
	t, err := time.Parse(takenLayout, ts)
	if err != nil {
		return false
	}
	return t.Year() > 1970
}

func exifOrientation(x *exif.Exif) int {
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 0
	}
	o, err := tag.Int(0)
	if err != nil {
		return 0
	}
	return o
}

// exifDateField reads one EXIF date tag and normalizes it to the taken
// layout; empty when absent or unparseable.
func exifDateField(x *exif.Exif, field exif.FieldName) string {
	tag, err := x.Get(field)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	t, err := time.Parse(exifLayout, s)
	if err != nil {
		return ""
	}
	return t.Format(takenLayout)
}

func exiftoolDateField(fm exiftool.FileMetadata, key string) string {
	s, err := fm.GetString(key)
	if err != nil {
		return ""
	}
	t, err := time.Parse(exifLayout, s)
	if err != nil {
		return ""
	}
	return t.Format(takenLayout)
}

func imageSize(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
