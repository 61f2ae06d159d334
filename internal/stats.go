package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ArchiveStats aggregates catalog, store and preview state for one
// library.
type ArchiveStats struct {
	Photos          int
	ByYear          map[int]int
	UnknownDates    int // Photos carrying the epoch sentinel
	Rotated         int // Photos with a non-zero corrective rotation
	MasterBytes     int64
	PreviewsPresent int
	PreviewsMissing int
}

// Stats walks the catalog and the filesystem layers and reports archive
// statistics.
func (a *Archive) Stats() (*ArchiveStats, error) {
	photos, err := a.Catalog.List()
	if err != nil {
		return nil, err
	}

	s := &ArchiveStats{
		Photos: len(photos),
		ByYear: make(map[int]int),
	}

	for _, p := range photos {
		if p.Taken == TakenUnknown {
			s.UnknownDates++
		} else if year, err := strconv.Atoi(p.Taken[:4]); err == nil {
			s.ByYear[year]++
		}
		if p.Rotation != 0 {
			s.Rotated++
		}
		if _, err := os.Stat(a.PreviewAbsPath(PreviewRelPath(p.Taken, p.ID))); err == nil {
			s.PreviewsPresent++
		} else {
			s.PreviewsMissing++
		}
	}

	// Master bytes come from the store, not the catalog: the store is
	// what actually occupies the disk.
	err = filepath.Walk(a.Masters.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil // empty library
			}
			return err
		}
		if !info.IsDir() {
			s.MasterBytes += info.Size()
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to measure master store: %w", err)
	}

	return s, nil
}

// Render formats the stats for terminal output.
func (s *ArchiveStats) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Photos:    %d\n", s.Photos)
	fmt.Fprintf(&b, "Masters:   %.1f MB\n", float64(s.MasterBytes)/(1024*1024))
	fmt.Fprintf(&b, "Previews:  %d present, %d missing\n", s.PreviewsPresent, s.PreviewsMissing)
	fmt.Fprintf(&b, "Rotated:   %d\n", s.Rotated)
	if s.UnknownDates > 0 {
		fmt.Fprintf(&b, "No date:   %d\n", s.UnknownDates)
	}

	if len(s.ByYear) > 0 {
		years := make([]int, 0, len(s.ByYear))
		for y := range s.ByYear {
			years = append(years, y)
		}
		sort.Ints(years)
		b.WriteString("\nBy year:\n")
		for _, y := range years {
			fmt.Fprintf(&b, "  %d: %d\n", y, s.ByYear[y])
		}
	}
	return b.String()
}
