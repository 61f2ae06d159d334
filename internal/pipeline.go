package internal

import (
	"fmt"
	"os"
	"time"
)

// ImportState is how far one input made it through the pipeline.
type ImportState int

const (
	StatePending ImportState = iota
	StateHashed
	StateDedupChecked
	StateMetadataExtracted
	StateMasterWritten
	StateCatalogInserted
	StateJournaled
	StatePreviewWritten
	StateDone
	StateSkipped // terminal: fingerprint already cataloged
)

func (s ImportState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateHashed:
		return "hashed"
	case StateDedupChecked:
		return "dedup-checked"
	case StateMetadataExtracted:
		return "metadata-extracted"
	case StateMasterWritten:
		return "master-written"
	case StateCatalogInserted:
		return "catalog-inserted"
	case StateJournaled:
		return "journaled"
	case StatePreviewWritten:
		return "preview-written"
	case StateDone:
		return "done"
	case StateSkipped:
		return "skipped"
	}
	return "unknown"
}

// ImportResult is the structured per-item outcome an import reports.
type ImportResult struct {
	Source      string
	State       ImportState
	ID          int64
	Fingerprint string
	MasterPath  string
	PreviewPath string
	Err         *ImportError
}

// ImportReport summarizes one batch.
type ImportReport struct {
	Results    []ImportResult
	Imported   int
	Duplicates int
	Errors     int
	Aborted    string // non-empty when the circuit breaker tripped
	Stats      *ErrorStats
}

// ImportFile drives a single source file through the full pipeline:
// hash, dedup check, metadata, master write, catalog insert, journal
// append, preview derivation.
func (a *Archive) ImportFile(src string) ImportResult {
	res := ImportResult{Source: src, State: StatePending}

	if !a.Config.RecognizedExt(src) {
		res.Err = inputError(src, fmt.Errorf("unrecognized image extension"))
		return res
	}
	if fi, err := os.Stat(src); err != nil {
		res.Err = inputError(src, err)
		return res
	} else if fi.IsDir() {
		res.Err = inputError(src, fmt.Errorf("is a directory (use --recursive)"))
		return res
	}

	fp, err := Fingerprint(src)
	if err != nil {
		res.Err = ioError(src, err)
		return res
	}
	res.Fingerprint = fp
	res.State = StateHashed

	// Dedup: the catalog is the authority. A hit is a normal skip.
	existing, err := a.Catalog.ByFingerprint(fp)
	if err != nil {
		res.Err = ioError(src, err)
		return res
	}
	res.State = StateDedupChecked
	if existing != nil {
		res.State = StateSkipped
		res.ID = existing.ID
		res.Err = duplicateError(src, fp, existing.ID)
		return res
	}

	meta, err := a.Meta.Extract(src)
	if err != nil {
		res.Err = inputError(src, err)
		return res
	}
	res.State = StateMetadataExtracted

	masterPath, err := a.Masters.Put(fp, src)
	if err != nil {
		res.Err = copyError(src, err)
		return res
	}
	res.MasterPath = masterPath
	res.State = StateMasterWritten

	// Normalize the stored orientation tag away; the rotation lives in
	// the catalog from here on. Best-effort: without exiftool the tag
	// stays, and previews still rotate correctly from catalog state.
	if meta.Rotation != 0 && a.Meta.CanWrite() {
		if err := a.Meta.ResetOrientation(masterPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
	if err := a.Masters.Seal(fp); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to mark master read-only: %v\n", err)
	}

	id, err := a.Catalog.Insert(Photo{
		Fingerprint: fp,
		Taken:       meta.Taken,
		Width:       meta.Width,
		Height:      meta.Height,
		Rotation:    meta.Rotation,
	})
	if err != nil {
		// The master is durably written but unrecorded: an orphan,
		// recoverable via check once the catalog is healthy again.
		res.Err = inconsistencyError(src, fmt.Errorf("master stored but catalog insert failed: %w", err))
		return res
	}
	res.ID = id
	res.State = StateCatalogInserted

	// The journal duplicates the catalog's fingerprint mapping on
	// purpose: it survives independently of catalog corruption.
	if err := a.MasterJournal.Append(id, fp); err != nil {
		res.Err = ioError(src, err)
		return res
	}
	res.State = StateJournaled

	a.ImportLog.Log("%s %s %s %s", time.Now().Format("20060102"), FormatID(id), fp, src)

	rel := PreviewRelPath(meta.Taken, id)
	if err := DerivePreview(masterPath, a.PreviewAbsPath(rel), meta.Rotation, a.Box(), a.Config.JPEGQuality); err != nil {
		res.Err = ioError(src, err)
		return res
	}
	if err := a.PreviewJournal.Append(id, rel); err != nil {
		res.Err = ioError(src, err)
		return res
	}
	res.PreviewPath = rel
	res.State = StateDone
	return res
}

// ImportBatch expands the inputs and imports them one at a time. A
// failure on one item does not abort the rest unless the error pattern
// trips the circuit breaker.
func (a *Archive) ImportBatch(inputs []string, recursive bool) *ImportReport {
	report := &ImportReport{Stats: NewErrorStats()}

	files, expandResults := ExpandInputs(inputs, recursive, a.Config)
	for _, r := range expandResults {
		report.Results = append(report.Results, r)
		if r.Err != nil {
			report.Errors++
			report.Stats.Add(r.Err)
		}
	}

	for _, f := range files {
		res := a.ImportFile(f)
		report.Results = append(report.Results, res)

		switch {
		case res.State == StateSkipped:
			report.Duplicates++
			report.Stats.ResetConsecutive()
		case res.Err != nil:
			report.Errors++
			report.Stats.Add(res.Err)
		default:
			report.Imported++
			report.Stats.ResetConsecutive()
		}

		if abort, reason := report.Stats.ShouldAbort(); abort {
			report.Aborted = reason
			break
		}
	}
	return report
}

// GeneratePreviews (re)derives previews for the given photos, or for the
// whole catalog when ids is empty. Policy per photo: compute the
// expected path from current taken/id; skip when it already exists
// unless forced; after writing, remove a previously journaled preview
// that now lives at a different path; journal the pair whenever not
// skipped.
func (a *Archive) GeneratePreviews(ids []int64, force bool) ([]PreviewResult, error) {
	photos, err := a.Catalog.List(ids...)
	if err != nil {
		return nil, err
	}
	journaled, err := a.PreviewJournal.Load()
	if err != nil {
		return nil, err
	}

	var results []PreviewResult
	for _, p := range photos {
		r := PreviewResult{ID: p.ID}
		rel := PreviewRelPath(p.Taken, p.ID)
		r.Path = rel
		abs := a.PreviewAbsPath(rel)

		if _, err := os.Stat(abs); err == nil {
			if !force {
				r.Status = PreviewSkipped
				results = append(results, r)
				continue
			}
			// Forced: an existing-but-unverified preview is suspect.
			if err := os.Remove(abs); err != nil {
				r.Err = ioError(abs, err)
				results = append(results, r)
				continue
			}
		}

		if !a.Masters.Exists(p.Fingerprint) {
			r.Err = inconsistencyError(a.Masters.PathFor(p.Fingerprint),
				fmt.Errorf("catalog row %s has no master file", p.FID()))
			results = append(results, r)
			continue
		}

		master := a.Masters.PathFor(p.Fingerprint)
		if err := DerivePreview(master, abs, p.Rotation, a.Box(), a.Config.JPEGQuality); err != nil {
			r.Err = ioError(abs, err)
			results = append(results, r)
			continue
		}
		r.Status = PreviewWritten

		// A corrected taken date moves the expected path; clean up the
		// preview journaled at the old location.
		if old, ok := journaled[p.ID]; ok && old != rel {
			oldAbs := a.PreviewAbsPath(old)
			if _, err := os.Stat(oldAbs); err == nil {
				if err := os.Remove(oldAbs); err == nil {
					r.Stale = old
				}
			}
		}

		if err := a.PreviewJournal.Append(p.ID, rel); err != nil {
			r.Err = ioError(abs, err)
		}
		results = append(results, r)
	}
	return results, nil
}

// PreviewStatus is the outcome of one preview derivation.
type PreviewStatus string

const (
	PreviewWritten PreviewStatus = "written"
	PreviewSkipped PreviewStatus = "skipped"
)

// PreviewResult reports one photo's preview derivation.
type PreviewResult struct {
	ID     int64
	Path   string // library-relative expected path
	Stale  string // old journaled path removed, if any
	Status PreviewStatus
	Err    *ImportError
}
