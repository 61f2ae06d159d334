package internal

import (
	"fmt"
)

// CheckStatus summarizes which layers know a file.
type CheckStatus string

const (
	CheckCataloged    CheckStatus = "cataloged"    // Catalog row exists - fully imported
	CheckRecoverable  CheckStatus = "recoverable"  // Master + journal agree, catalog row missing
	CheckOrphan       CheckStatus = "orphan"       // Master file exists but neither catalog nor journal knows it
	CheckInconsistent CheckStatus = "inconsistent" // Journal claims an import but the master file is gone
	CheckAbsent       CheckStatus = "absent"       // No layer has seen this content
)

// CheckResult is the three-way reconciliation verdict for one file.
type CheckResult struct {
	Source      string
	Fingerprint string
	ID          int64 // From catalog or journal, 0 when unknown
	InCatalog   bool
	InStore     bool
	InJournal   bool
	Status      CheckStatus
	Adopted     bool // Catalog row re-created from the journal mapping
	Err         *ImportError
}

// Check runs the reconciliation path backward through the layers: raw
// file → fingerprint → catalog, then master store, then master journal,
// reporting which layer is missing a record. With adopt set, a
// recoverable file (master + journal present, catalog missing) gets its
// catalog row re-created under the journaled id; without it the mapping
// is only reported, never trusted silently.
func (a *Archive) Check(inputs []string, recursive, adopt bool) []CheckResult {
	files, expandFailed := ExpandInputs(inputs, recursive, a.Config)

	var results []CheckResult
	for _, r := range expandFailed {
		results = append(results, CheckResult{Source: r.Source, Err: r.Err})
	}

	journal, err := a.MasterJournal.LoadReverse()
	if err != nil {
		for _, f := range files {
			results = append(results, CheckResult{Source: f, Err: ioError(f, err)})
		}
		return results
	}

	for _, f := range files {
		results = append(results, a.checkOne(f, journal, adopt))
	}
	return results
}

func (a *Archive) checkOne(src string, journal map[string]int64, adopt bool) CheckResult {
	res := CheckResult{Source: src}

	fp, err := Fingerprint(src)
	if err != nil {
		res.Err = ioError(src, err)
		return res
	}
	res.Fingerprint = fp

	if p, err := a.Catalog.ByFingerprint(fp); err != nil {
		res.Err = ioError(src, err)
		return res
	} else if p != nil {
		res.InCatalog = true
		res.ID = p.ID
	}
	res.InStore = a.Masters.Exists(fp)
	if id, ok := journal[fp]; ok {
		res.InJournal = true
		if res.ID == 0 {
			res.ID = id
		}
	}

	switch {
	case res.InCatalog && !res.InStore:
		res.Status = CheckInconsistent
		res.Err = inconsistencyError(src,
			fmt.Errorf("catalog row %s exists but master file is absent", FormatID(res.ID)))
	case res.InCatalog:
		res.Status = CheckCataloged
	case res.InStore && res.InJournal:
		res.Status = CheckRecoverable
		if adopt {
			if err := a.adopt(&res); err != nil {
				res.Err = inconsistencyError(src, err)
			}
		}
	case res.InStore:
		res.Status = CheckOrphan
	case res.InJournal:
		res.Status = CheckInconsistent
		res.Err = inconsistencyError(src,
			fmt.Errorf("journal maps fingerprint to %s but master file is absent", FormatID(res.ID)))
	default:
		res.Status = CheckAbsent
	}
	return res
}

// adopt re-links a recoverable file: metadata is re-extracted from the
// stored master and the catalog row is inserted under the journaled id.
func (a *Archive) adopt(res *CheckResult) error {
	master := a.Masters.PathFor(res.Fingerprint)
	meta, err := a.Meta.Extract(master)
	if err != nil {
		return fmt.Errorf("failed to re-extract metadata from %s: %w", master, err)
	}
	err = a.Catalog.InsertWithID(Photo{
		ID:          res.ID,
		Fingerprint: res.Fingerprint,
		Taken:       meta.Taken,
		Width:       meta.Width,
		Height:      meta.Height,
		Rotation:    meta.Rotation,
	})
	if err != nil {
		return err
	}
	res.Adopted = true
	res.InCatalog = true
	return nil
}
