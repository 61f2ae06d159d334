package internal

import (
	"fmt"
	"os"
)

// LocateMaster resolves a key to the master file path. The file must
// exist: a catalog row pointing at a missing master is an inconsistency,
// not a path.
func (a *Archive) LocateMaster(k Key) (string, error) {
	p, err := a.Catalog.Resolve(k)
	if err != nil {
		return "", err
	}
	if p == nil {
		return "", fmt.Errorf("no photo matches key")
	}
	path := a.Masters.PathFor(p.Fingerprint)
	if _, err := os.Stat(path); err != nil {
		return "", inconsistencyError(path,
			fmt.Errorf("catalog row %s exists but master file is absent", p.FID()))
	}
	return path, nil
}

// LocatePreview resolves a key to the current expected preview path.
// The preview may not exist yet; callers regenerate on demand.
func (a *Archive) LocatePreview(k Key) (string, error) {
	p, err := a.Catalog.Resolve(k)
	if err != nil {
		return "", err
	}
	if p == nil {
		return "", fmt.Errorf("no photo matches key")
	}
	return a.PreviewAbsPath(PreviewRelPath(p.Taken, p.ID)), nil
}
