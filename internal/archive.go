package internal

import (
	"fmt"
	"os"
	"path/filepath"
)

// Archive bundles every durable layer of one library: the relational
// catalog, the content-addressed master store, the append-only journals
// and the observational import log. One Archive is scoped to one run;
// it owns the database handle and the store's directory memo, so there
// is no process-global state.
type Archive struct {
	Config *Config

	Catalog        *Catalog
	Masters        *MasterStore
	MasterJournal  *Journal
	PreviewJournal *Journal
	ImportLog      *Logger
	Meta           *Extractor
}

// OpenArchive opens (creating on first use) the library rooted at
// cfg.Library.
func OpenArchive(cfg *Config) (*Archive, error) {
	if err := os.MkdirAll(cfg.Library, 0755); err != nil {
		return nil, fmt.Errorf("failed to create library %s: %w", cfg.Library, err)
	}

	catalog, err := OpenCatalog(filepath.Join(cfg.Library, "catalog.db"))
	if err != nil {
		return nil, err
	}

	importLog, err := NewLogger(filepath.Join(cfg.Library, "import.log"))
	if err != nil {
		catalog.Close()
		return nil, fmt.Errorf("failed to open import log: %w", err)
	}

	meta, err := NewExtractor(cfg.UseExiftool)
	if err != nil {
		// exiftool missing is not fatal: degrade to the in-process
		// reader and keep importing.
		fmt.Fprintf(os.Stderr, "Warning: %v - falling back to built-in EXIF reader\n", err)
		meta = &Extractor{}
	}

	return &Archive{
		Config:         cfg,
		Catalog:        catalog,
		Masters:        NewMasterStore(filepath.Join(cfg.Library, "masters")),
		MasterJournal:  NewJournal(filepath.Join(cfg.Library, "masters.list")),
		PreviewJournal: NewJournal(filepath.Join(cfg.Library, "previews.list")),
		ImportLog:      importLog,
		Meta:           meta,
	}, nil
}

func (a *Archive) Close() error {
	a.Meta.Close()
	a.ImportLog.Close()
	return a.Catalog.Close()
}

// Box returns the configured preview bounding box.
func (a *Archive) Box() PreviewBox {
	return PreviewBox{Width: a.Config.PreviewWidth, Height: a.Config.PreviewHeight}
}

// PreviewAbsPath joins a library-relative preview path onto the library
// root.
func (a *Archive) PreviewAbsPath(rel string) string {
	return filepath.Join(a.Config.Library, rel)
}
