package internal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// MasterStore is the immutable, content-addressed file store. A master's
// path is a pure function of its fingerprint: two-character shard prefix,
// then the full fingerprint as the filename. It never depends on catalog
// id or metadata.
type MasterStore struct {
	Root string

	// Per-run memo of directories already created, so a large batch
	// doesn't stat the same shard directory thousands of times.
	madeDirs map[string]bool
}

func NewMasterStore(root string) *MasterStore {
	return &MasterStore{
		Root:     root,
		madeDirs: make(map[string]bool),
	}
}

// PathFor returns the store path for a fingerprint. Pure, no I/O.
func (s *MasterStore) PathFor(fingerprint string) string {
	return filepath.Join(s.Root, fingerprint[:2], fingerprint+".jpg")
}

// Exists reports whether a master with this fingerprint is on disk.
func (s *MasterStore) Exists(fingerprint string) bool {
	_, err := os.Stat(s.PathFor(fingerprint))
	return err == nil
}

// Put places src into the store under its fingerprint. Prefers an atomic
// rename (same volume), falls back to a copy when the rename fails.
// Returns the destination path. The file is left writable so the
// orientation tag can still be rewritten; call Seal once the master is
// final.
func (s *MasterStore) Put(fingerprint, src string) (string, error) {
	dest := s.PathFor(fingerprint)
	if err := s.ensureDir(filepath.Dir(dest)); err != nil {
		return "", err
	}

	if err := os.Rename(src, dest); err == nil {
		return dest, nil
	}
	// Rename failed - likely a cross-volume move. Copy instead and
	// leave the source in place.
	if err := copyFileAtomic(src, dest); err != nil {
		return "", fmt.Errorf("failed to store master %s: %w", fingerprint, err)
	}
	return dest, nil
}

// Seal marks a stored master read-only. Masters are write-once.
func (s *MasterStore) Seal(fingerprint string) error {
	return os.Chmod(s.PathFor(fingerprint), 0444)
}

func (s *MasterStore) ensureDir(dir string) error {
	if s.madeDirs[dir] {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	s.madeDirs[dir] = true
	return nil
}

// copyFileAtomic copies a file atomically (copy temp → rename)
func copyFileAtomic(src, dest string) error {
	tmp := dest + ".tmp"
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(tmp)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, dest)
}
