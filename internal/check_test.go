package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCataloged(t *testing.T) {
	a := newTestArchive(t)
	srcDir := t.TempDir()
	src := writeSource(t, srcDir, "a.jpg", 60, 40, time.Now())
	res := a.ImportFile(src)
	require.Nil(t, res.Err)

	// Re-create the same content to check against the archive
	again := writeSource(t, srcDir, "a.jpg", 60, 40, time.Now())
	results := a.Check([]string{again}, false, false)
	require.Len(t, results, 1)

	assert.Equal(t, CheckCataloged, results[0].Status)
	assert.True(t, results[0].InCatalog)
	assert.True(t, results[0].InStore)
	assert.True(t, results[0].InJournal)
	assert.Equal(t, res.ID, results[0].ID)
}

func TestCheckAbsent(t *testing.T) {
	a := newTestArchive(t)
	src := writeSource(t, t.TempDir(), "never-imported.jpg", 60, 40, time.Now())

	results := a.Check([]string{src}, false, false)
	require.Len(t, results, 1)
	assert.Equal(t, CheckAbsent, results[0].Status)
	assert.Zero(t, results[0].ID)
}

// Three-way check: master store and journal know the fingerprint, the
// catalog does not. The file is recoverable, not a fresh duplicate.
func TestCheckRecoverableFromJournal(t *testing.T) {
	a := newTestArchive(t)
	srcDir := t.TempDir()
	src := writeSource(t, srcDir, "lost.jpg", 60, 40, time.Date(2018, 6, 1, 12, 0, 0, 0, time.Local))

	fp, err := Fingerprint(src)
	require.NoError(t, err)

	// Master written and journaled under id 9, but no catalog row
	// (as after a catalog loss)
	stored := filepath.Join(srcDir, "stored.jpg")
	copySample(t, src, stored)
	_, err = a.Masters.Put(fp, stored)
	require.NoError(t, err)
	require.NoError(t, a.MasterJournal.Append(9, fp))

	results := a.Check([]string{src}, false, false)
	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, CheckRecoverable, r.Status)
	assert.False(t, r.InCatalog)
	assert.True(t, r.InStore)
	assert.True(t, r.InJournal)
	assert.Equal(t, int64(9), r.ID)
	assert.False(t, r.Adopted, "no adoption without --adopt")

	// With adopt the catalog row is re-created under the journaled id
	results = a.Check([]string{src}, false, true)
	require.Len(t, results, 1)
	assert.True(t, results[0].Adopted)

	p, err := a.Catalog.ByFingerprint(fp)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, int64(9), p.ID)
}

func TestCheckOrphanMasterOnly(t *testing.T) {
	a := newTestArchive(t)
	srcDir := t.TempDir()
	src := writeSource(t, srcDir, "orphan.jpg", 60, 40, time.Now())

	fp, err := Fingerprint(src)
	require.NoError(t, err)
	stored := filepath.Join(srcDir, "stored.jpg")
	copySample(t, src, stored)
	_, err = a.Masters.Put(fp, stored)
	require.NoError(t, err)

	results := a.Check([]string{src}, false, false)
	require.Len(t, results, 1)
	assert.Equal(t, CheckOrphan, results[0].Status)
}

func TestCheckInconsistentCatalogWithoutMaster(t *testing.T) {
	a := newTestArchive(t)
	src := writeSource(t, t.TempDir(), "ghost.jpg", 60, 40, time.Now())

	fp, err := Fingerprint(src)
	require.NoError(t, err)
	_, err = a.Catalog.Insert(Photo{Fingerprint: fp, Taken: TakenUnknown, Width: 60, Height: 40})
	require.NoError(t, err)

	results := a.Check([]string{src}, false, false)
	require.Len(t, results, 1)
	assert.Equal(t, CheckInconsistent, results[0].Status)
	require.NotNil(t, results[0].Err)
	assert.Equal(t, ErrorKindInconsistency, results[0].Err.Kind)
}

func copySample(t *testing.T, src, dest string) {
	t.Helper()
	data, err := os.ReadFile(src)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dest, data, 0644))
}
