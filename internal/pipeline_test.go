package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeSource drops a plain JPEG with a fixed mtime outside the library,
// ready to import. Returns the path.
func writeSource(t *testing.T, dir, name string, w, h int, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	createTestJPEG(t, path, w, h)
	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

func TestImportEndToEnd(t *testing.T) {
	a := newTestArchive(t)
	srcDir := t.TempDir()
	taken := time.Date(2020, 5, 1, 10, 0, 0, 0, time.Local)
	src := writeSource(t, srcDir, "holiday.jpg", 400, 300, taken)

	fp, err := Fingerprint(src)
	require.NoError(t, err)

	res := a.ImportFile(src)
	require.Nil(t, res.Err, "import failed: %v", res.Err)
	assert.Equal(t, StateDone, res.State)
	assert.Equal(t, fp, res.Fingerprint)
	require.NotZero(t, res.ID)

	// Master landed at the fingerprint-derived path, read-only
	master := a.Masters.PathFor(fp)
	assert.Equal(t, filepath.Join(a.Config.Library, "masters", fp[:2], fp+".jpg"), master)
	fi, err := os.Stat(master)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0444), fi.Mode().Perm())

	// Catalog row holds the normalized metadata
	p, err := a.Catalog.ByFingerprint(fp)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "20200501T100000", p.Taken)
	assert.Equal(t, 400, p.Width)
	assert.Equal(t, 300, p.Height)
	assert.Equal(t, 0, p.Rotation)

	// Both journals carry the import
	masters, err := a.MasterJournal.Load()
	require.NoError(t, err)
	assert.Equal(t, fp, masters[res.ID])

	previews, err := a.PreviewJournal.Load()
	require.NoError(t, err)
	wantPreview := filepath.Join("preview", "2020-05", "01-"+FormatID(res.ID)+".jpg")
	assert.Equal(t, wantPreview, previews[res.ID])
	assert.FileExists(t, a.PreviewAbsPath(wantPreview))
}

func TestImportWithEmbeddedOrientation(t *testing.T) {
	a := newTestArchive(t)
	src := filepath.Join(t.TempDir(), "sideways.jpg")
	createExifJPEG(t, src, 400, 300, 6, "2020:05:01 10:00:00", "2020:05:01 10:00:00")

	fp, err := Fingerprint(src)
	require.NoError(t, err)

	res := a.ImportFile(src)
	require.Nil(t, res.Err, "import failed: %v", res.Err)
	assert.Equal(t, StateDone, res.State)

	p, err := a.Catalog.ByFingerprint(fp)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 90, p.Rotation)
	assert.Equal(t, "20200501T100000", p.Taken)
	assert.Equal(t, 400, p.Width, "raw stored width, no orientation swap")
	assert.Equal(t, 300, p.Height)

	assert.FileExists(t, filepath.Join(a.Config.Library, "masters", fp[:2], fp+".jpg"))

	// Preview at the date-derived path, fitted into the swapped box
	wantPreview := filepath.Join("preview", "2020-05", "01-"+FormatID(res.ID)+".jpg")
	assert.Equal(t, wantPreview, res.PreviewPath)
	img, err := imaging.Open(a.PreviewAbsPath(wantPreview))
	require.NoError(t, err)
	assert.Equal(t, 120, img.Bounds().Dx())
	assert.Equal(t, 160, img.Bounds().Dy())
}

func TestImportDedupIdempotence(t *testing.T) {
	a := newTestArchive(t)
	srcDir := t.TempDir()
	mtime := time.Date(2021, 3, 2, 8, 30, 0, 0, time.Local)

	src := writeSource(t, srcDir, "one.jpg", 80, 60, mtime)
	first := a.ImportFile(src)
	require.Nil(t, first.Err)

	// Same content again (import consumed the original via rename)
	src2 := writeSource(t, srcDir, "one.jpg", 80, 60, mtime)
	second := a.ImportFile(src2)

	assert.Equal(t, StateSkipped, second.State)
	require.NotNil(t, second.Err)
	assert.True(t, IsDuplicate(second.Err))
	assert.Equal(t, first.ID, second.ID)

	// Exactly one Photo, and the duplicate performed no new writes
	count, err := a.Catalog.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	masters, err := a.MasterJournal.Load()
	require.NoError(t, err)
	assert.Len(t, masters, 1)

	// The duplicate source is left in place
	assert.FileExists(t, src2)
}

func TestImportBatchContinuesPastItemErrors(t *testing.T) {
	a := newTestArchive(t)
	srcDir := t.TempDir()

	good := writeSource(t, srcDir, "good.jpg", 60, 40, time.Date(2022, 1, 1, 12, 0, 0, 0, time.Local))
	bad := filepath.Join(srcDir, "bad.jpg")
	require.NoError(t, os.WriteFile(bad, []byte("not a jpeg"), 0644))
	wrongExt := filepath.Join(srcDir, "notes.txt")
	require.NoError(t, os.WriteFile(wrongExt, []byte("text"), 0644))

	report := a.ImportBatch([]string{bad, wrongExt, good}, false)

	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, 2, report.Errors)
	assert.Empty(t, report.Aborted)
}

func TestImportBatchRejectsDirectoryWithoutRecursive(t *testing.T) {
	a := newTestArchive(t)
	dir := t.TempDir()
	writeSource(t, dir, "in.jpg", 60, 40, time.Now())

	report := a.ImportBatch([]string{dir}, false)
	assert.Equal(t, 0, report.Imported)
	assert.Equal(t, 1, report.Errors)

	report = a.ImportBatch([]string{dir}, true)
	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, 0, report.Errors)
}

func TestImportBatchEmptyDirectoryIsNotAnError(t *testing.T) {
	a := newTestArchive(t)
	report := a.ImportBatch([]string{t.TempDir()}, true)
	assert.Equal(t, 0, report.Imported)
	assert.Equal(t, 0, report.Errors)
}

func TestGeneratePreviewsSkipAndForce(t *testing.T) {
	a := newTestArchive(t)
	src := writeSource(t, t.TempDir(), "p.jpg", 200, 100, time.Date(2020, 7, 14, 9, 0, 0, 0, time.Local))
	res := a.ImportFile(src)
	require.Nil(t, res.Err)

	// Already present: skipped without force
	results, err := a.GeneratePreviews(nil, false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, PreviewSkipped, results[0].Status)

	// Forced: deleted and rewritten
	results, err = a.GeneratePreviews([]int64{res.ID}, true)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, PreviewWritten, results[0].Status)
}

func TestStalePreviewCleanup(t *testing.T) {
	a := newTestArchive(t)
	src := writeSource(t, t.TempDir(), "p.jpg", 200, 100, time.Date(2020, 7, 14, 9, 0, 0, 0, time.Local))
	res := a.ImportFile(src)
	require.Nil(t, res.Err)

	// Simulate an earlier preview journaled at a different, date-derived
	// location (as after a taken correction)
	oldRel := filepath.Join("preview", "2019-01", "01-"+FormatID(res.ID)+".jpg")
	oldAbs := a.PreviewAbsPath(oldRel)
	require.NoError(t, os.MkdirAll(filepath.Dir(oldAbs), 0755))
	require.NoError(t, os.WriteFile(oldAbs, []byte("stale"), 0644))
	require.NoError(t, a.PreviewJournal.Append(res.ID, oldRel))

	results, err := a.GeneratePreviews([]int64{res.ID}, true)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, PreviewWritten, results[0].Status)
	assert.Equal(t, oldRel, results[0].Stale)

	// P1 deleted, journal's current entry references P2
	_, err = os.Stat(oldAbs)
	assert.True(t, os.IsNotExist(err))
	previews, err := a.PreviewJournal.Load()
	require.NoError(t, err)
	assert.Equal(t, res.PreviewPath, previews[res.ID])
}
