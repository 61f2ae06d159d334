package internal

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := OpenCatalog(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestInsertAssignsSequentialIDs(t *testing.T) {
	c := openTestCatalog(t)

	id1, err := c.Insert(Photo{Fingerprint: "aaaa", Taken: "20200501T100000", Width: 100, Height: 50})
	require.NoError(t, err)
	id2, err := c.Insert(Photo{Fingerprint: "bbbb", Taken: "20200502T100000", Width: 100, Height: 50})
	require.NoError(t, err)

	assert.Equal(t, int64(1), id1)
	assert.Equal(t, int64(2), id2)
}

func TestFingerprintUniqueness(t *testing.T) {
	c := openTestCatalog(t)

	_, err := c.Insert(Photo{Fingerprint: "aaaa", Taken: TakenUnknown})
	require.NoError(t, err)

	_, err = c.Insert(Photo{Fingerprint: "aaaa", Taken: TakenUnknown})
	assert.Error(t, err, "duplicate fingerprint must violate the unique constraint")
}

func TestLookups(t *testing.T) {
	c := openTestCatalog(t)

	id, err := c.Insert(Photo{Fingerprint: "cafe", Taken: "20210101T000001", Width: 10, Height: 20, Rotation: 90})
	require.NoError(t, err)

	byID, err := c.ByID(id)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "cafe", byID.Fingerprint)
	assert.Equal(t, 90, byID.Rotation)

	byFP, err := c.ByFingerprint("cafe")
	require.NoError(t, err)
	require.NotNil(t, byFP)
	assert.Equal(t, id, byFP.ID)

	missing, err := c.ByID(999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestResolveDispatch(t *testing.T) {
	c := openTestCatalog(t)

	fp := "5eb63bbbe01eeed093cb22bb8f5acdc3"
	id, err := c.Insert(Photo{Fingerprint: fp, Taken: TakenUnknown})
	require.NoError(t, err)

	k, err := ParseKey(FormatID(id))
	require.NoError(t, err)
	p, err := c.Resolve(k)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, fp, p.Fingerprint)

	k, err = ParseKey(fp)
	require.NoError(t, err)
	p, err = c.Resolve(k)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, id, p.ID)
}

func TestListOrderingAndSubset(t *testing.T) {
	c := openTestCatalog(t)

	for _, fp := range []string{"a1", "a2", "a3", "a4"} {
		_, err := c.Insert(Photo{Fingerprint: fp, Taken: TakenUnknown})
		require.NoError(t, err)
	}

	all, err := c.List()
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i, p := range all {
		assert.Equal(t, int64(i+1), p.ID)
	}

	subset, err := c.List(3, 1)
	require.NoError(t, err)
	require.Len(t, subset, 2)
	assert.Equal(t, int64(1), subset[0].ID) // ascending regardless of argument order
	assert.Equal(t, int64(3), subset[1].ID)
}

func TestMostRecent(t *testing.T) {
	c := openTestCatalog(t)

	for _, fp := range []string{"b1", "b2", "b3", "b4", "b5"} {
		_, err := c.Insert(Photo{Fingerprint: fp, Taken: TakenUnknown})
		require.NoError(t, err)
	}

	ids, err := c.MostRecent(3)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4, 5}, ids, "oldest of the selection first")
}

func TestInsertWithIDPreservesJournaledID(t *testing.T) {
	c := openTestCatalog(t)

	require.NoError(t, c.InsertWithID(Photo{ID: 41, Fingerprint: "dddd", Taken: TakenUnknown}))

	p, err := c.ByID(41)
	require.NoError(t, err)
	require.NotNil(t, p)

	// The sequence continues past the adopted id
	next, err := c.Insert(Photo{Fingerprint: "eeee", Taken: TakenUnknown})
	require.NoError(t, err)
	assert.Equal(t, int64(42), next)
}
