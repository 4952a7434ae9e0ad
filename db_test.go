package pidtool

import (
	"path/filepath"
	"testing"

	"github.com/bodgit/pidtool/pid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAssetDB(t *testing.T) *AssetDB {
	t.Helper()

	db, err := NewAssetDB(filepath.Join(t.TempDir(), "pidtool.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func TestAssetDB(t *testing.T) {
	db := testAssetDB(t)

	hdr := pid.Header{
		ID:     7,
		Flags:  pid.Flags(0x80),
		Width:  32,
		Height: 16,
	}

	id, err := db.addAsset("00000000deadbeef", hdr, []byte{1, 2, 3})
	require.NoError(t, err)

	// Same hash must not create a second row
	again, err := db.addAsset("00000000deadbeef", hdr, nil)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	require.NoError(t, db.addFile(id, "/tree/a.pid"))
	require.NoError(t, db.addFile(id, "/tree/sub/b.pid"))
	require.NoError(t, db.addFile(id, "/tree/a.pid"))

	a, err := db.AssetByHash("00000000deadbeef")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, id, a.ID)
	assert.Equal(t, int32(7), a.ImageID)
	assert.Equal(t, uint32(32), a.Width)
	assert.Equal(t, uint32(16), a.Height)
	assert.True(t, a.Flags.HasPalette())

	missing, err := db.AssetByHash("ffffffffffffffff")
	require.NoError(t, err)
	assert.Nil(t, missing)

	assets, err := db.Assets()
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, 2, assets[0].Files)

	b, err := db.preview("00000000deadbeef")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, b)
}

func TestAssetDBNoPreview(t *testing.T) {
	db := testAssetDB(t)

	_, err := db.addAsset("0123456789abcdef", pid.Header{Width: 1, Height: 1}, nil)
	require.NoError(t, err)

	b, err := db.preview("0123456789abcdef")
	require.NoError(t, err)
	assert.Nil(t, b)

	b, err = db.preview("ffffffffffffffff")
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, "0000000000000abc", fingerprintString(0xabc))

	a := fingerprint([]byte("a"))
	b := fingerprint([]byte("b"))
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, fingerprint([]byte("a")))
	assert.Len(t, fingerprintString(a), 16)
}
