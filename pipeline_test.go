package pidtool

import (
	"bytes"
	"encoding/binary"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/pidtool/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pidBytes(id int32, flags uint32, width, height uint32, stream, palette []byte) []byte {
	b := new(bytes.Buffer)
	binary.Write(b, binary.LittleEndian, id)
	binary.Write(b, binary.LittleEndian, flags)
	binary.Write(b, binary.LittleEndian, width)
	binary.Write(b, binary.LittleEndian, height)
	binary.Write(b, binary.LittleEndian, [4]int32{})
	b.Write(stream)
	b.Write(palette)
	return b.Bytes()
}

func readManifest(t *testing.T, file string) *manifest.DB {
	t.Helper()

	b, err := os.ReadFile(file)
	require.NoError(t, err)

	var db manifest.DB
	require.NoError(t, db.UnmarshalBinary(b))

	return &db
}

func TestScan(t *testing.T) {
	tree := t.TempDir()
	for _, dir := range []string{"sub", "empty", ".hidden"} {
		require.NoError(t, os.Mkdir(filepath.Join(tree, dir), 0o755))
	}

	palette := make([]byte, 768)
	palette[5*3], palette[5*3+1], palette[5*3+2] = 10, 20, 30

	one := pidBytes(1, 0x80, 2, 1, []byte{5, 5}, palette)
	two := pidBytes(2, 0, 1, 1, []byte{9}, nil)

	files := map[string][]byte{
		"one.pid":            one,
		"two.pid":            two,
		"bad.pid":            {0x00, 0x01, 0x02},
		"notes.txt":          []byte("not an image"),
		"sub/copy.pid":       one,
		".hidden/secret.pid": one,
	}
	for name, b := range files {
		require.NoError(t, os.WriteFile(filepath.Join(tree, name), b, 0o644))
	}

	m, err := New(filepath.Join(t.TempDir(), "pidtool.db"), log.New(io.Discard, "", 0))
	require.NoError(t, err)
	defer m.Close()

	require.NoError(t, m.Scan(tree))

	// bad.pid is skipped and the hidden directory never visited, so
	// only the two distinct decodable assets are catalogued.
	assets, err := m.Assets()
	require.NoError(t, err)
	require.Len(t, assets, 2)

	byID := make(map[int32]Asset, len(assets))
	for _, a := range assets {
		byID[a.ImageID] = a
	}

	require.Contains(t, byID, int32(1))
	require.Contains(t, byID, int32(2))
	assert.Equal(t, 2, byID[int32(1)].Files)
	assert.Equal(t, 1, byID[int32(2)].Files)
	assert.Equal(t, uint32(2), byID[int32(1)].Width)
	assert.Equal(t, uint32(1), byID[int32(1)].Height)

	// The palettised asset gets a preview, the palette-less one does
	// not.
	p, err := m.Preview(byID[int32(1)].Hash)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 2, p.Bounds().Dx())

	p, err = m.Preview(byID[int32(2)].Hash)
	require.NoError(t, err)
	assert.Nil(t, p)

	root := readManifest(t, filepath.Join(tree, manifest.Filename))
	assert.Equal(t, 2, root.Length())

	e, ok := root.Get(fingerprint(one))
	require.True(t, ok)
	assert.Equal(t, manifest.Entry{ID: 1, Width: 2, Height: 1, Flags: 0x80}, e)

	sub := readManifest(t, filepath.Join(tree, "sub", manifest.Filename))
	assert.Equal(t, 1, sub.Length())
	_, ok = sub.Get(fingerprint(one))
	assert.True(t, ok)

	_, err = os.Stat(filepath.Join(tree, "empty", manifest.Filename))
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(filepath.Join(tree, ".hidden", manifest.Filename))
	assert.True(t, os.IsNotExist(err))
}

func TestScanMissingDirectory(t *testing.T) {
	m, err := New(filepath.Join(t.TempDir(), "pidtool.db"), log.New(io.Discard, "", 0))
	require.NoError(t, err)
	defer m.Close()

	assert.Error(t, m.Scan(filepath.Join(t.TempDir(), "nowhere")))
}
