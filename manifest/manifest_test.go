package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetKeepsFirstEntry(t *testing.T) {
	db := New()
	db.Set(42, Entry{ID: 1, Width: 10, Height: 20})
	db.Set(42, Entry{ID: 2, Width: 30, Height: 40})

	assert.Equal(t, 1, db.Length())
	e, ok := db.Get(42)
	require.True(t, ok)
	assert.Equal(t, Entry{ID: 1, Width: 10, Height: 20}, e)

	_, ok = db.Get(43)
	assert.False(t, ok)
}

func TestMarshalUnmarshal(t *testing.T) {
	db := New()
	db.Set(0xdeadbeefcafef00d, Entry{ID: -1, Width: 64, Height: 48, Flags: 0xa1})
	db.Set(0x0123456789abcdef, Entry{ID: 7, Width: 320, Height: 240})
	db.Set(1, Entry{Width: 1, Height: 1})

	b, err := db.MarshalBinary()
	require.NoError(t, err)

	// magic, version and count, then three 24 byte records
	require.Len(t, b, 4+1+4+3*24)
	assert.Equal(t, []byte{'P', 'I', 'D', 'X', 1, 3, 0, 0, 0}, b[:9])

	// records are sorted by hash, so the smallest key comes first
	assert.Equal(t, []byte{1, 0, 0, 0, 0, 0, 0, 0}, b[9:17])

	var out DB
	require.NoError(t, out.UnmarshalBinary(b))
	assert.Equal(t, db.Length(), out.Length())
	for _, hash := range []uint64{0xdeadbeefcafef00d, 0x0123456789abcdef, 1} {
		want, _ := db.Get(hash)
		got, ok := out.Get(hash)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestMarshalTooManyEntries(t *testing.T) {
	db := New()
	for i := 0; i <= maxEntries; i++ {
		db.Set(uint64(i), Entry{})
	}

	_, err := db.MarshalBinary()
	assert.Error(t, err)
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	tables := []struct {
		name string
		b    []byte
	}{
		{"empty", nil},
		{"short magic", []byte{'P', 'I'}},
		{"bad magic", []byte{'N', 'O', 'P', 'E', 1, 0, 0, 0, 0}},
		{"bad version", []byte{'P', 'I', 'D', 'X', 9, 0, 0, 0, 0}},
		{"missing count", []byte{'P', 'I', 'D', 'X', 1}},
		{"truncated record", []byte{'P', 'I', 'D', 'X', 1, 1, 0, 0, 0, 0xff}},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			var db DB
			assert.Error(t, db.UnmarshalBinary(table.b))
		})
	}
}
