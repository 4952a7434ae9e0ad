/*
Package manifest implements the small index file written to each
directory of a scanned asset tree. It lets host embedders look up the
dimensions and flags of any PID asset by content hash without opening
the container itself.
*/
package manifest

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
)

const (
	// Filename is the expected filename used when writing to disk
	Filename   = "pids.idx"
	maxEntries = 4096

	version = 1
)

var magic = []byte{'P', 'I', 'D', 'X'}

// Entry records what a host needs to know about one asset before
// loading it.
type Entry struct {
	ID     int32
	Width  uint32
	Height uint32
	Flags  uint32
}

// DB is the manifest database object. It implements the
// encoding.BinaryMarshaler and encoding.BinaryUnmarshaler interfaces.
type DB struct {
	entries map[uint64]Entry
}

// New returns an empty manifest database
func New() *DB {
	return &DB{
		entries: make(map[uint64]Entry),
	}
}

// Length returns the number of entries in the database
func (db *DB) Length() int {
	return len(db.entries)
}

// Set stores the entry for the given content hash. Hashes already
// present keep their first entry.
func (db *DB) Set(hash uint64, e Entry) {
	if _, ok := db.entries[hash]; !ok {
		db.entries[hash] = e
	}
}

// Get returns the entry for the given content hash
func (db *DB) Get(hash uint64) (Entry, bool) {
	e, ok := db.entries[hash]
	return e, ok
}

// MarshalBinary encodes the database into binary form and returns the result
func (db *DB) MarshalBinary() ([]byte, error) {
	length := len(db.entries)

	if length > maxEntries {
		return nil, fmt.Errorf("more than %d entries", maxEntries)
	}

	keys := make([]uint64, 0, len(db.entries))
	for k := range db.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	b := new(bytes.Buffer)

	b.Write(magic)
	b.WriteByte(version)
	if err := binary.Write(b, binary.LittleEndian, uint32(length)); err != nil {
		return nil, err
	}

	for _, k := range keys {
		if err := binary.Write(b, binary.LittleEndian, k); err != nil {
			return nil, err
		}
		e := db.entries[k]
		if err := binary.Write(b, binary.LittleEndian, &e); err != nil {
			return nil, err
		}
	}

	return b.Bytes(), nil
}

// UnmarshalBinary decodes the database from binary form
func (db *DB) UnmarshalBinary(b []byte) error {
	r := bytes.NewReader(b)

	var m [4]byte
	if err := binary.Read(r, binary.LittleEndian, &m); err != nil {
		return errors.New("insufficient data")
	}
	if !bytes.Equal(m[:], magic) {
		return errors.New("bad magic")
	}

	ver, err := r.ReadByte()
	if err != nil {
		return errors.New("insufficient data")
	}
	if ver != version {
		return fmt.Errorf("unsupported version %d", ver)
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return errors.New("insufficient data")
	}
	if count > maxEntries {
		return fmt.Errorf("more than %d entries", maxEntries)
	}

	db.entries = make(map[uint64]Entry, count)

	for i := uint32(0); i < count; i++ {
		var (
			k uint64
			e Entry
		)
		if err := binary.Read(r, binary.LittleEndian, &k); err != nil {
			return errors.New("insufficient data")
		}
		if err := binary.Read(r, binary.LittleEndian, &e); err != nil {
			return errors.New("insufficient data")
		}
		db.entries[k] = e
	}

	return nil
}
