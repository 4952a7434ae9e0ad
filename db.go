package pidtool

import (
	"database/sql"
	"fmt"

	"github.com/bodgit/pidtool/pid"
	_ "github.com/mattn/go-sqlite3"
)

// AssetDB is the catalog of every distinct PID asset seen during scans.
// Assets are keyed by content hash so the same image stored under many
// paths occupies one row; the paths themselves are kept alongside.
type AssetDB struct {
	db *sql.DB
}

func NewAssetDB(file string) (*AssetDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS asset (id INTEGER PRIMARY KEY NOT NULL, hash TEXT NOT NULL UNIQUE, image_id INTEGER NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, flags INTEGER NOT NULL, preview BLOB)"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS file (asset_id INTEGER NOT NULL, path TEXT NOT NULL UNIQUE, FOREIGN KEY(asset_id) REFERENCES asset(id))"); err != nil {
		return nil, err
	}

	return &AssetDB{
		db: db,
	}, nil
}

func (db *AssetDB) Close() error {
	return db.db.Close()
}

// Asset is one catalogued image. Files counts the paths it was seen
// under and is only populated by Assets.
type Asset struct {
	ID      int64
	Hash    string
	ImageID int32
	Width   uint32
	Height  uint32
	Flags   pid.Flags
	Files   int
}

func (db *AssetDB) addAsset(hash string, hdr pid.Header, preview []byte) (int64, error) {
	var id int64
	switch err := db.db.QueryRow("SELECT id FROM asset WHERE hash = ?", hash).Scan(&id); err {
	case sql.ErrNoRows:
		var blob interface{}
		if preview != nil {
			blob = preview
		}
		// Two workers can race the same hash; the unique index
		// turns the loser's insert into a no-op and the reselect
		// picks up whichever row landed.
		if _, err := db.db.Exec("INSERT OR IGNORE INTO asset (hash, image_id, width, height, flags, preview) VALUES (?, ?, ?, ?, ?, ?)", hash, hdr.ID, hdr.Width, hdr.Height, uint32(hdr.Flags), blob); err != nil {
			return 0, err
		}
		if err := db.db.QueryRow("SELECT id FROM asset WHERE hash = ?", hash).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

func (db *AssetDB) addFile(asset int64, path string) error {
	if _, err := db.db.Exec("INSERT OR REPLACE INTO file (asset_id, path) VALUES (?, ?)", asset, path); err != nil {
		return err
	}
	return nil
}

// AssetByHash returns the catalogued asset with the given content hash,
// or nil if it has not been seen.
func (db *AssetDB) AssetByHash(hash string) (*Asset, error) {
	a := Asset{Hash: hash}
	var flags uint32
	switch err := db.db.QueryRow("SELECT id, image_id, width, height, flags FROM asset WHERE hash = ?", hash).Scan(&a.ID, &a.ImageID, &a.Width, &a.Height, &flags); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		a.Flags = pid.Flags(flags)
		return &a, nil
	default:
		return nil, err
	}
}

// Assets returns every catalogued asset ordered by content hash.
func (db *AssetDB) Assets() ([]Asset, error) {
	rows, err := db.db.Query("SELECT a.id, a.hash, a.image_id, a.width, a.height, a.flags, COUNT(f.path) FROM asset AS a LEFT JOIN file AS f ON f.asset_id = a.id GROUP BY a.id ORDER BY a.hash")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []Asset
	for rows.Next() {
		var (
			a     Asset
			flags uint32
		)
		if err := rows.Scan(&a.ID, &a.Hash, &a.ImageID, &a.Width, &a.Height, &flags, &a.Files); err != nil {
			return nil, err
		}
		a.Flags = pid.Flags(flags)
		assets = append(assets, a)
	}

	return assets, rows.Err()
}

func (db *AssetDB) preview(hash string) ([]byte, error) {
	var preview []byte
	switch err := db.db.QueryRow("SELECT preview FROM asset WHERE hash = ?", hash).Scan(&preview); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return preview, nil
	default:
		return nil, err
	}
}
