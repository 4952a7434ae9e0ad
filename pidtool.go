/*
Package pidtool is a library for cataloguing the PID image assets spread
across a game content tree.
*/
package pidtool

import (
	"image"
	"log"
)

type Tool struct {
	db     *AssetDB
	logger *log.Logger
}

func New(file string, logger *log.Logger) (*Tool, error) {
	db, err := NewAssetDB(file)
	if err != nil {
		return nil, err
	}
	return &Tool{
		db:     db,
		logger: logger,
	}, nil
}

func (m *Tool) Close() error {
	return m.db.Close()
}

// Assets lists every catalogued asset.
func (m *Tool) Assets() ([]Asset, error) {
	return m.db.Assets()
}

// Preview returns the stored preview of the asset with the given
// content hash, or nil if the asset has none.
func (m *Tool) Preview(hash string) (*image.RGBA, error) {
	b, err := m.db.preview(hash)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}
	return DecodePreview(b)
}
