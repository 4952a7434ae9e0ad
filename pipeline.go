package pidtool

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/bodgit/pidtool/manifest"
	"github.com/bodgit/pidtool/pid"
)

func (m *Tool) findDirectories(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(dir string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a directory
			if !info.Mode().IsDir() {
				return nil
			}

			select {
			case out <- dir:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

// catalogFile reads one asset, stores it in the catalog and returns its
// manifest entry. Files that fail to decode are logged and skipped with
// a nil entry rather than aborting the scan.
func (m *Tool) catalogFile(file string) (uint64, *manifest.Entry, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return 0, nil, err
	}

	hash := fingerprint(b)

	a, err := m.db.AssetByHash(fingerprintString(hash))
	if err != nil {
		return 0, nil, err
	}

	if a == nil {
		img, err := pid.DecodeImage(bytes.NewReader(b))
		if err != nil {
			m.logger.Printf("Cannot decode \"%s\": %v\n", file, err)
			return 0, nil, nil
		}

		var preview []byte
		if img.Palette != nil {
			if preview, err = EncodePreview(img); err != nil {
				return 0, nil, err
			}
		}

		id, err := m.db.addAsset(fingerprintString(hash), img.Header, preview)
		if err != nil {
			return 0, nil, err
		}

		a = &Asset{
			ID:      id,
			ImageID: img.Header.ID,
			Width:   img.Header.Width,
			Height:  img.Header.Height,
			Flags:   img.Header.Flags,
		}
	}

	if err := m.db.addFile(a.ID, file); err != nil {
		return 0, nil, err
	}

	return hash, &manifest.Entry{
		ID:     a.ImageID,
		Width:  a.Width,
		Height: a.Height,
		Flags:  uint32(a.Flags),
	}, nil
}

func (m *Tool) directoryWorker(ctx context.Context, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for dir := range in {
			db := manifest.New()
			if err := filepath.Walk(dir, func(file string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}

				// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
				if info.Name()[0] == '.' {
					if info.Mode().IsDir() {
						return filepath.SkipDir
					}
					return nil
				}

				// Ignore anything that isn't a normal file
				if !info.Mode().IsRegular() {
					return nil
				}

				// Ignore any file greater than 16 MB
				if info.Size() > 16<<(10*2) {
					return nil
				}

				if filepath.Ext(file) != ".pid" {
					return nil
				}

				// Check files are in the "top" directory
				if filepath.Dir(file) != dir {
					return nil
				}

				hash, entry, err := m.catalogFile(file)
				if err != nil {
					return err
				}
				if entry != nil {
					db.Set(hash, *entry)
				}

				return nil
			}); err != nil {
				errc <- err
				return
			}

			if db.Length() > 0 {
				b, err := db.MarshalBinary()
				if err != nil {
					errc <- err
					return
				}

				f, err := os.Create(filepath.Join(dir, manifest.Filename))
				if err != nil {
					errc <- err
					return
				}

				if _, err = f.Write(b); err != nil {
					f.Close()
					errc <- err
					return
				}

				if err = f.Close(); err != nil {
					errc <- err
					return
				}
			}
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan walks the tree rooted at path, catalogues every PID asset found
// and writes a manifest into each directory that contained at least
// one.
func (m *Tool) Scan(path string) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	dirs, errc, err := m.findDirectories(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < 10; i++ {
		errc, err := m.directoryWorker(ctx, dirs)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}
