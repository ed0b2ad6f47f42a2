package images

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/edgard/servermanage/internal/database"
)

// FileStore keeps asset bytes under <root>/<platform>/<community>/<icons|banners>/.
type FileStore struct {
	fs   afero.Fs
	root string
}

// NewFileStore creates a FileStore rooted at root on the given filesystem.
func NewFileStore(fsys afero.Fs, root string) *FileStore {
	return &FileStore{fs: fsys, root: root}
}

// Dir returns the directory holding a community's assets of one category.
func (f *FileStore) Dir(community database.Community, category Category) string {
	return filepath.Join(f.root, community.Platform, community.CommunityID, category.Plural())
}

// Path returns the full path of a stored file.
func (f *FileStore) Path(community database.Community, category Category, filename string) string {
	return filepath.Join(f.Dir(community, category), filename)
}

// Write stores data under filename, replacing any existing file.
func (f *FileStore) Write(community database.Community, category Category, filename string, data []byte) error {
	dir := f.Dir(community, category)
	if err := f.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create asset directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, filename)
	tmp := path + ".tmp"
	if err := afero.WriteFile(f.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := f.fs.Rename(tmp, path); err != nil {
		_ = f.fs.Remove(tmp)
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}

// Rename moves a stored file to a new name in the same directory, replacing
// any file already there.
func (f *FileStore) Rename(community database.Community, category Category, from, to string) error {
	src, dst := f.Path(community, category, from), f.Path(community, category, to)
	if err := f.fs.Rename(src, dst); err != nil {
		if isNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileMissing, src)
		}
		return fmt.Errorf("failed to rename %s: %w", src, err)
	}
	return nil
}

// Read returns the bytes of a stored file, or ErrFileMissing.
func (f *FileStore) Read(community database.Community, category Category, filename string) ([]byte, error) {
	path := f.Path(community, category, filename)
	data, err := afero.ReadFile(f.fs, path)
	if isNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrFileMissing, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// Remove deletes a stored file. A file that is already gone yields ErrFileMissing.
func (f *FileStore) Remove(community database.Community, category Category, filename string) error {
	path := f.Path(community, category, filename)
	err := f.fs.Remove(path)
	if isNotExist(err) {
		return fmt.Errorf("%w: %s", ErrFileMissing, path)
	}
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

func isNotExist(err error) bool {
	return err != nil && (errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err))
}
