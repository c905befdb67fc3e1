package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
)

var _ Storage = (*DirStorage)(nil)

type DirStorage struct {
	fsys fs.FS
}

func NewDirStorage(dir string) *DirStorage {
	return NewFSStorage(os.DirFS(dir))
}

func NewFSStorage(fsys fs.FS) *DirStorage {
	return &DirStorage{fsys: fsys}
}

func (s *DirStorage) List(ctx context.Context, prefix string) ([]string, error) {
	root := strings.Trim(prefix, "/")
	if root == "" {
		root = "."
	}

	var keys []string
	err := fs.WalkDir(s.fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && p == root {
				return fs.SkipAll
			}
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !d.IsDir() {
			keys = append(keys, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *DirStorage) Download(_ context.Context, key string) (io.ReadCloser, error) {
	f, err := s.fsys.Open(path.Clean(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (s *DirStorage) Exists(_ context.Context, key string) (bool, error) {
	_, err := fs.Stat(s.fsys, path.Clean(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
