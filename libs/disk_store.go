package libs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
)

type DiskStore struct {
	Dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &DiskStore{Dir: dir}, nil
}

func (s *DiskStore) Save(_ context.Context, header *multipart.FileHeader, name string) (string, error) {
	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return name, nil
}

// Remove deletes a previously saved file. Missing files are not an error.
func (s *DiskStore) Remove(_ context.Context, stored string) error {
	if stored == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.Dir, filepath.Base(stored)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
