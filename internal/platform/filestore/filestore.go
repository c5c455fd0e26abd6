// Package filestore keeps uploaded files on local disk under a single
// directory. Stored names are random, so the original file name never
// reaches the filesystem.
package filestore

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrOutsideRoot = errors.New("path outside upload directory")
	ErrTooLarge    = errors.New("file too large")
)

type Store struct {
	root string
}

type StoredFile struct {
	Name string
	Path string
	Size int64
}

func New(root string) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &Store{root: abs}, nil
}

func (s *Store) Root() string {
	return s.root
}

// Save copies r into a new file named <random>-<unix><ext> and returns where
// it landed. At most limit bytes are accepted when limit > 0.
func (s *Store) Save(r io.Reader, originalName string, limit int64) (StoredFile, error) {
	suffix, err := randomSuffix()
	if err != nil {
		return StoredFile{}, err
	}
	ext := strings.ToLower(filepath.Ext(originalName))
	name := fmt.Sprintf("%s-%d%s", suffix, time.Now().Unix(), ext)
	path := filepath.Join(s.root, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return StoredFile{}, err
	}
	src := r
	if limit > 0 {
		src = io.LimitReader(r, limit+1)
	}
	written, copyErr := io.Copy(f, src)
	closeErr := f.Close()
	if copyErr == nil && limit > 0 && written > limit {
		copyErr = fmt.Errorf("%w: exceeds %d bytes", ErrTooLarge, limit)
	}
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(path)
		if copyErr != nil {
			return StoredFile{}, copyErr
		}
		return StoredFile{}, closeErr
	}
	return StoredFile{Name: name, Path: path, Size: written}, nil
}

func (s *Store) Open(path string) (*os.File, error) {
	if err := s.contains(path); err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Remove deletes the file. A file that is already gone is not an error.
func (s *Store) Remove(path string) error {
	if err := s.contains(path); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Store) contains(path string) error {
	rel, err := filepath.Rel(s.root, filepath.Clean(path))
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ErrOutsideRoot
	}
	return nil
}

func randomSuffix() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
