package docstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// FilePersister writes the document to a single file, replacing it atomically
// through a temp file and rename.
type FilePersister struct {
	Path string
}

func NewFilePersister(path string) (*FilePersister, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return &FilePersister{Path: path}, nil
}

func (p *FilePersister) Load(ctx context.Context) ([]byte, error) {
	raw, err := os.ReadFile(p.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return raw, err
}

func (p *FilePersister) Save(ctx context.Context, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(p.Path), filepath.Base(p.Path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, p.Path)
}

func (p *FilePersister) Ping(ctx context.Context) error {
	_, err := os.Stat(p.Path)
	return err
}

// MemoryPersister keeps the document in memory. Used by tests and by
// throwaway instances.
type MemoryPersister struct {
	mu   sync.Mutex
	data []byte
	// failSaves makes every Save return ErrSaveRejected while set.
	failSaves bool
}

var ErrSaveRejected = errors.New("save rejected")

func (p *MemoryPersister) Load(ctx context.Context) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.data == nil {
		return nil, nil
	}
	out := make([]byte, len(p.data))
	copy(out, p.data)
	return out, nil
}

func (p *MemoryPersister) Save(ctx context.Context, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failSaves {
		return ErrSaveRejected
	}
	p.data = make([]byte, len(data))
	copy(p.data, data)
	return nil
}

func (p *MemoryPersister) SetFailSaves(fail bool) {
	p.mu.Lock()
	p.failSaves = fail
	p.mu.Unlock()
}

func (p *MemoryPersister) Ping(ctx context.Context) error {
	return nil
}
