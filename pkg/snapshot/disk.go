package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// DiskStore stores snapshots as files under a directory. Each snapshot is
// written as <name>.html with its metadata in <name>.html.meta.
type DiskStore struct {
	dir string
}

type diskMeta struct {
	ContentType string            `json:"content_type"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// NewDiskStore creates a DiskStore rooted at dir, creating it if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &DiskStore{dir: dir}, nil
}

// Dir returns the store's directory.
func (s *DiskStore) Dir() string {
	return s.dir
}

func (s *DiskStore) path(name string) string {
	return filepath.Join(s.dir, filepath.FromSlash(name)+".html")
}

func (s *DiskStore) metaPath(name string) string {
	return s.path(name) + ".meta"
}

// Put implements Store.
func (s *DiskStore) Put(_ context.Context, name string, html []byte, meta map[string]string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	path := s.path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(path, html, 0644); err != nil {
		return err
	}
	data, err := json.Marshal(diskMeta{ContentType: ContentType, Metadata: meta})
	if err != nil {
		os.Remove(path)
		return err
	}
	return os.WriteFile(s.metaPath(name), data, 0644)
}

// Get implements Store.
func (s *DiskStore) Get(_ context.Context, name string) (*Snapshot, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	html, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{Name: name, HTML: html, ContentType: ContentType, Metadata: map[string]string{}}
	if data, err := os.ReadFile(s.metaPath(name)); err == nil {
		var meta diskMeta
		if err := json.Unmarshal(data, &meta); err == nil {
			if meta.ContentType != "" {
				snap.ContentType = meta.ContentType
			}
			if meta.Metadata != nil {
				snap.Metadata = meta.Metadata
			}
		}
	}
	return snap, nil
}

// Delete implements Store.
func (s *DiskStore) Delete(_ context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := os.Remove(s.path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := os.Remove(s.metaPath(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
