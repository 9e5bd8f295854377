package snapshot

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/vango-dev/widgetkit/pkg/render"
	"github.com/vango-dev/widgetkit/pkg/tree"
)

// ContentType is the content type snapshots are stored with.
const ContentType = "text/html; charset=utf-8"

// Metadata keys set by Export.
const (
	MetaRenderedAt = "rendered-at"
	MetaRootTag    = "root-tag"
)

// Common errors.
var (
	ErrNotFound    = errors.New("snapshot: not found")
	ErrInvalidName = errors.New("snapshot: invalid name")
)

// Snapshot is a stored rendering.
type Snapshot struct {
	Name        string
	HTML        []byte
	ContentType string
	Metadata    map[string]string
}

// Store persists snapshots by name.
type Store interface {
	// Put stores html under name, replacing any previous snapshot.
	Put(ctx context.Context, name string, html []byte, meta map[string]string) error

	// Get returns the snapshot stored under name, or ErrNotFound.
	Get(ctx context.Context, name string) (*Snapshot, error)

	// Delete removes the snapshot stored under name. Deleting a missing
	// snapshot is not an error.
	Delete(ctx context.Context, name string) error
}

// ValidateName reports whether name can be used as a snapshot name.
func ValidateName(name string) error {
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, "..") || strings.Contains(name, `\`) {
		return ErrInvalidName
	}
	return nil
}

// Export renders root and stores it under name.
func Export(ctx context.Context, store Store, name string, r *render.Renderer, root *tree.Node) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, root); err != nil {
		return err
	}
	meta := map[string]string{
		MetaRenderedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if root != nil {
		meta[MetaRootTag] = root.Tag
	}
	return store.Put(ctx, name, buf.Bytes(), meta)
}

func copyMeta(meta map[string]string) map[string]string {
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}
