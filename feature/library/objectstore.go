package library

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"
	"time"

	"psn-value/core/catalog"
	"psn-value/core/reconcile"
	"psn-value/core/storage"

	"github.com/minio/minio-go/v7"
)

var (
	_ reconcile.Archiver        = (*ObjectStore)(nil)
	_ reconcile.ThumbnailMirror = (*ObjectStore)(nil)
)

// ImageFetcher downloads storefront images.
type ImageFetcher interface {
	FetchImage(ctx context.Context, imageURL string) ([]byte, string, error)
}

// Snapshot is an archived catalog page.
type Snapshot struct {
	RunID        string    `json:"run_id"`
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// ObjectStore mirrors thumbnails and archives catalog pages in object storage.
type ObjectStore struct {
	client storage.Client
	cfg    storage.Config
	images ImageFetcher
}

// NewObjectStore creates an ObjectStore writing to cfg.Bucket.
func NewObjectStore(client storage.Client, cfg storage.Config, images ImageFetcher) *ObjectStore {
	return &ObjectStore{client: client, cfg: cfg, images: images}
}

func snapshotPrefix(libraryID uint) string {
	return fmt.Sprintf("catalog/%d/", libraryID)
}

// ArchiveCatalog writes the raw catalog page under catalog/<library>/<run>.json.
func (s *ObjectStore) ArchiveCatalog(ctx context.Context, library reconcile.LibraryInfo, runID string, page *catalog.Catalog) error {
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("failed to encode catalog snapshot: %w", err)
	}

	key := snapshotPrefix(library.ID) + runID + ".json"
	_, err = s.client.PutObject(ctx, s.cfg.Bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// MirrorThumbnail copies a storefront image to thumbnails/<library>/<title>
// and returns its public URL.
func (s *ObjectStore) MirrorThumbnail(ctx context.Context, library reconcile.LibraryInfo, externalID, sourceURL string) (string, error) {
	data, contentType, err := s.images.FetchImage(ctx, sourceURL)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("thumbnails/%d/%s%s", library.ID, url.PathEscape(externalID), imageExt(sourceURL))
	_, err = s.client.PutObject(ctx, s.cfg.Bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return s.cfg.ObjectURL(key), nil
}

// ListSnapshots returns the archived catalog pages of a library, newest first.
func (s *ObjectStore) ListSnapshots(ctx context.Context, libraryID uint) ([]Snapshot, error) {
	prefix := snapshotPrefix(libraryID)
	out := []Snapshot{}
	for obj := range s.client.ListObjects(ctx, s.cfg.Bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		out = append(out, Snapshot{
			RunID:        strings.TrimSuffix(strings.TrimPrefix(obj.Key, prefix), ".json"),
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastModified.After(out[j].LastModified) })
	return out, nil
}

// imageExt returns the file extension of an image URL, ignoring its query.
func imageExt(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	ext := strings.ToLower(path.Ext(u.Path))
	if len(ext) > 5 {
		return ""
	}
	return ext
}
