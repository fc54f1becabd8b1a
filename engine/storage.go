package engine

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/drummonds/docstudio/viewer"
	"github.com/oklog/ulid/v2"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	"gocloud.dev/gcerrors"
)

const (
	stagedPrefix     = "staged/"
	collectionPrefix = "collection/"
)

// Storage keeps staged uploads and collection documents in a blob bucket.
// Any gocloud URL works: file:// and mem:// are built in, the binary links
// the cloud drivers.
type Storage struct {
	bucket *blob.Bucket
	url    string
}

// OpenStorage opens the bucket at url
func OpenStorage(ctx context.Context, url string) (*Storage, error) {
	bucket, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("open bucket %s: %w", url, err)
	}
	return &Storage{bucket: bucket, url: url}, nil
}

// URL is the bucket the storage was opened on
func (s *Storage) URL() string {
	return s.url
}

// Put writes data under key
func (s *Storage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	opts := &blob.WriterOptions{ContentType: contentType}
	if err := s.bucket.WriteAll(ctx, key, data, opts); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Get reads the object at key. A missing object is viewer.ErrDocumentNotFound.
func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.bucket.ReadAll(ctx, key)
	if err != nil {
		if isNotExist(err) {
			return nil, fmt.Errorf("read %s: %w", key, viewer.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Copy duplicates src to dst inside the bucket
func (s *Storage) Copy(ctx context.Context, dst, src string) error {
	if err := s.bucket.Copy(ctx, dst, src, nil); err != nil {
		if isNotExist(err) {
			return fmt.Errorf("copy %s: %w", src, viewer.ErrDocumentNotFound)
		}
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	return nil
}

// Delete removes key, a missing key is not an error
func (s *Storage) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Delete(ctx, key); err != nil && !isNotExist(err) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Keys lists every key under prefix
func (s *Storage) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := s.bucket.List(&blob.ListOptions{Prefix: prefix})
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", prefix, err)
		}
		if !obj.IsDir {
			keys = append(keys, obj.Key)
		}
	}
	return keys, nil
}

// DeletePrefix removes every object under prefix and returns how many went
func (s *Storage) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	keys, err := s.Keys(ctx, prefix)
	if err != nil {
		return 0, err
	}
	for _, key := range keys {
		if err := s.Delete(ctx, key); err != nil {
			return 0, err
		}
	}
	return len(keys), nil
}

// Exists reports whether key is present
func (s *Storage) Exists(ctx context.Context, key string) (bool, error) {
	return s.bucket.Exists(ctx, key)
}

// Close releases the bucket
func (s *Storage) Close() error {
	return s.bucket.Close()
}

func isNotExist(err error) bool {
	return gcerrors.Code(err) == gcerrors.NotFound
}

// stagedKey is where an upload of one staged selection lives
func stagedKey(workspace, batch, name string) string {
	return workspacePrefix(workspace) + batch + "/" + name
}

func workspacePrefix(workspace string) string {
	return stagedPrefix + workspace + "/"
}

func collectionKey(id ulid.ULID, ext string) string {
	return collectionPrefix + id.String() + ext
}

// cleanName reduces an uploaded file name to its last element, browsers on
// some platforms send the full client path
func cleanName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
