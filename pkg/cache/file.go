package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// FileCache persists normalized images on disk, so repeated runs over the
// same folder skip the decode and resize work. Entries are sharded into
// subdirectories by key hash and carry their expiry inline; there is no
// index file to corrupt.
type FileCache struct {
	root string
}

// NewFileCache creates a file-backed cache rooted at root, creating the
// directory if needed.
func NewFileCache(root string) (Cache, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, err
	}
	return &FileCache{root: root}, nil
}

// imageEntry is the on-disk envelope around a normalized image payload.
type imageEntry struct {
	Image     []byte    `json:"image"`
	StoredAt  time.Time `json:"stored_at"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

func (e *imageEntry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Get returns the normalized image stored under key. Unreadable and expired
// entries are removed and reported as misses, so the caller re-normalizes
// from source.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.shardPath(key)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry imageEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		_ = os.Remove(path)
		return nil, false, nil
	}
	if entry.expired(time.Now()) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return entry.Image, true, nil
}

// Set stores a normalized image under key. The entry is written to a temp
// file and renamed into place, so a pack and a preview server sharing the
// cache never observe a torn entry.
func (c *FileCache) Set(ctx context.Context, key string, image []byte, ttl time.Duration) error {
	entry := imageEntry{
		Image:    image,
		StoredAt: time.Now(),
	}
	if ttl > 0 {
		entry.ExpiresAt = entry.StoredAt.Add(ttl)
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := c.shardPath(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".entry-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete evicts the entry under key. Missing entries are not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.shardPath(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close is a no-op; every operation leaves the directory consistent.
func (c *FileCache) Close() error {
	return nil
}

// shardPath maps a key onto <root>/<hh>/<hash>.img, with the first hash
// byte as the shard so no single directory accumulates every entry.
func (c *FileCache) shardPath(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(c.root, hash[:2], hash[2:]+".img")
}

var _ Cache = (*FileCache)(nil)
