package cache

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Entry files are laid out as
//
//	"SCZ1" | expiry unix nanos (uint64 BE, 0 = never) | zstd payload
//
// and named <sha256[2:]>.zst inside a <sha256[:2]> shard directory.
const (
	entryExt   = ".zst"
	headerSize = 12
)

var entryMagic = []byte("SCZ1")

var codec = sync.OnceValues(func() (*zstd.Encoder, *zstd.Decoder) {
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1), zstd.WithZeroFrames(true))
	dec, _ := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	return enc, dec
})

// FileCache stores compressed entries under a directory. It is the
// default backend for the CLI.
type FileCache struct {
	dir string
}

// NewFileCache opens dir as a cache, creating it if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

// Clear removes every entry and returns how many were removed.
func (c *FileCache) Clear(ctx context.Context) (int, error) {
	count := 0
	err := filepath.WalkDir(c.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || filepath.Ext(path) != entryExt {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return err
		}
		count++
		return nil
	})
	return count, err
}

// Size returns the number of entries and their total size in bytes.
func (c *FileCache) Size() (entries int, bytes int64, err error) {
	err = filepath.WalkDir(c.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != entryExt {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		entries++
		bytes += info.Size()
		return nil
	})
	return entries, bytes, err
}

// Get returns the entry for key. Expired and unreadable entries are
// removed and reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	data, ok := decodeEntry(raw, time.Now())
	if !ok {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return data, true, nil
}

// Set writes the entry for key. A non-positive ttl never expires.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(encodeEntry(data, expires)); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete removes the entry for key. Missing keys are not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (c *FileCache) Close() error { return nil }

func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:]+entryExt)
}

func encodeEntry(data []byte, expires time.Time) []byte {
	enc, _ := codec()
	out := make([]byte, headerSize, headerSize+len(data)/2+16)
	copy(out, entryMagic)
	if !expires.IsZero() {
		binary.BigEndian.PutUint64(out[4:headerSize], uint64(expires.UnixNano()))
	}
	return enc.EncodeAll(data, out)
}

func decodeEntry(raw []byte, now time.Time) ([]byte, bool) {
	if len(raw) < headerSize || !bytes.Equal(raw[:4], entryMagic) {
		return nil, false
	}
	if exp := int64(binary.BigEndian.Uint64(raw[4:headerSize])); exp != 0 && now.UnixNano() > exp {
		return nil, false
	}
	body := raw[headerSize:]
	if len(body) == 0 {
		return []byte{}, true
	}
	_, dec := codec()
	data, err := dec.DecodeAll(body, nil)
	if err != nil {
		return nil, false
	}
	return data, true
}

var _ Cache = (*FileCache)(nil)
