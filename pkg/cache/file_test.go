package cache

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Errorf("Get(missing) = %v, %v; want miss", hit, err)
	}

	if err := c.Set(ctx, "chart", []byte("<svg/>"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "chart")
	if err != nil || !hit {
		t.Fatalf("Get(chart) = %v, %v; want hit", hit, err)
	}
	if string(data) != "<svg/>" {
		t.Errorf("Get(chart) = %q, want %q", data, "<svg/>")
	}

	if err := c.Delete(ctx, "chart"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "chart"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "chart"); err != nil {
		t.Errorf("Delete of missing key error: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "short", []byte("x"), time.Millisecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, hit, err := c.Get(ctx, "short"); hit || err != nil {
		t.Errorf("Get(expired) = %v, %v; want miss", hit, err)
	}

	if err := c.Set(ctx, "forever", []byte("x"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero TTL entry should not expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	_ = c.Set(ctx, "key", []byte("x"), 0)
	if err := os.WriteFile(c.path("key"), []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "key"); hit || err != nil {
		t.Errorf("Get(corrupt) = %v, %v; want miss", hit, err)
	}
}

func TestFileCacheClearAndSize(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatalf("Set error: %v", err)
		}
	}

	n, size, err := c.Size()
	if err != nil {
		t.Fatalf("Size error: %v", err)
	}
	if n != 3 || size <= 0 {
		t.Errorf("Size() = %d, %d; want 3 entries", n, size)
	}

	removed, err := c.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if removed != 3 {
		t.Errorf("Clear() = %d, want 3", removed)
	}
	if n, _, _ := c.Size(); n != 0 {
		t.Errorf("Size() after Clear = %d, want 0", n)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"file", Config{Backend: BackendFile, Dir: t.TempDir()}, false},
		{"default backend", Config{Dir: t.TempDir()}, false},
		{"none", Config{Backend: BackendNone}, false},
		{"redis without url", Config{Backend: BackendRedis}, true},
		{"mongo without uri", Config{Backend: BackendMongo}, true},
		{"unknown", Config{Backend: "memcached"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Open(ctx, tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if c != nil {
				c.Close()
			}
		})
	}
}

func TestDefaultDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := DefaultDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/tmp/xdg/starchart" {
		t.Errorf("DefaultDir() = %s, want /tmp/xdg/starchart", dir)
	}
}

func TestEntryEncoding(t *testing.T) {
	now := time.Date(2021, 5, 17, 21, 0, 0, 0, time.UTC)
	payload := []byte(strings.Repeat("<circle r=\"1\"/>", 64))

	raw := encodeEntry(payload, now.Add(time.Hour))
	if len(raw) >= len(payload) {
		t.Errorf("entry not compressed: %d >= %d bytes", len(raw), len(payload))
	}

	tests := []struct {
		name   string
		raw    []byte
		now    time.Time
		wantOK bool
	}{
		{"fresh", raw, now, true},
		{"expired", raw, now.Add(2 * time.Hour), false},
		{"never expires", encodeEntry(payload, time.Time{}), now.AddDate(10, 0, 0), true},
		{"bad magic", append([]byte("JSON"), raw[4:]...), now, false},
		{"truncated header", raw[:6], now, false},
		{"garbled body", append(append([]byte{}, raw[:headerSize]...), "not zstd"...), now, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, ok := decodeEntry(tt.raw, tt.now)
			if ok != tt.wantOK {
				t.Fatalf("decodeEntry ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && string(data) != string(payload) {
				t.Errorf("decodeEntry = %q", data)
			}
		})
	}
}
