package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/boreholelog/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)
	dir, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join(xdg, appName) {
		t.Errorf("cacheDir() = %q, want under %q", dir, xdg)
	}
}

func TestNewCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c, err := newCache(true)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(cache.NullCache); !ok {
		t.Errorf("newCache(noCache) = %T, want NullCache", c)
	}
	c, err = newCache(false)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*cache.FileCache); !ok {
		t.Errorf("newCache() = %T, want *FileCache", c)
	}
}

func TestCacheCommands(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	fc, err := openFileCache()
	if err != nil || fc != nil {
		t.Fatalf("openFileCache() on missing dir = %v, %v", fc, err)
	}

	fc, err = cache.NewFileCache(filepath.Join(xdg, appName))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	_ = fc.Set(ctx, "page:a", []byte("a"), time.Hour)
	_ = fc.Set(ctx, "page:b", []byte("b"), time.Nanosecond)
	time.Sleep(5 * time.Millisecond)

	// Each invocation gets its own command tree; cobra keeps flag values
	// between Execute calls on the same root.
	run := func(out *strings.Builder, args ...string) {
		t.Helper()
		root := New(os.Stderr, LogInfo).RootCommand()
		if out != nil {
			root.SetOut(out)
		}
		root.SetArgs(args)
		if err := root.Execute(); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}

	run(nil, "cache", "clear", "--expired")
	if _, ok, _ := fc.Get(ctx, "page:a"); !ok {
		t.Error("live entry removed by clear --expired")
	}
	if st, _ := fc.Stats(); st.Entries != 1 {
		t.Errorf("entries after clear --expired = %d, want 1", st.Entries)
	}

	run(nil, "cache", "clear")
	st, err := fc.Stats()
	if err != nil || st.Entries != 0 {
		t.Errorf("stats after clear = %+v, %v", st, err)
	}

	var out strings.Builder
	run(&out, "cache", "path")
	if got := strings.TrimSpace(out.String()); got != filepath.Join(xdg, appName) {
		t.Errorf("cache path = %q", got)
	}
}
