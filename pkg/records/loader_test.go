package records

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/matzehuels/barchart/pkg/cache"
	"github.com/matzehuels/barchart/pkg/errors"
)

type countingHooks struct {
	mu     sync.Mutex
	hits   int
	misses int
	sets   int
}

func (h *countingHooks) OnCacheHit(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits++
}

func (h *countingHooks) OnCacheMiss(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.misses++
}

func (h *countingHooks) OnCacheSet(context.Context, string, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sets++
}

func TestLoaderCoffee(t *testing.T) {
	table, err := NewLoader().Load(context.Background(), filepath.Join("testdata", "coffee.csv"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if table.CategoryKey != "Company" {
		t.Errorf("CategoryKey = %q, want Company", table.CategoryKey)
	}
	if len(table.Records) != 5 {
		t.Fatalf("len(Records) = %d, want 5 grouped chains", len(table.Records))
	}
	tim := table.Records[1]
	if got, _ := tim.Measure("Stores"); got != 5000 {
		t.Errorf("Tim Hortons stores = %v, want 5000", got)
	}
	a, b := 3.16, 0.4
	if got, _ := tim.Measure("Revenue"); got != a+b {
		t.Errorf("Tim Hortons revenue = %v, want %v", got, a+b)
	}
}

func TestLoaderCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fc, err := cache.NewFileCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	hooks := &countingHooks{}
	l := NewLoader(WithCache(fc), WithCacheHooks(hooks))

	path := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(path, []byte("k,v\na,1\na,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	first, err := l.Load(ctx, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	second, err := l.Load(ctx, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if hooks.misses != 1 || hooks.sets != 1 || hooks.hits != 1 {
		t.Errorf("hooks = %d hits, %d misses, %d sets; want 1, 1, 1", hooks.hits, hooks.misses, hooks.sets)
	}
	v1, _ := first.Records[0].Measure("v")
	v2, _ := second.Records[0].Measure("v")
	if v1 != 3 || v2 != 3 {
		t.Errorf("cached table differs: %v vs %v", v1, v2)
	}
	if !second.Numeric["v"] {
		t.Error("Numeric lost in cache round trip")
	}

	// Changed content hashes to a new key.
	if err := os.WriteFile(path, []byte("k,v\na,5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	third, err := l.Load(ctx, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if v, _ := third.Records[0].Measure("v"); v != 5 {
		t.Errorf("stale cache entry served: v = %v", v)
	}
}

func TestLoaderErrors(t *testing.T) {
	ctx := context.Background()
	l := NewLoader()

	_, err := l.Load(ctx, filepath.Join(t.TempDir(), "missing.csv"))
	if !errors.Is(err, errors.ErrCodeLoad) {
		t.Errorf("missing file error = %v, want LOAD_ERROR", err)
	}

	_, err = l.LoadReader(ctx, "stdin", strings.NewReader("k,k\n"))
	if !errors.Is(err, errors.ErrCodeLoad) {
		t.Errorf("bad header error = %v, want LOAD_ERROR", err)
	}
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad header error = %v, want INVALID_FORMAT cause", err)
	}
}
