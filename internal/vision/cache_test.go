package vision

import (
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func writeTemplateFile(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "tpl.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create template file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, gradientGray(12, 12)); err != nil {
		t.Fatalf("encode template: %v", err)
	}
	return path
}

func TestMatcherCacheReusesInstances(t *testing.T) {
	path := writeTemplateFile(t, t.TempDir())
	cache := NewMatcherCache()

	a, err := cache.Get(path, MatcherOptions{Threshold: 0.8})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	b, err := cache.Get(path, MatcherOptions{Threshold: 0.8})
	if err != nil {
		t.Fatalf("Get again: %v", err)
	}
	if a != b {
		t.Fatal("same key should return the same matcher instance")
	}

	c, err := cache.Get(path, MatcherOptions{Threshold: 0.9})
	if err != nil {
		t.Fatalf("Get with new threshold: %v", err)
	}
	if a == c {
		t.Fatal("different threshold should construct a new matcher")
	}
	if cache.Len() != 2 {
		t.Fatalf("cache holds %d entries, want 2", cache.Len())
	}
}

func TestMatcherCacheConcurrentGet(t *testing.T) {
	path := writeTemplateFile(t, t.TempDir())
	cache := NewMatcherCache()

	const workers = 16
	results := make([]*TemplateMatcher, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, err := cache.Get(path, MatcherOptions{Threshold: 0.8})
			if err != nil {
				t.Errorf("worker %d: %v", i, err)
				return
			}
			results[i] = m
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if results[i] != results[0] {
			t.Fatal("concurrent gets returned different instances")
		}
	}
	if cache.Len() != 1 {
		t.Fatalf("cache holds %d entries, want 1", cache.Len())
	}
}

func TestMatcherCacheCachesFailures(t *testing.T) {
	cache := NewMatcherCache()
	if _, err := cache.Get("no/such/template.png", MatcherOptions{Threshold: 0.8}); err == nil {
		t.Fatal("missing template should fail")
	}
	if _, err := cache.Get("no/such/template.png", MatcherOptions{Threshold: 0.8}); err == nil {
		t.Fatal("failure should be cached and still fail")
	}
	if cache.Len() != 1 {
		t.Fatalf("cache holds %d entries, want 1", cache.Len())
	}
}
