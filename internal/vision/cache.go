package vision

import "sync"

// matcherKey identifies one cached matcher. Scale factors are
// deliberately not part of the key: callers that vary scales per call
// should construct matchers directly instead of going through the
// cache.
type matcherKey struct {
	Path      string
	Threshold float64
	Method    Method
}

type matcherEntry struct {
	once    sync.Once
	matcher *TemplateMatcher
	err     error
}

// MatcherCache hands out process-wide TemplateMatcher instances, one
// per (template path, threshold, method). Construction is serialized
// per key so concurrent callers never decode the same template twice.
// Entries live for the life of the process; there is no eviction.
type MatcherCache struct {
	mu      sync.Mutex
	entries map[matcherKey]*matcherEntry
}

// NewMatcherCache creates an empty cache.
func NewMatcherCache() *MatcherCache {
	return &MatcherCache{entries: make(map[matcherKey]*matcherEntry)}
}

// Matchers is the shared process-wide cache.
var Matchers = NewMatcherCache()

// Get returns the cached matcher for the key, constructing it on first
// use. A failed construction is cached too: retrying a missing
// template file on every call would just hammer the filesystem.
func (c *MatcherCache) Get(path string, opts MatcherOptions) (*TemplateMatcher, error) {
	key := matcherKey{Path: path, Threshold: opts.Threshold, Method: opts.Method}

	c.mu.Lock()
	entry, ok := c.entries[key]
	if !ok {
		entry = &matcherEntry{}
		c.entries[key] = entry
	}
	c.mu.Unlock()

	entry.once.Do(func() {
		entry.matcher, entry.err = NewMatcherFromFile(path, opts)
		if entry.err != nil {
			log.Warn("matcher construction failed", "path", path, "err", entry.err)
		}
	})
	return entry.matcher, entry.err
}

// Len reports how many entries the cache holds.
func (c *MatcherCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
