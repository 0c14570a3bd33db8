package cmd

import (
	"image"
	"sync"
	"time"

	"github.com/deskctl/deskctl/internal/capture"
	"github.com/deskctl/deskctl/internal/geom"
)

// mcpFrameCache is a TTL cache of captured screen frames. MCP agents
// often issue several find calls against the same screen state in
// quick succession; reusing the frame keeps those calls cheap and
// mutually consistent.
type mcpFrameCache struct {
	mu      sync.Mutex
	entries map[geom.BBox]mcpFrameEntry
	ttl     time.Duration
}

type mcpFrameEntry struct {
	frame     *image.RGBA
	timestamp time.Time
}

// newMCPFrameCache creates a new cache. A ttl of 0 disables caching.
func newMCPFrameCache(ttl time.Duration) *mcpFrameCache {
	return &mcpFrameCache{
		entries: make(map[geom.BBox]mcpFrameEntry),
		ttl:     ttl,
	}
}

// grab returns a cached frame for the region if within TTL, otherwise
// captures fresh.
func (c *mcpFrameCache) grab(region geom.BBox) (*image.RGBA, error) {
	if c.ttl == 0 {
		return capture.Screenshot(region, capture.Options{})
	}

	c.mu.Lock()
	if entry, ok := c.entries[region]; ok && time.Since(entry.timestamp) < c.ttl {
		frame := entry.frame
		c.mu.Unlock()
		return frame, nil
	}
	c.mu.Unlock()

	frame, err := capture.Screenshot(region, capture.Options{})
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[region] = mcpFrameEntry{frame: frame, timestamp: time.Now()}
	c.mu.Unlock()

	return frame, nil
}

// invalidate drops every cached frame. Input actions change what is
// on screen, so they must not be followed by stale reads.
func (c *mcpFrameCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[geom.BBox]mcpFrameEntry)
}
