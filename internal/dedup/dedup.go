package dedup

import (
	"context"
	"slices"
	"sync"

	"github.com/yz4230/hookdeploy/internal/notify"
)

const DefaultSize = 5

// Cache remembers the most recently accepted commit ids so that redelivered
// webhooks do not trigger a second deployment. It is bounded and in-memory
// only: a restart forgets everything, and a duplicate arriving after Size
// newer commits is accepted again.
type Cache struct {
	mu       sync.Mutex
	size     int
	commits  []string
	notifier notify.Notifier
}

func New(size int, notifier notify.Notifier) *Cache {
	if size <= 0 {
		size = DefaultSize
	}
	return &Cache{size: size, commits: make([]string, 0, size+1), notifier: notifier}
}

// Accept records commit and returns true if it has not been seen recently.
// Empty commits are always rejected.
func (c *Cache) Accept(ctx context.Context, service, commit string) bool {
	if commit == "" {
		return false
	}

	c.mu.Lock()
	if slices.Contains(c.commits, commit) {
		c.mu.Unlock()
		return false
	}
	c.commits = append(c.commits, commit)
	if len(c.commits) > c.size {
		c.commits = c.commits[1:]
	}
	c.mu.Unlock()

	notify.Notifyf(ctx, c.notifier, "🔗 *New commit for %s:* ```%s```", service, commit)
	return true
}

// Commits returns the resident commit ids, oldest first.
func (c *Cache) Commits() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.commits)
}
