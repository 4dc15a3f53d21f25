package dedup

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yz4230/hookdeploy/internal/testutil"
)

func TestAcceptRejectsEmpty(t *testing.T) {
	n := &testutil.Notifier{}
	c := New(DefaultSize, n)
	assert.False(t, c.Accept(testutil.Context(), "svcA", ""))
	assert.Empty(t, c.Commits())
	assert.Empty(t, n.Messages())
}

func TestAcceptRejectsDuplicate(t *testing.T) {
	n := &testutil.Notifier{}
	c := New(DefaultSize, n)
	ctx := testutil.Context()

	assert.True(t, c.Accept(ctx, "svcA", "abc123"))
	assert.False(t, c.Accept(ctx, "svcA", "abc123"))
	assert.Len(t, n.Messages(), 1)
	assert.True(t, n.Contains("New commit for svcA"))
}

func TestEvictionIsFIFO(t *testing.T) {
	c := New(DefaultSize, &testutil.Notifier{})
	ctx := testutil.Context()

	assert.True(t, c.Accept(ctx, "svc", "c0"))
	for i := 1; i < DefaultSize; i++ {
		assert.True(t, c.Accept(ctx, "svc", fmt.Sprintf("c%d", i)))
	}
	// c0 is still resident after four newer commits
	assert.False(t, c.Accept(ctx, "svc", "c0"))

	assert.True(t, c.Accept(ctx, "svc", "c5"))
	assert.Equal(t, []string{"c1", "c2", "c3", "c4", "c5"}, c.Commits())
	// the fifth newer commit evicted c0
	assert.True(t, c.Accept(ctx, "svc", "c0"))
	assert.Equal(t, []string{"c2", "c3", "c4", "c5", "c0"}, c.Commits())
}

func TestNonPositiveSizeUsesDefault(t *testing.T) {
	c := New(0, &testutil.Notifier{})
	ctx := testutil.Context()
	for i := 0; i < 10; i++ {
		c.Accept(ctx, "svc", fmt.Sprintf("c%d", i))
	}
	assert.Len(t, c.Commits(), DefaultSize)
}

func TestConcurrentAcceptOnce(t *testing.T) {
	c := New(DefaultSize, &testutil.Notifier{})
	ctx := testutil.Context()

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 50; i++ {
		wg.Go(func() {
			if c.Accept(ctx, "svc", "same") {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		})
	}
	wg.Wait()
	assert.Equal(t, 1, accepted)
}
