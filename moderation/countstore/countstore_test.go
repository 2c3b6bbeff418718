package countstore

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemCountStoreBasics(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	cs := NewMemCountStore()

	c, err := cs.GetCount(ctx, "decision/app1", "blocked", PeriodTotal)
	assert.NoError(err)
	assert.Equal(0, c)

	assert.NoError(cs.Increment(ctx, "decision/app1", "blocked"))
	assert.NoError(cs.Increment(ctx, "decision/app1", "blocked"))
	assert.NoError(cs.Increment(ctx, "decision/app1", "approved"))

	for _, period := range []string{PeriodTotal, PeriodDay, PeriodHour} {
		c, err = cs.GetCount(ctx, "decision/app1", "blocked", period)
		assert.NoError(err)
		assert.Equal(2, c)
	}

	c, err = cs.GetCount(ctx, "decision/app1", "approved", PeriodTotal)
	assert.NoError(err)
	assert.Equal(1, c)
}

func TestMemCountStoreConcurrent(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	cs := NewMemCountStore()

	// run with `-race`; the final total should match the sum of all writes
	var wg sync.WaitGroup
	wg.Add(4)
	for i := 0; i < 4; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				assert.NoError(cs.Increment(ctx, "decision/app1", "flagged"))
			}
		}()
	}
	wg.Wait()

	c, err := cs.GetCount(ctx, "decision/app1", "flagged", PeriodTotal)
	assert.NoError(err)
	assert.Equal(100, c)
}
