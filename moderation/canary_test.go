package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanarySelectorBounds(t *testing.T) {
	assert := assert.New(t)

	never := CanarySelector{Percent: 0}
	for i := 0; i < 2000; i++ {
		assert.False(never.UseCanary())
	}

	always := CanarySelector{Percent: 100}
	for i := 0; i < 2000; i++ {
		assert.True(always.UseCanary())
	}
}

func TestCanarySelectorSplit(t *testing.T) {
	assert := assert.New(t)

	sel := CanarySelector{Percent: 10}
	draws := 100_000
	canary := 0
	for i := 0; i < draws; i++ {
		if sel.UseCanary() {
			canary++
		}
	}

	// 10% +/- 1% over 100k draws; far outside any plausible random noise
	rate := float64(canary) / float64(draws)
	assert.Greater(rate, 0.09)
	assert.Less(rate, 0.11)
}
