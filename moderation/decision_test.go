package moderation

import (
	"testing"

	"github.com/Omagujr8/ai-moderator/moderation/provider"

	"github.com/stretchr/testify/assert"
)

func TestDecideEmpty(t *testing.T) {
	assert := assert.New(t)

	d, v := Decide(nil, "toxicity_v1.1", DefaultBlockThreshold)
	assert.Equal(DecisionApproved, d)
	assert.Equal(VersionNone, v)

	d, v = Decide([]provider.Score{}, "toxicity_v1.1", DefaultBlockThreshold)
	assert.Equal(DecisionApproved, d)
	assert.Equal(VersionNone, v)
}

func TestDecideFlagged(t *testing.T) {
	assert := assert.New(t)

	scores := []provider.Score{
		{Category: "toxicity", Score: 0.1},
		{Category: "hate", Score: 0.0},
	}
	d, v := Decide(scores, "toxicity_v1.1", DefaultBlockThreshold)
	assert.Equal(DecisionFlagged, d)
	assert.Equal("toxicity_v1.1", v)

	// just below the threshold stays flagged
	d, _ = Decide([]provider.Score{{Category: "toxicity", Score: 0.8999}}, "toxicity_v1.1", 0.90)
	assert.Equal(DecisionFlagged, d)
}

func TestDecideBlocked(t *testing.T) {
	assert := assert.New(t)

	// threshold is inclusive: a score exactly at the threshold blocks
	d, v := Decide([]provider.Score{{Category: "toxicity", Score: 0.90}}, "toxicity_v1.2", 0.90)
	assert.Equal(DecisionBlocked, d)
	assert.Equal("toxicity_v1.2", v)

	// one blocking score wins regardless of order or other values
	scores := []provider.Score{
		{Category: "hate", Score: 0.01},
		{Category: "toxicity", Score: 0.95},
		{Category: "sexual", Score: 0.3},
	}
	d, _ = Decide(scores, "toxicity_v1.1", DefaultBlockThreshold)
	assert.Equal(DecisionBlocked, d)
}

func TestMostSevere(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(DecisionBlocked, MostSevere(DecisionApproved, DecisionBlocked))
	assert.Equal(DecisionBlocked, MostSevere(DecisionBlocked, DecisionFlagged))
	assert.Equal(DecisionFlagged, MostSevere(DecisionFlagged, DecisionApproved))
	assert.Equal(DecisionApproved, MostSevere(DecisionApproved, DecisionApproved))
}
