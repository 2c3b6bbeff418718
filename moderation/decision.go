package moderation

import (
	"github.com/Omagujr8/ai-moderator/moderation/provider"
)

// Decision is the moderation outcome for a piece of content. Decisions are
// totally ordered by severity: blocked > flagged > approved.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionFlagged  Decision = "flagged"
	DecisionBlocked  Decision = "blocked"
)

// Model version tags for the two non-model outcomes.
const (
	// VersionNone is recorded when no signal was evaluated.
	VersionNone = "none"
	// VersionError is recorded when a signal's provider failed and the
	// signal degraded to its non-blocking default.
	VersionError = "error"
)

var severity = map[Decision]int{
	DecisionApproved: 0,
	DecisionFlagged:  1,
	DecisionBlocked:  2,
}

// MostSevere returns the worse of two decisions (fail-closed fusion).
func MostSevere(a, b Decision) Decision {
	if severity[b] > severity[a] {
		return b
	}
	return a
}

// DefaultBlockThreshold is the score at or above which a single category
// blocks the content. Runtime-configurable; this is only the default.
const DefaultBlockThreshold = 0.90

// Decide fuses a set of per-category scores into one decision.
//
// An empty score set means no signal was evaluated and is the only way to get
// an approved outcome: (approved, "none"). Otherwise any single score at or
// above blockThreshold blocks the content, and anything evaluated below the
// threshold is flagged for human review. The returned tag is the model
// version that produced the scores, passed through for per-version analytics.
func Decide(scores []provider.Score, modelVersion string, blockThreshold float64) (Decision, string) {
	if len(scores) == 0 {
		return DecisionApproved, VersionNone
	}
	for _, s := range scores {
		if s.Score >= blockThreshold {
			return DecisionBlocked, modelVersion
		}
	}
	return DecisionFlagged, modelVersion
}
