package moderation

import (
	"math/rand"
)

// CanarySelector routes a configured percentage of text classification
// traffic to the canary model version for live comparison against the active
// one. Selection is an independent random draw per invocation and is
// deliberately not sticky: the same content re-processed on retry may land on
// a different model version, which is accepted (results carry the version tag
// that actually scored them). A deployment wanting consistent per-content
// assignment would need a deterministic hash-based selector instead.
type CanarySelector struct {
	// Percent of traffic routed to the canary, in [0,100].
	Percent int
}

// UseCanary reports whether this invocation should be scored by the canary
// model. Percent <= 0 never selects it; Percent >= 100 always does.
func (s CanarySelector) UseCanary() bool {
	if s.Percent <= 0 {
		return false
	}
	if s.Percent >= 100 {
		return true
	}
	return rand.Intn(100) < s.Percent
}
