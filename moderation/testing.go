package moderation

import (
	"log/slog"

	"github.com/Omagujr8/ai-moderator/moderation/countstore"
	"github.com/Omagujr8/ai-moderator/moderation/provider"
	"github.com/Omagujr8/ai-moderator/moderation/store"
	"github.com/Omagujr8/ai-moderator/moderation/toxicity"
)

// EngineTestFixture returns an engine wired to in-memory stores and clean
// deterministic provider stubs. Test code mutates the stub fields directly.
func EngineTestFixture() *Engine {
	return &Engine{
		Logger:  slog.Default(),
		Store:   store.NewMemStore(),
		Tallies: countstore.NewMemCountStore(),
		TextActive: &provider.StubTextClassifier{
			Tag:    toxicity.ModelActive,
			Scores: []provider.Score{{Category: "toxicity", Score: 0.1}},
		},
		TextCanary: &provider.StubTextClassifier{
			Tag:    toxicity.ModelCanary,
			Scores: []provider.Score{{Category: "toxicity", Score: 0.1}},
		},
		TextMultilingual: &provider.StubTextClassifier{
			Tag:    toxicity.ModelMultilingual,
			Scores: []provider.Score{{Category: "toxicity", Score: 0.1}},
		},
		Images: &provider.StubImageClassifier{Tag: "nsfw_v1"},
		Config: DefaultEngineConfig(),
	}
}
