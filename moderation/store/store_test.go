package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemStoreContentRoundtrip(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	s := NewMemStore()

	_, err := s.GetContent(ctx, 123)
	assert.True(errors.Is(err, ErrNotFound))

	c := &Content{
		ExternalID: "ext-1",
		Text:       "hello",
		SourceApp:  "app1",
	}
	assert.NoError(s.CreateContent(ctx, c))
	assert.NotZero(c.ID)
	assert.Equal(StatusPending, c.Status)

	got, err := s.GetContent(ctx, c.ID)
	assert.NoError(err)
	assert.Equal("ext-1", got.ExternalID)

	got.Status = StatusEvaluating
	assert.NoError(s.SaveContent(ctx, got))
	again, err := s.GetContent(ctx, c.ID)
	assert.NoError(err)
	assert.Equal(StatusEvaluating, again.Status)
}

func TestMemStoreFinalizeRunReplacesResults(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	s := NewMemStore()
	c := &Content{Text: "some text"}
	assert.NoError(s.CreateContent(ctx, c))

	first := []*ModerationResult{
		{Category: "toxicity", Score: 0.95, Decision: "blocked", ModelVersion: "toxicity_v1.1"},
		{Category: "hate", Score: 0.2, Decision: "blocked", ModelVersion: "toxicity_v1.1"},
	}
	c.Status = "blocked"
	assert.NoError(s.FinalizeRun(ctx, c, first))

	rows, err := s.GetResults(ctx, c.ID)
	assert.NoError(err)
	assert.Len(rows, 2)

	// a retried run must replace, not append
	second := []*ModerationResult{
		{Category: "toxicity", Score: 0.4, Decision: "flagged", ModelVersion: "toxicity_v1.2"},
	}
	c.Status = "flagged"
	assert.NoError(s.FinalizeRun(ctx, c, second))

	rows, err = s.GetResults(ctx, c.ID)
	assert.NoError(err)
	assert.Len(rows, 1)
	assert.Equal("toxicity_v1.2", rows[0].ModelVersion)

	got, err := s.GetContent(ctx, c.ID)
	assert.NoError(err)
	assert.Equal("flagged", got.Status)
}

func TestMemStoreWebhooks(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	s := NewMemStore()

	_, err := s.GetWebhook(ctx, "app1")
	assert.True(errors.Is(err, ErrNotFound))

	assert.NoError(s.PutWebhook(ctx, &Webhook{SourceApp: "app1", CallbackURL: "http://example.com/cb"}))
	h, err := s.GetWebhook(ctx, "app1")
	assert.NoError(err)
	assert.Equal("http://example.com/cb", h.CallbackURL)

	// re-registration overwrites
	assert.NoError(s.PutWebhook(ctx, &Webhook{SourceApp: "app1", CallbackURL: "http://example.com/cb2"}))
	h, err = s.GetWebhook(ctx, "app1")
	assert.NoError(err)
	assert.Equal("http://example.com/cb2", h.CallbackURL)
}
