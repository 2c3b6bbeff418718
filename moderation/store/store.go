// Package store persists moderation state: content records, the per-category
// moderation results produced by each run, and the webhook callback registry.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when the requested record does not exist. Callers
// distinguish it from transient failures with errors.Is.
var ErrNotFound = errors.New("record not found")

// Content statuses before a run reaches a decision. Terminal statuses are the
// decision strings themselves (approved, flagged, blocked).
const (
	StatusPending    = "pending"
	StatusEvaluating = "evaluating"
)

type Content struct {
	ID         int64  `gorm:"primarykey"`
	ExternalID string `gorm:"index"`

	Text     string
	ImageURL string
	VideoURL string

	// Username is supplied by the ingestion side; UserHash is the one-way
	// reference written by the moderation engine.
	Username string
	UserHash string `gorm:"index"`

	ContentType string `gorm:"index"`
	SourceApp   string `gorm:"index"`
	Status      string `gorm:"index;default:pending"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Content) TableName() string {
	return "content"
}

// ModerationResult is one persisted per-category score from a moderation run.
// Rows are immutable once written; a re-run replaces them wholesale.
type ModerationResult struct {
	ID           int64  `gorm:"primarykey"`
	ContentID    int64  `gorm:"index"`
	Category     string `gorm:"index"`
	Score        float64
	Decision     string
	ModelVersion string `gorm:"index"`
	CreatedAt    time.Time
}

func (ModerationResult) TableName() string {
	return "moderation_result"
}

// Webhook maps a source application to the callback URL notified after each
// moderation decision.
type Webhook struct {
	ID          int64  `gorm:"primarykey"`
	SourceApp   string `gorm:"uniqueIndex"`
	CallbackURL string
}

func (Webhook) TableName() string {
	return "webhooks"
}

type Store interface {
	CreateContent(ctx context.Context, content *Content) error
	GetContent(ctx context.Context, id int64) (*Content, error)
	SaveContent(ctx context.Context, content *Content) error

	// FinalizeRun commits the outcome of one moderation run atomically:
	// any result rows from a prior attempt of the same content are deleted,
	// the new rows inserted, and the content record saved. Retried runs
	// therefore never accumulate duplicate result rows.
	FinalizeRun(ctx context.Context, content *Content, results []*ModerationResult) error

	GetResults(ctx context.Context, contentID int64) ([]*ModerationResult, error)

	GetWebhook(ctx context.Context, sourceApp string) (*Webhook, error)
	PutWebhook(ctx context.Context, hook *Webhook) error
}
