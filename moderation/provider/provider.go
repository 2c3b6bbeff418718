package provider

import (
	"context"
	"time"
)

// Score is one categorized classification result. Scores are always in the
// range [0,1].
type Score struct {
	Category string
	Score    float64
}

// TextClassifier scores a piece of text across toxicity categories (eg
// "toxicity", "hate", "sexual"). Implementations return every category the
// model reports; deciding which scores are actionable is the caller's problem.
type TextClassifier interface {
	AnalyzeText(ctx context.Context, text string) ([]Score, error)
	// Version returns the opaque model version tag recorded on persisted
	// results, for reproducibility and canary comparison.
	Version() string
}

// ImageClassifier scans an image (by addressable reference, eg URL) for unsafe
// content. Unlike TextClassifier, implementations return only the categories
// they consider flagged: an empty slice means the image is clean.
type ImageClassifier interface {
	AnalyzeImage(ctx context.Context, ref string) ([]Score, error)
	Version() string
}

// Frame is one sampled video frame, addressable the same way an image is.
type Frame struct {
	Ref    string
	Offset time.Duration
}

// FrameExtractor decomposes a video reference into sampled frames at a fixed
// interval. The decode/codec mechanics are behind this interface; callers only
// see the sampling contract.
type FrameExtractor interface {
	ExtractFrames(ctx context.Context, ref string, interval time.Duration) ([]Frame, error)
}
