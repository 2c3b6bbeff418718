package provider

import (
	"context"
	"time"
)

// Deterministic stand-ins for the real inference clients. These are selected
// explicitly at construction time (daemon config, or test fixtures), never via
// load-time fallback.

type StubTextClassifier struct {
	Tag    string
	Scores []Score
	Err    error
}

var _ TextClassifier = (*StubTextClassifier)(nil)

func (s *StubTextClassifier) AnalyzeText(ctx context.Context, text string) ([]Score, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Scores, nil
}

func (s *StubTextClassifier) Version() string {
	return s.Tag
}

type StubImageClassifier struct {
	Tag     string
	Flagged []Score
	Err     error

	// Calls counts AnalyzeImage invocations. Not safe for concurrent use;
	// intended for single-goroutine test assertions.
	Calls int
}

var _ ImageClassifier = (*StubImageClassifier)(nil)

func (s *StubImageClassifier) AnalyzeImage(ctx context.Context, ref string) ([]Score, error) {
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Flagged, nil
}

func (s *StubImageClassifier) Version() string {
	return s.Tag
}

// SequenceImageClassifier returns a fixed verdict per call, in order, cycling
// clean after the sequence is exhausted. Useful for per-frame video tests.
type SequenceImageClassifier struct {
	Tag      string
	Verdicts [][]Score

	Calls int
}

var _ ImageClassifier = (*SequenceImageClassifier)(nil)

func (s *SequenceImageClassifier) AnalyzeImage(ctx context.Context, ref string) ([]Score, error) {
	idx := s.Calls
	s.Calls++
	if idx < len(s.Verdicts) {
		return s.Verdicts[idx], nil
	}
	return nil, nil
}

func (s *SequenceImageClassifier) Version() string {
	return s.Tag
}

type StubFrameExtractor struct {
	Frames []Frame
	Err    error
}

var _ FrameExtractor = (*StubFrameExtractor)(nil)

func (s *StubFrameExtractor) ExtractFrames(ctx context.Context, ref string, interval time.Duration) ([]Frame, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Frames, nil
}
