package moderation

import (
	"context"
	"time"

	"github.com/Omagujr8/ai-moderator/moderation/provider"
)

// DefaultFrameInterval is the default sampling interval between extracted
// video frames.
const DefaultFrameInterval = 2 * time.Second

// VideoModerator reduces a video to a single safety verdict by sampling
// frames and running each through the image classifier.
type VideoModerator struct {
	Frames   provider.FrameExtractor
	Images   provider.ImageClassifier
	Interval time.Duration
}

// ModerateVideo returns true if the video is safe. It stops at the first
// flagged frame; later frames are never classified. A video yielding zero
// frames (corrupt or empty source) is treated as safe: this is a deliberate
// fail-open trade of false negatives for availability, since re-encoding or
// quarantining broken uploads is the ingestion side's problem.
func (v *VideoModerator) ModerateVideo(ctx context.Context, ref string) (bool, error) {
	interval := v.Interval
	if interval <= 0 {
		interval = DefaultFrameInterval
	}

	frames, err := v.Frames.ExtractFrames(ctx, ref, interval)
	if err != nil {
		return false, err
	}

	for _, frame := range frames {
		flagged, err := v.Images.AnalyzeImage(ctx, frame.Ref)
		if err != nil {
			return false, err
		}
		if len(flagged) > 0 {
			return false, nil
		}
	}
	return true, nil
}
