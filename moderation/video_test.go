package moderation

import (
	"context"
	"fmt"
	"testing"

	"github.com/Omagujr8/ai-moderator/moderation/provider"

	"github.com/stretchr/testify/assert"
)

func testFrames(n int) []provider.Frame {
	frames := make([]provider.Frame, 0, n)
	for i := 0; i < n; i++ {
		frames = append(frames, provider.Frame{Ref: fmt.Sprintf("http://frames.example.com/%d.jpg", i)})
	}
	return frames
}

func TestVideoZeroFramesIsSafe(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	images := &provider.StubImageClassifier{Tag: "nsfw_v1"}
	vm := &VideoModerator{
		Frames: &provider.StubFrameExtractor{Frames: nil},
		Images: images,
	}

	safe, err := vm.ModerateVideo(ctx, "http://videos.example.com/empty.mp4")
	assert.NoError(err)
	assert.True(safe)
	assert.Equal(0, images.Calls)
}

func TestVideoCleanFrames(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	images := &provider.StubImageClassifier{Tag: "nsfw_v1"}
	vm := &VideoModerator{
		Frames: &provider.StubFrameExtractor{Frames: testFrames(5)},
		Images: images,
	}

	safe, err := vm.ModerateVideo(ctx, "http://videos.example.com/cat.mp4")
	assert.NoError(err)
	assert.True(safe)
	assert.Equal(5, images.Calls)
}

func TestVideoShortCircuitsOnFirstUnsafeFrame(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	// third frame is flagged; frames four and five must never be classified
	images := &provider.SequenceImageClassifier{
		Tag: "nsfw_v1",
		Verdicts: [][]provider.Score{
			nil,
			nil,
			{{Category: "nsfw", Score: 0.97}},
		},
	}
	vm := &VideoModerator{
		Frames: &provider.StubFrameExtractor{Frames: testFrames(5)},
		Images: images,
	}

	safe, err := vm.ModerateVideo(ctx, "http://videos.example.com/bad.mp4")
	assert.NoError(err)
	assert.False(safe)
	assert.Equal(3, images.Calls)
}

func TestVideoExtractionFailurePropagates(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	vm := &VideoModerator{
		Frames: &provider.StubFrameExtractor{Err: fmt.Errorf("codec exploded")},
		Images: &provider.StubImageClassifier{Tag: "nsfw_v1"},
	}

	_, err := vm.ModerateVideo(ctx, "http://videos.example.com/bad.mp4")
	assert.Error(err)
}
