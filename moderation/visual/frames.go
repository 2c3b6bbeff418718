package visual

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Omagujr8/ai-moderator/moderation/provider"
	"github.com/Omagujr8/ai-moderator/util"
)

// FrameServiceClient asks the frame-sampling service to decompose a video
// into still frames at a fixed interval. The service returns addressable
// frame references which can be fed to the NSFW detector.
type FrameServiceClient struct {
	Client *http.Client
	Host   string
}

var _ provider.FrameExtractor = (*FrameServiceClient)(nil)

func NewFrameServiceClient(host string) *FrameServiceClient {
	return &FrameServiceClient{
		Client: util.RobustHTTPClient(),
		Host:   host,
	}
}

type frameExtractRequest struct {
	URL             string `json:"url"`
	IntervalSeconds int    `json:"interval_seconds"`
}

type frameExtractResponse struct {
	Frames []frameRef `json:"frames"`
}

type frameRef struct {
	URL           string  `json:"url"`
	OffsetSeconds float64 `json:"offset_seconds"`
}

func (c *FrameServiceClient) ExtractFrames(ctx context.Context, ref string, interval time.Duration) ([]provider.Frame, error) {

	body, err := json.Marshal(frameExtractRequest{
		URL:             ref,
		IntervalSeconds: int(interval.Seconds()),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.Host+"/v1/frames", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	defer func() {
		duration := time.Since(start)
		frameAPIDuration.Observe(duration.Seconds())
	}()

	res, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("frame service request failed: %w", err)
	}
	defer res.Body.Close()

	frameAPICount.WithLabelValues(fmt.Sprint(res.StatusCode)).Inc()
	if res.StatusCode != 200 {
		return nil, fmt.Errorf("frame service request failed  statusCode=%d", res.StatusCode)
	}

	respBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame service resp body: %w", err)
	}

	var respObj frameExtractResponse
	if err := json.Unmarshal(respBytes, &respObj); err != nil {
		return nil, fmt.Errorf("failed to parse frame service resp JSON: %w", err)
	}

	frames := make([]provider.Frame, 0, len(respObj.Frames))
	for _, f := range respObj.Frames {
		frames = append(frames, provider.Frame{
			Ref:    f.URL,
			Offset: time.Duration(f.OffsetSeconds * float64(time.Second)),
		})
	}
	return frames, nil
}
