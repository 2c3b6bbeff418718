// Package visual holds the HTTP clients for the image-safety collaborators:
// the NSFW detection service, and the video frame-sampling service.
package visual

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Omagujr8/ai-moderator/moderation/provider"
	"github.com/Omagujr8/ai-moderator/util"

	"github.com/carlmjohnson/versioninfo"
)

const nsfwModelVersion = "nsfw_v1"

type NSFWClient struct {
	Client *http.Client
	Host   string
	Token  string
}

var _ provider.ImageClassifier = (*NSFWClient)(nil)

func NewNSFWClient(host, token string) *NSFWClient {
	return &NSFWClient{
		Client: util.RobustHTTPClient(),
		Host:   host,
		Token:  token,
	}
}

func (c *NSFWClient) Version() string {
	return nsfwModelVersion
}

// schema of the detection service response: one entry per detected class
type NSFWResp struct {
	Detections []NSFWResp_Detection `json:"detections"`
}

type NSFWResp_Detection struct {
	Class string  `json:"class"`
	Score float64 `json:"score"`
}

// Direct mappings from individual detector classes to a flagged category.
// Classes not listed here never flag an image on their own.
var unsafeClassThresholds = map[string]float64{
	"exposed_genitalia": 0.7,
	"exposed_breast_f":  0.7,
	"explicit_activity": 0.7,
	"graphic_violence":  0.9,
}

// SummarizeUnsafe reduces raw detections to the flagged categories. An empty
// result means the image is clean.
func (resp *NSFWResp) SummarizeUnsafe() []provider.Score {
	var flagged []provider.Score
	for _, det := range resp.Detections {
		threshold, ok := unsafeClassThresholds[det.Class]
		if !ok || det.Score < threshold {
			continue
		}
		category := "nsfw"
		if det.Class == "graphic_violence" {
			category = "violence"
		}
		flagged = append(flagged, provider.Score{Category: category, Score: det.Score})
	}
	return flagged
}

func (c *NSFWClient) AnalyzeImage(ctx context.Context, ref string) ([]provider.Score, error) {

	slog.Debug("sending image to NSFW detector", "ref", ref)

	body, err := json.Marshal(map[string]string{"url": ref})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.Host+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "ai-moderator/"+versioninfo.Short())
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	start := time.Now()
	defer func() {
		duration := time.Since(start)
		nsfwAPIDuration.Observe(duration.Seconds())
	}()

	res, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("NSFW detector request failed: %w", err)
	}
	defer res.Body.Close()

	nsfwAPICount.WithLabelValues(fmt.Sprint(res.StatusCode)).Inc()
	if res.StatusCode != 200 {
		return nil, fmt.Errorf("NSFW detector request failed  statusCode=%d", res.StatusCode)
	}

	respBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read NSFW detector resp body: %w", err)
	}

	var respObj NSFWResp
	if err := json.Unmarshal(respBytes, &respObj); err != nil {
		return nil, fmt.Errorf("failed to parse NSFW detector resp JSON: %w", err)
	}
	return respObj.SummarizeUnsafe(), nil
}
