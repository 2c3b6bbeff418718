// Package toxicity is an HTTP client for the text-toxicity model server. The
// same server hosts multiple model versions; a Client is pinned to one model
// and reports that model's version tag on every score it produces.
package toxicity

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

	"github.com/carlmjohnson/versioninfo"
	"golang.org/x/time/rate"
)

// Model version tags. The active and canary tags identify two revisions of
// the primary-language model; the multilingual model is versioned separately.
const (
	ModelActive       = "toxicity_v1.1"
	ModelCanary       = "toxicity_v1.2"
	ModelMultilingual = "toxicity_multi_v1"
)

type Client struct {
	Client *http.Client
	Host   string
	Model  string

	limiter *rate.Limiter
}

var _ provider.TextClassifier = (*Client)(nil)

// NewClient returns a classifier client for one model version hosted at host.
// Requests are rate-limited client-side to ratePerSecond, so a burst of
// moderation tasks can't flood the model server.
func NewClient(host, model string, ratePerSecond int) *Client {
	return &Client{
		Client:  util.RobustHTTPClient(),
		Host:    host,
		Model:   model,
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), 1),
	}
}

func (c *Client) Version() string {
	return c.Model
}

type classifyRequest struct {
	Model string `json:"model"`
	Text  string `json:"text"`
}

type classifyResponse struct {
	Results []classifyResult `json:"results"`
}

type classifyResult struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (c *Client) AnalyzeText(ctx context.Context, text string) ([]provider.Score, error) {

	body, err := json.Marshal(classifyRequest{Model: c.Model, Text: text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.Host+"/v1/classify", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "ai-moderator/"+versioninfo.Short())

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		duration := time.Since(start)
		classifyAPIDuration.Observe(duration.Seconds())
	}()

	res, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("toxicity request failed: %w", err)
	}
	defer res.Body.Close()

	classifyAPICount.WithLabelValues(fmt.Sprint(res.StatusCode), c.Model).Inc()
	if res.StatusCode != 200 {
		return nil, fmt.Errorf("toxicity request failed  statusCode=%d", res.StatusCode)
	}

	respBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read toxicity resp body: %w", err)
	}

	var respObj classifyResponse
	if err := json.Unmarshal(respBytes, &respObj); err != nil {
		return nil, fmt.Errorf("failed to parse toxicity resp JSON: %w", err)
	}

	scores := make([]provider.Score, 0, len(respObj.Results))
	for _, r := range respObj.Results {
		scores = append(scores, provider.Score{Category: r.Label, Score: r.Score})
	}
	return scores, nil
}
