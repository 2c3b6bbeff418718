package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Omagujr8/ai-moderator/moderation/cachestore"
	"github.com/Omagujr8/ai-moderator/moderation/store"
)

// Notifier dispatches a best-effort notification after a moderation decision.
type Notifier interface {
	NotifyDecision(ctx context.Context, content *store.Content, decision Decision, modelVersion string) error
}

// WebhookNotifier POSTs a decision payload to the callback URL registered for
// the content's source application, if any. Delivery is fire-and-forget: the
// engine logs and swallows any error returned here, and never retries.
type WebhookNotifier struct {
	Store  store.Store
	Cache  cachestore.CacheStore
	Client *http.Client
}

var _ Notifier = (*WebhookNotifier)(nil)

type WebhookBody struct {
	ContentID    int64  `json:"content_id"`
	Decision     string `json:"decision"`
	Status       string `json:"status"`
	ModelVersion string `json:"model_version"`
}

func (n *WebhookNotifier) callbackURL(ctx context.Context, sourceApp string) (string, error) {
	if n.Cache != nil {
		if url, err := n.Cache.GetURL(ctx, sourceApp); err == nil && url != "" {
			return url, nil
		}
	}

	hook, err := n.Store.GetWebhook(ctx, sourceApp)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	if n.Cache != nil {
		if err := n.Cache.SetURL(ctx, sourceApp, hook.CallbackURL); err != nil {
			return hook.CallbackURL, nil
		}
	}
	return hook.CallbackURL, nil
}

func (n *WebhookNotifier) NotifyDecision(ctx context.Context, content *store.Content, decision Decision, modelVersion string) error {
	url, err := n.callbackURL(ctx, content.SourceApp)
	if err != nil {
		return err
	}
	if url == "" {
		// no callback registered for this source app
		return nil
	}

	body, err := json.Marshal(WebhookBody{
		ContentID:    content.ID,
		Decision:     string(decision),
		Status:       content.Status,
		ModelVersion: modelVersion,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Add("Content-Type", "application/json")

	client := n.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		webhookCount.WithLabelValues("error").Inc()
		return err
	}
	defer resp.Body.Close()

	webhookCount.WithLabelValues(fmt.Sprint(resp.StatusCode)).Inc()
	if resp.StatusCode != 200 {
		if resp.StatusCode == 404 && n.Cache != nil {
			// the cached URL may be stale; the next delivery re-reads
			// the registry
			n.Cache.PurgeURL(ctx, content.SourceApp)
		}
		return fmt.Errorf("failed webhook POST request. status=%d", resp.StatusCode)
	}
	return nil
}
