package moderation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Omagujr8/ai-moderator/moderation/countstore"
	"github.com/Omagujr8/ai-moderator/moderation/provider"
	"github.com/Omagujr8/ai-moderator/moderation/redact"
	"github.com/Omagujr8/ai-moderator/moderation/store"
)

type EngineConfig struct {
	// PrimaryLanguage is the ISO 639-3 code the active/canary text models
	// are tuned for; anything else routes to the multilingual model.
	PrimaryLanguage string
	// CanaryPercent of primary-language text traffic goes to the canary
	// model version, in [0,100].
	CanaryPercent int
	// BlockThreshold is the score at or above which a category blocks.
	BlockThreshold float64
	// ProviderTimeout bounds each individual signal provider call, so a
	// stuck classifier can't stall a worker indefinitely. A timeout is
	// treated like any other provider failure.
	ProviderTimeout time.Duration
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		PrimaryLanguage: DefaultPrimaryLanguage,
		CanaryPercent:   10,
		BlockThreshold:  DefaultBlockThreshold,
		ProviderTimeout: 30 * time.Second,
	}
}

// Engine runs the moderation pipeline for one content record at a time. It is
// the unit of retry: any error returned from ProcessContent causes the task
// runner to re-run the whole thing from scratch, which is safe because
// persistence replaces prior results instead of appending to them.
//
// All fields are plain injected dependencies; construct once at process start
// and share across workers.
type Engine struct {
	Logger  *slog.Logger
	Store   store.Store
	Tallies countstore.CountStore
	// Notifier is optional; nil disables decision webhooks.
	Notifier Notifier

	TextActive       provider.TextClassifier
	TextCanary       provider.TextClassifier
	TextMultilingual provider.TextClassifier
	Images           provider.ImageClassifier
	Video            *VideoModerator

	Config EngineConfig
}

// selectTextClassifier picks the text model for this invocation: multilingual
// for non-primary (or undetectable) languages, otherwise a random canary
// split between the active and canary versions.
func (eng *Engine) selectTextClassifier(text string) (provider.TextClassifier, string) {
	lang := DetectLanguage(text)
	if lang != eng.Config.PrimaryLanguage && eng.TextMultilingual != nil {
		return eng.TextMultilingual, lang
	}
	sel := CanarySelector{Percent: eng.Config.CanaryPercent}
	if sel.UseCanary() && eng.TextCanary != nil {
		return eng.TextCanary, lang
	}
	return eng.TextActive, lang
}

// ProcessContent executes one full moderation run for the given content ID.
//
// A missing record is a successful no-op (duplicate or late task delivery).
// Individual signal failures degrade to per-signal defaults and never abort
// the run; only load/persist failures (and panics, converted to errors)
// propagate to the caller for retry.
func (eng *Engine) ProcessContent(ctx context.Context, contentID int64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("moderation run panic: %v", r)
		}
	}()

	start := time.Now()

	content, err := eng.Store.GetContent(ctx, contentID)
	if errors.Is(err, store.ErrNotFound) {
		eng.Logger.Info("content record missing, skipping run", "contentID", contentID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}

	requestsTotal.Inc()
	logger := eng.Logger.With("contentID", content.ID, "sourceApp", content.SourceApp)

	content.Status = store.StatusEvaluating
	if err := eng.Store.SaveContent(ctx, content); err != nil {
		return fmt.Errorf("marking content evaluating: %w", err)
	}

	decision := DecisionApproved
	modelVersion := VersionNone
	var rows []*store.ModerationResult

	if content.Text != "" && eng.TextActive != nil {
		// mask emails before the text reaches logs or an external model
		clean := redact.MaskEmail(content.Text)
		cls, lang := eng.selectTextClassifier(clean)
		canarySelectedCount.WithLabelValues(cls.Version()).Inc()

		tctx, cancel := context.WithTimeout(ctx, eng.Config.ProviderTimeout)
		scores, serr := cls.AnalyzeText(tctx, clean)
		cancel()

		if serr != nil {
			signalErrorCount.WithLabelValues("text").Inc()
			logger.Warn("text classification failed, degrading signal to approved",
				"err", serr, "model", cls.Version(), "lang", lang)
			modelVersion = VersionError
			rows = append(rows, &store.ModerationResult{
				Category:     "toxicity",
				Score:        0,
				ModelVersion: VersionError,
			})
		} else {
			d, v := Decide(scores, cls.Version(), eng.Config.BlockThreshold)
			decision = MostSevere(decision, d)
			modelVersion = v
			for _, s := range scores {
				rows = append(rows, &store.ModerationResult{
					Category:     s.Category,
					Score:        s.Score,
					ModelVersion: cls.Version(),
				})
			}
		}
	}

	if content.ImageURL != "" && eng.Images != nil {
		ictx, cancel := context.WithTimeout(ctx, eng.Config.ProviderTimeout)
		flagged, serr := eng.Images.AnalyzeImage(ictx, content.ImageURL)
		cancel()

		if serr != nil {
			signalErrorCount.WithLabelValues("image").Inc()
			logger.Warn("image classification failed, treating signal as non-blocking", "err", serr)
		} else if len(flagged) > 0 {
			decision = DecisionBlocked
			for _, s := range flagged {
				rows = append(rows, &store.ModerationResult{
					Category:     s.Category,
					Score:        s.Score,
					ModelVersion: eng.Images.Version(),
				})
			}
		}
	}

	if content.VideoURL != "" && eng.Video != nil {
		vctx, cancel := context.WithTimeout(ctx, eng.Config.ProviderTimeout)
		safe, serr := eng.Video.ModerateVideo(vctx, content.VideoURL)
		cancel()
		if serr != nil {
			signalErrorCount.WithLabelValues("video").Inc()
			logger.Warn("video moderation failed, treating signal as non-blocking", "err", serr)
		} else if !safe {
			decision = DecisionBlocked
			rows = append(rows, &store.ModerationResult{
				Category:     "video",
				Score:        1.0,
				ModelVersion: eng.Video.Images.Version(),
			})
		}
	}

	content.Status = string(decision)
	if content.Username != "" {
		content.UserHash = redact.HashUsername(content.Username)
	}
	for _, row := range rows {
		row.ContentID = content.ID
		row.Decision = string(decision)
	}

	if err := eng.Store.FinalizeRun(ctx, content, rows); err != nil {
		return fmt.Errorf("persisting moderation run: %w", err)
	}

	decisionsTotal.WithLabelValues(string(decision)).Inc()
	runDuration.Observe(time.Since(start).Seconds())
	if eng.Tallies != nil {
		if terr := eng.Tallies.Increment(ctx, "decision/"+content.SourceApp, string(decision)); terr != nil {
			logger.Warn("failed to tally decision", "err", terr)
		}
	}

	// canonical log line for this run
	logger.Info("moderation run complete",
		"decision", decision,
		"modelVersion", modelVersion,
		"results", len(rows),
		"duration", time.Since(start),
	)

	if eng.Notifier != nil {
		if nerr := eng.Notifier.NotifyDecision(ctx, content, decision, modelVersion); nerr != nil {
			logger.Warn("webhook notification failed", "err", nerr)
		}
	}

	return nil
}
