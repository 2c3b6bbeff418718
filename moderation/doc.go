/*
Package moderation implements the content moderation orchestration pipeline.

The Engine coordinates one moderation run per content record: it routes text
to a language-appropriate toxicity classifier (with a random canary split
between model versions), dispatches image and video signals, fuses the
per-signal verdicts into a single decision, persists the per-category results,
and emits metrics and a webhook notification. Runs are executed asynchronously
by the tasks package and are safe to retry.

Decision fusion is fail-closed: the worst verdict from any signal wins.
Individual signal failures are fail-open: a classifier that errors or times
out degrades that one signal to a non-blocking default instead of aborting
the run.
*/
package moderation
