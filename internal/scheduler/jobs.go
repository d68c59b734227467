// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Publisher publishes the drafts whose scheduled time has passed.
type Publisher interface {
	PublishDue(ctx context.Context) (int, error)
}

// PublishCounter records how many documents a run published.
type PublishCounter interface {
	Published(kind string, n int)
}

// EventPruner deletes old event log entries.
type EventPruner interface {
	DeleteOlderThan(ctx context.Context, age time.Duration) (int, error)
}

// PublishJob returns the every-minute job that publishes scheduled pages and
// posts. sources maps a document kind such as "page" to its publisher.
func PublishJob(sources map[string]Publisher, counter PublishCounter, logger *slog.Logger) Job {
	return Job{
		Name:        "publish-scheduled",
		Description: "Publish drafts whose scheduled time has passed",
		Schedule:    "* * * * *",
		Run: func(ctx context.Context) error {
			var errs []error
			for kind, p := range sources {
				n, err := p.PublishDue(ctx)
				if counter != nil {
					counter.Published(kind, n)
				}
				if n > 0 {
					logger.InfoContext(ctx, "published scheduled content", "category", "page", "kind", kind, "count", n)
				}
				if err != nil {
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		},
	}
}

// EventCleanupJob returns the daily job removing events older than retention.
func EventCleanupJob(events EventPruner, retention time.Duration, logger *slog.Logger) Job {
	return Job{
		Name:        "prune-events",
		Description: "Delete event log entries past the retention period",
		Schedule:    "@daily",
		Timeout:     5 * time.Minute,
		Run: func(ctx context.Context) error {
			n, err := events.DeleteOlderThan(ctx, retention)
			if n > 0 {
				logger.InfoContext(ctx, "pruned event log", "category", "system", "deleted", n)
			}
			return err
		},
	}
}
