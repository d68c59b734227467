// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/brightpixel/agencyweb/internal/model"
)

// initialStatus picks the status of a new document. An explicit status wins
// over isPublished; with neither, fallback is used.
func initialStatus(status *string, isPublished *bool, fallback string) (string, error) {
	switch {
	case status != nil:
		s := strings.ToLower(strings.TrimSpace(*status))
		if !model.IsValidStatus(s) {
			return "", invalid("status", "must be one of draft, published, archived")
		}
		return s, nil
	case isPublished != nil && *isPublished:
		return model.StatusPublished, nil
	case isPublished != nil:
		return model.StatusDraft, nil
	default:
		return fallback, nil
	}
}

// transition moves l to status. Writing the current status is a no-op.
// It reports whether anything changed.
func transition(l *model.Lifecycle, status string, now time.Time) (bool, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !model.IsValidStatus(status) {
		return false, invalid("status", "must be one of draft, published, archived")
	}
	current := *l.Status
	if current == status {
		return false, nil
	}
	if !model.CanTransition(current, status) {
		return false, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current, status)
	}
	l.SetStatus(status, now)
	return true, nil
}

// setPublished toggles the published flag: true publishes, false moves a
// published document back to draft. publishedAt is never cleared.
func setPublished(l *model.Lifecycle, published bool, now time.Time) (bool, error) {
	if *l.IsPublished == published {
		return false, nil
	}
	if published {
		return transition(l, model.StatusPublished, now)
	}
	return transition(l, model.StatusDraft, now)
}

// isDue reports whether a draft scheduled for publication has reached its time.
func isDue(l *model.Lifecycle, now time.Time) bool {
	return *l.Status == model.StatusDraft && *l.ScheduledAt != nil && !(*l.ScheduledAt).After(now)
}
