// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/brightpixel/agencyweb/internal/model"
	"github.com/brightpixel/agencyweb/internal/store"
)

// EventFilter narrows an event listing.
type EventFilter struct {
	Level    string
	Category string
	Limit    int
}

// EventService reads and prunes the persisted event log.
type EventService struct {
	st *store.Store
}

// NewEventService creates a new EventService.
func NewEventService(st *store.Store) *EventService {
	return &EventService{st: st}
}

// List returns matching events, newest first.
func (s *EventService) List(ctx context.Context, f EventFilter) ([]model.Event, error) {
	all, err := s.st.Events.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Event, 0, len(all))
	for _, e := range all {
		if f.Level != "" && e.Level != f.Level {
			continue
		}
		if f.Category != "" && e.Category != f.Category {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// DeleteOlderThan removes events created before now minus age and returns
// how many were removed.
func (s *EventService) DeleteOlderThan(ctx context.Context, age time.Duration) (int, error) {
	all, err := s.st.Events.List(ctx)
	if err != nil {
		return 0, err
	}
	cutoff := time.Now().Add(-age)
	n := 0
	for _, e := range all {
		if !e.CreatedAt.Before(cutoff) {
			continue
		}
		if err := s.st.Events.Delete(ctx, e.ID); err != nil {
			return n, fmt.Errorf("deleting event %s: %w", e.ID, err)
		}
		n++
	}
	return n, nil
}
