// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"strings"

	"github.com/brightpixel/agencyweb/internal/model"
	"github.com/brightpixel/agencyweb/internal/store"
	"github.com/brightpixel/agencyweb/internal/util"
)

// SubscribeInput is the public newsletter sign-up form.
type SubscribeInput struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Source string `json:"source"`
}

// NewsletterService handles public newsletter sign-ups.
type NewsletterService struct {
	st *store.Store
}

// NewNewsletterService creates a NewsletterService.
func NewNewsletterService(st *store.Store) *NewsletterService {
	return &NewsletterService{st: st}
}

// Subscribe records a sign-up. Subscribing an address that is already on the
// list succeeds without creating a duplicate; an unsubscribed address is
// subscribed again. created reports whether a new subscriber was stored.
func (s *NewsletterService) Subscribe(ctx context.Context, in SubscribeInput) (sub *model.Subscriber, created bool, err error) {
	email, ok := util.NormalizeEmail(in.Email)
	if !ok {
		return nil, false, invalid("email", "is not a valid address")
	}

	existing, err := s.st.Subscribers.GetByKey(ctx, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return nil, false, err
	default:
		if existing.Status == model.SubscriberSubscribed {
			return existing, false, nil
		}
		existing.Status = model.SubscriberSubscribed
		if err := s.st.Subscribers.Update(ctx, existing); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	sub = &model.Subscriber{
		Email:  email,
		Name:   strings.TrimSpace(in.Name),
		Status: model.SubscriberSubscribed,
		Source: strings.TrimSpace(in.Source),
	}
	if sub.Source == "" {
		sub.Source = "website"
	}
	if err := s.st.Subscribers.Create(ctx, sub); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			// Concurrent sign-up of the same address.
			existing, getErr := s.st.Subscribers.GetByKey(ctx, email)
			if getErr != nil {
				return nil, false, getErr
			}
			return existing, false, nil
		}
		return nil, false, err
	}
	return sub, true, nil
}
