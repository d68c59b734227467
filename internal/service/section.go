// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"github.com/brightpixel/agencyweb/internal/model"
	"github.com/brightpixel/agencyweb/internal/section"
	"github.com/brightpixel/agencyweb/internal/store"
)

// SectionInput carries section instance fields. SectionKey is accepted as an
// alias of ComponentName.
type SectionInput struct {
	PageID        *string         `json:"pageId"`
	ComponentName *string         `json:"componentName"`
	SectionKey    *string         `json:"sectionKey"`
	Order         *int            `json:"order"`
	Content       json.RawMessage `json:"content"`
	Variant       *string         `json:"variant"`
	IsVisible     *bool           `json:"isVisible"`
}

func (in SectionInput) component() *string {
	if in.ComponentName != nil {
		return in.ComponentName
	}
	return in.SectionKey
}

// SectionService manages section instances placed on pages.
type SectionService struct {
	st       *store.Store
	registry *section.Registry
}

// NewSectionService creates a SectionService.
func NewSectionService(st *store.Store, registry *section.Registry) *SectionService {
	return &SectionService{st: st, registry: registry}
}

// List returns every section instance.
func (s *SectionService) List(ctx context.Context) ([]model.PageSection, error) {
	return s.st.Sections.List(ctx)
}

// ListForPage returns all instances of a page, hidden ones included, in
// render order.
func (s *SectionService) ListForPage(ctx context.Context, pageID string) ([]model.PageSection, error) {
	if _, err := s.st.Pages.Get(ctx, pageID); err != nil {
		return nil, err
	}
	sections, err := s.st.SectionsForPage(ctx, pageID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(sections, func(i, j int) bool { return sections[i].Order < sections[j].Order })
	return sections, nil
}

// Get returns one instance.
func (s *SectionService) Get(ctx context.Context, id string) (*model.PageSection, error) {
	return s.st.Sections.Get(ctx, id)
}

// Create places a section on a page. Without an order it goes last.
func (s *SectionService) Create(ctx context.Context, in SectionInput) (*model.PageSection, error) {
	sec := &model.PageSection{IsVisible: true, Variant: section.DefaultVariant}
	if in.PageID == nil || strings.TrimSpace(*in.PageID) == "" {
		return nil, invalid("pageId", "is required")
	}
	if in.component() == nil {
		return nil, invalid("componentName", "is required")
	}
	if err := s.apply(sec, in); err != nil {
		return nil, err
	}
	if err := s.checkPage(ctx, sec.PageID); err != nil {
		return nil, err
	}

	if in.Order == nil {
		existing, err := s.st.SectionsForPage(ctx, sec.PageID)
		if err != nil {
			return nil, err
		}
		for _, e := range existing {
			if e.Order >= sec.Order {
				sec.Order = e.Order + 1
			}
		}
	}

	if err := s.st.Sections.Create(ctx, sec); err != nil {
		return nil, err
	}
	return sec, nil
}

// Update applies the non-nil fields of in.
func (s *SectionService) Update(ctx context.Context, id string, in SectionInput) (*model.PageSection, error) {
	sec, err := s.st.Sections.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(sec, in); err != nil {
		return nil, err
	}
	if in.PageID != nil {
		if err := s.checkPage(ctx, sec.PageID); err != nil {
			return nil, err
		}
	}
	if err := s.st.Sections.Update(ctx, sec); err != nil {
		return nil, err
	}
	return sec, nil
}

// Delete removes an instance.
func (s *SectionService) Delete(ctx context.Context, id string) error {
	return s.st.Sections.Delete(ctx, id)
}

// Reorder assigns orders 1..n to the listed instances of a page. Every id
// must belong to the page; instances not listed keep their order.
func (s *SectionService) Reorder(ctx context.Context, pageID string, ids []string) ([]model.PageSection, error) {
	sections, err := s.ListForPage(ctx, pageID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*model.PageSection, len(sections))
	for i := range sections {
		byID[sections[i].ID] = &sections[i]
	}

	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if byID[id] == nil {
			return nil, invalid("ids", "contains a section that is not on this page: "+id)
		}
		if seen[id] {
			return nil, invalid("ids", "lists a section twice: "+id)
		}
		seen[id] = true
	}

	for i, id := range ids {
		sec := byID[id]
		if sec.Order == i+1 {
			continue
		}
		sec.Order = i + 1
		if err := s.st.Sections.Update(ctx, sec); err != nil {
			return nil, err
		}
	}
	return s.ListForPage(ctx, pageID)
}

func (s *SectionService) apply(sec *model.PageSection, in SectionInput) error {
	v := validator{}
	if in.PageID != nil {
		sec.PageID = strings.TrimSpace(*in.PageID)
	}

	def, known := s.registry.Lookup(sec.ComponentName)
	if name := in.component(); name != nil {
		def, known = s.registry.Lookup(*name)
		if known {
			sec.ComponentName = def.Key
		} else {
			v.add("componentName", "is not a registered section")
		}
	}

	if in.Order != nil {
		sec.Order = *in.Order
	}
	if in.IsVisible != nil {
		sec.IsVisible = *in.IsVisible
	}
	if in.Content != nil {
		if err := section.ValidateContent(in.Content); err != nil {
			v.add("content", "must be a JSON object")
		} else if known {
			if _, err := section.Decode(def.Key, in.Content); err != nil {
				v.add("content", "does not match the "+def.Key+" section fields")
			}
		}
		sec.Content = in.Content
	}
	if in.Variant != nil && known {
		sec.Variant = def.ResolveVariant(strings.TrimSpace(*in.Variant))
	}
	return v.err()
}

func (s *SectionService) checkPage(ctx context.Context, pageID string) error {
	_, err := s.st.Pages.Get(ctx, pageID)
	if errors.Is(err, store.ErrNotFound) {
		return invalid("pageId", "does not reference an existing page")
	}
	return err
}
