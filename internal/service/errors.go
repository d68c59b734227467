// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds the admin and public business logic on top of the
// document store: validation, status lifecycle, media processing and the
// outbound image search client.
package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/brightpixel/agencyweb/internal/store"
)

var (
	// ErrNotFound is returned when the addressed document does not exist.
	ErrNotFound = store.ErrNotFound

	// ErrInvalidTransition is returned for a status change the lifecycle does not allow.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrUpstream wraps failures of external services such as the blob store
	// or image search.
	ErrUpstream = errors.New("upstream service failed")
)

// ValidationError reports invalid input, keyed by field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// validator collects field errors.
type validator map[string]string

func (v validator) add(field, msg string) {
	if _, ok := v[field]; !ok {
		v[field] = msg
	}
}

func (v validator) check(ok bool, field, msg string) {
	if !ok {
		v.add(field, msg)
	}
}

func (v validator) err() error {
	if len(v) == 0 {
		return nil
	}
	return &ValidationError{Fields: v}
}

func invalid(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// duplicateKey converts a unique-key violation into a validation error on field.
func duplicateKey(err error, field string) error {
	if errors.Is(err, store.ErrDuplicateKey) {
		return invalid(field, "already in use")
	}
	return err
}
