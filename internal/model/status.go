// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Publication statuses shared by pages and posts.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// ValidStatuses lists every accepted status value.
var ValidStatuses = []string{StatusDraft, StatusPublished, StatusArchived}

// IsValidStatus checks if a status value is one of the enumerated statuses.
func IsValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// transitions maps a status to the statuses it may move to.
var transitions = map[string][]string{
	StatusDraft:     {StatusPublished},
	StatusPublished: {StatusArchived, StatusDraft},
	StatusArchived:  nil,
}

// CanTransition reports whether a document may move from one status to another.
// Writing the current status again is always allowed.
func CanTransition(from, to string) bool {
	if from == to {
		return IsValidStatus(to)
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
