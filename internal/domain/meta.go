// Package domain contains entity without logic, just meta-data
package domain

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxDisplayNameLen = 36
	MaxMetaFieldLen   = 64

	DefaultDisplayName = "Stranger"
	DefaultUnknown     = "Unknown"
)

// MatchKey groups waiters that are willing to be paired with each other.
type MatchKey string

// AnyKey is the wildcard key of a connection without a preference.
const AnyKey MatchKey = "ANY"

// Meta is the self-description a connection supplies on join.
type Meta struct {
	DisplayName string `json:"displayName"`
	WantKey     string `json:"wantKey,omitempty"`
	Gender      string `json:"gender"`
	Location    string `json:"location"`
}

// NewMeta trims and truncates every field and fills the defaults in.
// Malformed metadata is never rejected.
func NewMeta(displayName, wantKey, gender, location string) Meta {
	m := Meta{
		DisplayName: clip(displayName, MaxDisplayNameLen),
		WantKey:     clip(wantKey, MaxMetaFieldLen),
		Gender:      clip(gender, MaxMetaFieldLen),
		Location:    clip(location, MaxMetaFieldLen),
	}
	if m.DisplayName == "" {
		m.DisplayName = DefaultDisplayName
	}
	if m.Gender == "" {
		m.Gender = DefaultUnknown
	}
	if m.Location == "" {
		m.Location = DefaultUnknown
	}
	return m
}

// Normalize re-applies NewMeta to an already populated record.
func (m Meta) Normalize() Meta {
	return NewMeta(m.DisplayName, m.WantKey, m.Gender, m.Location)
}

// MatchKey derives the pool key: the case-folded want string or AnyKey.
func (m Meta) MatchKey() MatchKey {
	want := strings.ToLower(strings.TrimSpace(m.WantKey))
	if want == "" || strings.EqualFold(want, string(AnyKey)) {
		return AnyKey
	}
	return MatchKey(want)
}

func clip(s string, max int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:max]))
}
