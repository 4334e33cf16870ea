// Package timeline reads a lead's contact event log. The log is append-only:
// this package only orders and aggregates it.
package timeline

import (
	"sort"
	"time"

	"leadflow_backend/internal/leads/domain"
)

// Ascending returns a copy of events ordered oldest first.
// Events sharing a timestamp keep their append order.
func Ascending(events []domain.ContactEvent) []domain.ContactEvent {
	out := make([]domain.ContactEvent, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// NewestFirst returns a copy of events in the canonical history order.
func NewestFirst(events []domain.ContactEvent) []domain.ContactEvent {
	out := Ascending(events)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// UnreachableStreak counts the trailing run of unreachable calls.
// Non-call events are skipped; a call with any other disposition ends the run.
func UnreachableStreak(events []domain.ContactEvent) int {
	asc := Ascending(events)
	streak := 0
	for i := len(asc) - 1; i >= 0; i-- {
		e := asc[i]
		if e.Type != domain.EventCall {
			continue
		}
		if e.Disposition != domain.DispositionUnreachable {
			break
		}
		streak++
	}
	return streak
}

// Summary aggregates a lead's activity.
type Summary struct {
	Total            int            `json:"total"`
	ByType           map[string]int `json:"byType"`
	Dispositions     map[string]int `json:"dispositions"`
	Today            int            `json:"today"`
	Last7Days        int            `json:"last7Days"`
	ThisMonth        int            `json:"thisMonth"`
	FailedCallStreak int            `json:"failedCallStreak"`
	LastEventAt      *time.Time     `json:"lastEventAt,omitempty"`
}

// Summarize derives activity counts from events relative to now.
// Day and month boundaries use now's location.
func Summarize(events []domain.ContactEvent, now time.Time) Summary {
	s := Summary{
		Total:        len(events),
		ByType:       make(map[string]int),
		Dispositions: make(map[string]int),
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := now.Add(-7 * 24 * time.Hour)
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	for _, e := range events {
		s.ByType[e.Type]++
		if e.Type == domain.EventCall && e.Disposition != "" {
			s.Dispositions[e.Disposition]++
		}

		if e.CreatedAt.After(now) {
			continue
		}
		if !e.CreatedAt.Before(startOfDay) {
			s.Today++
		}
		if !e.CreatedAt.Before(weekAgo) {
			s.Last7Days++
		}
		if !e.CreatedAt.Before(startOfMonth) {
			s.ThisMonth++
		}
		if s.LastEventAt == nil || e.CreatedAt.After(*s.LastEventAt) {
			at := e.CreatedAt
			s.LastEventAt = &at
		}
	}

	s.FailedCallStreak = UnreachableStreak(events)
	return s
}
