package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPrivacyScore(t *testing.T) {
	w := DefaultScoreWeights()

	tests := []struct {
		name     string
		tracking int
		domains  int
		want     int
	}{
		{name: "clean export", tracking: 0, domains: 0, want: 100},
		{name: "single tracker", tracking: 1, domains: 1, want: 98},
		{name: "free domains exempt", tracking: 3, domains: 3, want: 94},
		{name: "domain penalty beyond free", tracking: 5, domains: 5, want: 84},
		{name: "cookie penalty capped", tracking: 40, domains: 1, want: 50},
		{name: "clamped at zero", tracking: 30, domains: 25, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, privacyScore(tt.tracking, tt.domains, w))
		})
	}
}

func TestPrivacyScore_CustomWeights(t *testing.T) {
	w := ScoreWeights{
		TrackingCookiePenalty: 1,
		TrackingPenaltyCap:    10,
		FreeTrackingDomains:   0,
		TrackingDomainPenalty: 5,
	}

	assert.Equal(t, 80, privacyScore(20, 2, w))
}

func TestAgeBucket(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		days int
		want string
	}{
		{days: 0, want: "Less than 1 day"},
		{days: -3, want: "Less than 1 day"}, // future expiry
		{days: 1, want: "1 day"},
		{days: 15, want: "15 days"},
		{days: 29, want: "29 days"},
		{days: 30, want: "1 month"},
		{days: 59, want: "1 month"},
		{days: 60, want: "2 months"},
		{days: 364, want: "12 months"},
		{days: 365, want: "1 year"},
		{days: 729, want: "1 year"},
		{days: 730, want: "2 years"},
		{days: 1100, want: "3 years"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			oldest := now.Add(-time.Duration(tt.days) * 24 * time.Hour)
			assert.Equal(t, tt.want, ageBucket(oldest, now))
		})
	}
}

func TestOldestExpiry(t *testing.T) {
	records := []CookieRecord{
		{Name: "a", Expires: expiry(3000)},
		{Name: "b"},
		{Name: "c", Expires: expiry(1000)},
		{Name: "d", Expires: expiry(2000)},
	}

	oldest, ok := oldestExpiry(records)
	assert.True(t, ok)
	assert.Equal(t, *expiry(1000), oldest)
}

func TestOldestExpiry_AllSessionCookies(t *testing.T) {
	records := []CookieRecord{{Name: "a"}, {Name: "b"}}

	_, ok := oldestExpiry(records)
	assert.False(t, ok)
}
