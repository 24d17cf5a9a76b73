package core

import (
	"fmt"
	"time"
)

// ScoreWeights are the privacy score penalties. The score starts at 100,
// loses TrackingCookiePenalty per tracking cookie up to TrackingPenaltyCap,
// and loses TrackingDomainPenalty for every unique tracking domain beyond
// FreeTrackingDomains.
type ScoreWeights struct {
	TrackingCookiePenalty int
	TrackingPenaltyCap    int
	FreeTrackingDomains   int
	TrackingDomainPenalty int
}

// DefaultScoreWeights returns the stock penalty weights.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		TrackingCookiePenalty: 2,
		TrackingPenaltyCap:    50,
		FreeTrackingDomains:   3,
		TrackingDomainPenalty: 3,
	}
}

// privacyScore computes the 0-100 score, higher meaning more private.
func privacyScore(trackingCookies, uniqueTrackingDomains int, w ScoreWeights) int {
	score := 100

	penalty := w.TrackingCookiePenalty * trackingCookies
	if penalty > w.TrackingPenaltyCap {
		penalty = w.TrackingPenaltyCap
	}
	score -= penalty

	if extra := uniqueTrackingDomains - w.FreeTrackingDomains; extra > 0 {
		score -= extra * w.TrackingDomainPenalty
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// ageBucket renders how long ago the oldest concrete expiry was set,
// bucketed for the report. Future expiries count as less than a day.
func ageBucket(oldest, now time.Time) string {
	days := int(now.Sub(oldest).Hours() / 24)
	switch {
	case days < 1:
		return "Less than 1 day"
	case days == 1:
		return "1 day"
	case days < 30:
		return fmt.Sprintf("%d days", days)
	case days < 60:
		return "1 month"
	case days < 365:
		return fmt.Sprintf("%d months", days/30)
	case days < 730:
		return "1 year"
	default:
		return fmt.Sprintf("%d years", days/365)
	}
}

// oldestExpiry finds the earliest concrete expiry across records. The
// second result is false when every cookie is a session cookie.
func oldestExpiry(records []CookieRecord) (time.Time, bool) {
	var oldest time.Time
	found := false
	for i := range records {
		exp := records[i].Expires
		if exp == nil {
			continue
		}
		if !found || exp.Before(oldest) {
			oldest = *exp
			found = true
		}
	}
	return oldest, found
}
