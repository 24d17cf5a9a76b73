package core

import (
	"time"
)

// SameSite is a cookie's SameSite attribute.
type SameSite string

const (
	SameSiteUnspecified SameSite = ""
	SameSiteNone        SameSite = "None"
	SameSiteLax         SameSite = "Lax"
	SameSiteStrict      SameSite = "Strict"
)

// CookieRecord represents one entry from a cookie export.
// Domain keeps its leading dot when present; `example.com` and
// `.example.com` are distinct keys.
type CookieRecord struct {
	Domain            string
	IncludeSubdomains bool
	Path              string
	Name              string
	Value             string
	Expires           *time.Time // nil for session cookies
	Secure            bool
	HTTPOnly          bool
	SameSite          SameSite
}

// Key identifies a logically distinct cookie within one export.
type Key struct {
	Domain string
	Name   string
	Path   string
}

// Key returns the record's natural key.
func (c *CookieRecord) Key() Key {
	return Key{Domain: c.Domain, Name: c.Name, Path: c.Path}
}

// IsSession reports whether the cookie has no concrete expiry.
func (c *CookieRecord) IsSession() bool {
	return c.Expires == nil
}

// Class is the verdict assigned to a cookie during one analysis pass.
type Class int

const (
	ClassOther Class = iota
	ClassEssential
	ClassTracking
)

func (c Class) String() string {
	switch c {
	case ClassEssential:
		return "essential"
	case ClassTracking:
		return "tracking"
	default:
		return "other"
	}
}

// Verdict records the classification of one cookie and the rule that
// produced it. Rule is empty when no rule matched.
type Verdict struct {
	Class Class
	Rule  string
}

// ClassifiedCookie pairs a record with its verdict.
type ClassifiedCookie struct {
	Record  CookieRecord
	Verdict Verdict
}

// DomainCount is one entry in a domain ranking.
type DomainCount struct {
	Domain string
	Count  int
}

// SiteStat summarizes one recognized site in the report.
type SiteStat struct {
	Site     string
	Count    int
	Services []string
}

// SiteAuth lists the auth cookie names detected for one site.
type SiteAuth struct {
	Site    string
	Cookies []string
}

// CategorySites groups recognized sites under one category.
type CategorySites struct {
	Category string
	Sites    []string
}

// ProfileScore is the activity score derived from which sites the
// export touches, with the reasons that contributed to it.
type ProfileScore struct {
	Points  int
	Level   string
	Reasons []string
}

// PrivacyReport is the aggregate result of one analysis. It is built
// fresh per request and never mutated after construction.
type PrivacyReport struct {
	TotalCookies          int
	CountsByClass         map[Class]int
	UniqueTrackingDomains []string
	PrivacyScore          int
	TopOffenders          []DomainCount

	KeptCookies     int
	UniqueSites     int
	MostCommonSite  *DomainCount
	OldestCookieAge string
	Sites           []SiteStat
	AuthDetected    []SiteAuth
	Categories      []CategorySites
	Profile         ProfileScore
}

// AnalysisResult bundles the cleaned export with the report for one
// analysis pass.
type AnalysisResult struct {
	Cleaned  []byte
	Kept     []CookieRecord
	Verdicts []ClassifiedCookie
	Report   *PrivacyReport
}
