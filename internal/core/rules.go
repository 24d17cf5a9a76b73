package core

import (
	"strings"
)

// Rule names surfaced in verdicts and reports.
const (
	RuleTrackingDomain = "tracking-domain"
	RuleTrackingName   = "tracking-name"
	RuleEssentialName  = "essential-name"
	RuleSiteAuth       = "site-auth"
)

// rule is one named classification check. Rules are evaluated in order
// and the first match wins, which is what makes the tracking-domain rule
// override every name-based heuristic.
type rule struct {
	name    string
	class   Class
	matches func(rec *CookieRecord) bool
}

// RuleSet classifies cookie records. It is immutable once built and safe
// for concurrent use.
type RuleSet struct {
	rules []rule
}

// NewRuleSet builds the fixed-priority rule chain from the configured
// lists: tracking domains, then tracking name patterns, then essential
// name patterns, then per-site auth cookie names.
func NewRuleSet(trackingDomains, trackingNames, essentialNames []string, sites *SiteIndex) *RuleSet {
	domains := newDomainSet(trackingDomains)
	trackingPats := compilePatterns(trackingNames)
	essentialPats := compilePatterns(essentialNames)

	rules := []rule{
		{
			name:  RuleTrackingDomain,
			class: ClassTracking,
			matches: func(rec *CookieRecord) bool {
				return domains.Matches(rec.Domain)
			},
		},
		{
			name:  RuleTrackingName,
			class: ClassTracking,
			matches: func(rec *CookieRecord) bool {
				return trackingPats.Match(rec.Name)
			},
		},
		{
			name:  RuleEssentialName,
			class: ClassEssential,
			matches: func(rec *CookieRecord) bool {
				return essentialGate(rec) && essentialPats.Match(rec.Name)
			},
		},
		{
			name:  RuleSiteAuth,
			class: ClassEssential,
			matches: func(rec *CookieRecord) bool {
				return essentialGate(rec) && sites.DetectAuth(sites.MainDomain(rec.Domain), rec.Name) != ""
			},
		},
	}

	return &RuleSet{rules: rules}
}

// Classify returns the first matching rule's verdict, or Other when no
// rule matches.
func (rs *RuleSet) Classify(rec *CookieRecord) Verdict {
	for _, r := range rs.rules {
		if r.matches(rec) {
			return Verdict{Class: r.class, Rule: r.name}
		}
	}
	return Verdict{Class: ClassOther}
}

// essentialGate requires transport and script protection before a name
// match may mark a cookie essential. Tracking rules are not gated.
func essentialGate(rec *CookieRecord) bool {
	return rec.Secure && (rec.HTTPOnly || rec.SameSite != SameSiteNone)
}

// domainSet suffix-matches cookie domains against a normalized list.
type domainSet struct {
	exact map[string]struct{}
}

func newDomainSet(domains []string) *domainSet {
	exact := make(map[string]struct{}, len(domains))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(d), "."))
		if d != "" {
			exact[d] = struct{}{}
		}
	}
	return &domainSet{exact: exact}
}

// Matches reports whether the cookie domain equals a listed domain or is
// a subdomain of one. A leading dot on the cookie domain is ignored for
// matching.
func (s *domainSet) Matches(domain string) bool {
	d := strings.TrimPrefix(domain, ".")
	for {
		if _, ok := s.exact[d]; ok {
			return true
		}
		i := strings.IndexByte(d, '.')
		if i < 0 {
			return false
		}
		d = d[i+1:]
	}
}

// patternList matches cookie names case-insensitively. A leading or
// trailing `*` in a pattern marks a suffix or prefix match, `*` on both
// ends a substring match, and no `*` an exact match.
type patternList struct {
	patterns []namePattern
}

type patternKind int

const (
	matchExact patternKind = iota
	matchPrefix
	matchSuffix
	matchContains
)

type namePattern struct {
	kind patternKind
	text string
}

func compilePatterns(raw []string) *patternList {
	patterns := make([]namePattern, 0, len(raw))
	for _, p := range raw {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" || p == "*" || p == "**" {
			continue
		}
		pat := namePattern{kind: matchExact, text: p}
		leading := strings.HasPrefix(p, "*")
		trailing := strings.HasSuffix(p, "*")
		switch {
		case leading && trailing:
			pat.kind = matchContains
			pat.text = p[1 : len(p)-1]
		case leading:
			pat.kind = matchSuffix
			pat.text = p[1:]
		case trailing:
			pat.kind = matchPrefix
			pat.text = p[:len(p)-1]
		}
		patterns = append(patterns, pat)
	}
	return &patternList{patterns: patterns}
}

func (l *patternList) Match(name string) bool {
	name = strings.ToLower(name)
	for _, p := range l.patterns {
		switch p.kind {
		case matchExact:
			if name == p.text {
				return true
			}
		case matchPrefix:
			if strings.HasPrefix(name, p.text) {
				return true
			}
		case matchSuffix:
			if strings.HasSuffix(name, p.text) {
				return true
			}
		case matchContains:
			if strings.Contains(name, p.text) {
				return true
			}
		}
	}
	return false
}
