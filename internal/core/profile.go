package core

import (
	"fmt"
	"sort"
	"strings"
)

// SiteProfile describes one recognized site: which domain fragments map
// cookies to it, the services it hosts, the cookie names that indicate a
// logged-in session, and its contribution to the profile score.
type SiteProfile struct {
	Name          string
	Aliases       []string
	Services      []ServiceRule
	Auth          []string
	Category      string
	Points        int
	ServicePoints map[string]int
}

// ServiceRule maps domain fragments to one service of a site. Rules are
// checked in declaration order, so more specific fragments go first.
type ServiceRule struct {
	Name string
	Keys []string
}

// Level maps a minimum profile score to a named tier.
type Level struct {
	Name     string
	MinScore int
}

// categoryBonus awards extra profile points when enough sites of one
// category show up in the same export.
type categoryBonus struct {
	reason   string
	points   int
	category string
	minSites int
}

var categoryBonuses = []categoryBonus{
	{reason: "Social butterfly", points: 2, category: "social", minSites: 3},
	{reason: "Tech professional", points: 3, category: "professional", minSites: 2},
	{reason: "Entertainment addict", points: 1, category: "entertainment", minSites: 2},
	{reason: "Shopaholic", points: 2, category: "shopping", minSites: 2},
}

// serviceMatcher is one service of a profile with its domain fragments,
// kept in evaluation order.
type serviceMatcher struct {
	name string
	keys []string
}

// SiteIndex resolves cookie domains to recognized sites and scores the
// resulting activity profile. It is immutable once built and safe for
// concurrent use.
type SiteIndex struct {
	profiles  []SiteProfile
	byName    map[string]int
	services  map[string][]serviceMatcher
	rank      map[string]int
	authBonus int
	levels    []Level
}

// NewSiteIndex builds the lookup structures from the configured site
// profiles. Aliases are evaluated in profile order, service rules in
// their declaration order, and levels from the highest threshold down.
// serviceOrder only affects how service names sort in reports.
func NewSiteIndex(profiles []SiteProfile, serviceOrder []string, authBonus int, levels []Level) *SiteIndex {
	ix := &SiteIndex{
		profiles:  profiles,
		byName:    make(map[string]int, len(profiles)),
		services:  make(map[string][]serviceMatcher, len(profiles)),
		rank:      make(map[string]int, len(serviceOrder)),
		authBonus: authBonus,
		levels:    append([]Level(nil), levels...),
	}
	for i, name := range serviceOrder {
		ix.rank[strings.ToLower(name)] = i
	}
	for i, p := range profiles {
		ix.byName[p.Name] = i
		matchers := make([]serviceMatcher, 0, len(p.Services))
		for _, svc := range p.Services {
			lowered := make([]string, len(svc.Keys))
			for j, k := range svc.Keys {
				lowered[j] = strings.ToLower(k)
			}
			matchers = append(matchers, serviceMatcher{name: svc.Name, keys: lowered})
		}
		ix.services[p.Name] = matchers
	}
	sort.SliceStable(ix.levels, func(a, b int) bool {
		return ix.levels[a].MinScore > ix.levels[b].MinScore
	})
	return ix
}

func (ix *SiteIndex) serviceRank(service string) int {
	if r, ok := ix.rank[strings.ToLower(service)]; ok {
		return r
	}
	return len(ix.rank)
}

// MainDomain maps a cookie domain to its owning site. Profile aliases
// are substring rules checked in order; unrecognized domains fall back
// to their last two labels.
func (ix *SiteIndex) MainDomain(domain string) string {
	domain = strings.TrimPrefix(strings.ToLower(domain), ".")
	for _, p := range ix.profiles {
		for _, alias := range p.Aliases {
			if strings.Contains(domain, alias) {
				return p.Name
			}
		}
	}
	parts := strings.Split(domain, ".")
	if len(parts) >= 2 {
		return strings.Join(parts[len(parts)-2:], ".")
	}
	return domain
}

// Known reports whether site has a configured profile.
func (ix *SiteIndex) Known(site string) bool {
	_, ok := ix.byName[site]
	return ok
}

// DetectService names the service a cookie domain belongs to within a
// recognized site, "other" when the site is known but the domain matches
// no service, and "" for unrecognized sites.
func (ix *SiteIndex) DetectService(site, domain string) string {
	if !ix.Known(site) {
		return ""
	}
	domain = strings.ToLower(domain)
	for _, m := range ix.services[site] {
		for _, key := range m.keys {
			if strings.Contains(domain, key) {
				return m.name
			}
		}
	}
	return "other"
}

// DetectAuth returns the configured auth cookie name contained in the
// cookie's name, or "" when none matches.
func (ix *SiteIndex) DetectAuth(site, cookieName string) string {
	i, ok := ix.byName[site]
	if !ok {
		return ""
	}
	lowered := strings.ToLower(cookieName)
	for _, auth := range ix.profiles[i].Auth {
		if strings.Contains(lowered, strings.ToLower(auth)) {
			return auth
		}
	}
	return ""
}

// ConfiguredServices lists the services declared for a site, ordered for
// reporting.
func (ix *SiteIndex) ConfiguredServices(site string) []string {
	matchers, ok := ix.services[site]
	if !ok {
		return nil
	}
	names := make([]string, len(matchers))
	for i, m := range matchers {
		names[i] = m.name
	}
	return names
}

// SortServices orders service names by the configured service order,
// then alphabetically.
func (ix *SiteIndex) SortServices(names []string) {
	sort.Slice(names, func(a, b int) bool {
		ra, rb := ix.serviceRank(names[a]), ix.serviceRank(names[b])
		if ra != rb {
			return ra < rb
		}
		return names[a] < names[b]
	})
}

// Category returns the site's category, defaulting to "other".
func (ix *SiteIndex) Category(site string) string {
	if i, ok := ix.byName[site]; ok && ix.profiles[i].Category != "" {
		return ix.profiles[i].Category
	}
	return "other"
}

// ScoreProfile computes the activity score for one export from the
// per-site cookie counts, the services seen per site, and the sites with
// detected auth cookies.
func (ix *SiteIndex) ScoreProfile(siteCounts map[string]int, serviceCounts map[string]map[string]int, authSites int) ProfileScore {
	points := 0
	var reasons []string
	add := func(p int, reason string) {
		points += p
		reasons = append(reasons, fmt.Sprintf("+%d %s", p, reason))
	}

	for _, p := range ix.profiles {
		if p.Points > 0 && siteCounts[p.Name] > 0 {
			add(p.Points, fmt.Sprintf("%s cookies", displayName(p.Name)))
		}
	}

	for _, bonus := range categoryBonuses {
		n := 0
		for site, count := range siteCounts {
			if count > 0 && ix.Category(site) == bonus.category {
				n++
			}
		}
		if n >= bonus.minSites {
			add(bonus.points, bonus.reason)
		}
	}

	for _, p := range ix.profiles {
		if len(p.ServicePoints) == 0 || siteCounts[p.Name] == 0 {
			continue
		}
		services := make([]string, 0, len(p.ServicePoints))
		for svc := range p.ServicePoints {
			services = append(services, svc)
		}
		ix.SortServices(services)
		for _, svc := range services {
			if serviceCounts[p.Name][svc] > 0 {
				add(p.ServicePoints[svc], fmt.Sprintf("%s detected", displayName(svc)))
			}
		}
	}

	if authSites > 0 {
		add(ix.authBonus, "AUTH cookies detected")
	}

	return ProfileScore{
		Points:  points,
		Level:   ix.levelFor(points),
		Reasons: reasons,
	}
}

func (ix *SiteIndex) levelFor(points int) string {
	for _, lvl := range ix.levels {
		if points >= lvl.MinScore {
			return lvl.Name
		}
	}
	return "LOW"
}

// displayName renders a site or service name for score reasons.
func displayName(name string) string {
	name = strings.TrimSuffix(name, ".com")
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
