package core

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultTopOffendersLimit bounds the top-offenders ranking when no
// limit is configured.
const DefaultTopOffendersLimit = 10

// Analyzer is the core cookie analysis service. It parses exports,
// classifies each record through the rule set, scores the profile, and
// emits a cleaned export plus a privacy report. It holds no per-request
// state and is safe for concurrent use.
type Analyzer struct {
	rules        *RuleSet
	sites        *SiteIndex
	weights      ScoreWeights
	retainOther  bool
	topOffenders int
	logger       *zap.Logger
	now          func() time.Time
}

// NewAnalyzer creates a new analyzer over frozen rule and site
// configuration.
func NewAnalyzer(
	rules *RuleSet,
	sites *SiteIndex,
	weights ScoreWeights,
	retainOther bool,
	topOffenders int,
	logger *zap.Logger,
) *Analyzer {
	if topOffenders <= 0 {
		topOffenders = DefaultTopOffendersLimit
	}
	return &Analyzer{
		rules:        rules,
		sites:        sites,
		weights:      weights,
		retainOther:  retainOther,
		topOffenders: topOffenders,
		logger:       logger,
		now:          time.Now,
	}
}

// AnalyzeExport parses raw export bytes and analyzes the records. A
// malformed export rejects the whole request; no partial result is
// returned.
func (a *Analyzer) AnalyzeExport(ctx context.Context, raw []byte) (*AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, err := ParseExport(raw)
	if err != nil {
		a.logger.Warn("Rejected malformed cookie export", zap.Error(err))
		return nil, err
	}

	result := a.AnalyzeRecords(records)
	a.logger.Info("Analyzed cookie export",
		zap.Int("total", result.Report.TotalCookies),
		zap.Int("tracking", result.Report.CountsByClass[ClassTracking]),
		zap.Int("kept", result.Report.KeptCookies),
		zap.Int("privacy_score", result.Report.PrivacyScore))
	return result, nil
}

// AnalyzeRecords classifies the records and builds the cleaned output
// and report. Tracking records are never retained; Other records are
// retained only when configured.
func (a *Analyzer) AnalyzeRecords(records []CookieRecord) *AnalysisResult {
	counts := map[Class]int{
		ClassEssential: 0,
		ClassTracking:  0,
		ClassOther:     0,
	}
	trackingDomains := make(map[string]int)
	kept := make([]CookieRecord, 0, len(records))
	verdicts := make([]ClassifiedCookie, 0, len(records))

	siteCounts := make(map[string]int)
	serviceCounts := make(map[string]map[string]int)
	authDetected := make(map[string]map[string]struct{})

	for i := range records {
		rec := records[i]
		v := a.rules.Classify(&rec)
		verdicts = append(verdicts, ClassifiedCookie{Record: rec, Verdict: v})
		counts[v.Class]++

		switch v.Class {
		case ClassTracking:
			trackingDomains[bareDomain(rec.Domain)]++
		case ClassEssential:
			kept = append(kept, rec)
		default:
			if a.retainOther {
				kept = append(kept, rec)
			}
		}

		site := a.sites.MainDomain(rec.Domain)
		siteCounts[site]++
		if svc := a.sites.DetectService(site, rec.Domain); svc != "" {
			if serviceCounts[site] == nil {
				serviceCounts[site] = make(map[string]int)
			}
			serviceCounts[site][svc]++
		}
		if auth := a.sites.DetectAuth(site, rec.Name); auth != "" {
			if authDetected[site] == nil {
				authDetected[site] = make(map[string]struct{})
			}
			authDetected[site][auth] = struct{}{}
		}
	}

	report := &PrivacyReport{
		TotalCookies:          len(records),
		CountsByClass:         counts,
		UniqueTrackingDomains: sortedKeys(trackingDomains),
		PrivacyScore:          privacyScore(counts[ClassTracking], len(trackingDomains), a.weights),
		TopOffenders:          topDomains(trackingDomains, a.topOffenders),
		KeptCookies:           len(kept),
		UniqueSites:           len(siteCounts),
		Sites:                 a.siteStats(siteCounts, serviceCounts),
		AuthDetected:          authList(authDetected),
		Categories:            a.categories(siteCounts),
		Profile:               a.sites.ScoreProfile(siteCounts, serviceCounts, len(authDetected)),
		OldestCookieAge:       "Unknown",
	}
	if len(report.Sites) > 0 {
		report.MostCommonSite = &DomainCount{
			Domain: report.Sites[0].Site,
			Count:  report.Sites[0].Count,
		}
	}
	if oldest, ok := oldestExpiry(records); ok {
		report.OldestCookieAge = ageBucket(oldest, a.now())
	}

	return &AnalysisResult{
		Cleaned:  SerializeRecords(kept),
		Kept:     kept,
		Verdicts: verdicts,
		Report:   report,
	}
}

// siteStats ranks sites by cookie count, merging detected services with
// the configured ones for recognized sites.
func (a *Analyzer) siteStats(siteCounts map[string]int, serviceCounts map[string]map[string]int) []SiteStat {
	stats := make([]SiteStat, 0, len(siteCounts))
	for site, count := range siteCounts {
		seen := make(map[string]struct{})
		for svc := range serviceCounts[site] {
			seen[svc] = struct{}{}
		}
		for _, svc := range a.sites.ConfiguredServices(site) {
			seen[svc] = struct{}{}
		}
		services := make([]string, 0, len(seen))
		for svc := range seen {
			services = append(services, svc)
		}
		a.sites.SortServices(services)
		stats = append(stats, SiteStat{Site: site, Count: count, Services: services})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Site < stats[j].Site
	})
	return stats
}

// categories groups the seen sites by profile category, "other" last.
func (a *Analyzer) categories(siteCounts map[string]int) []CategorySites {
	grouped := make(map[string][]string)
	for site := range siteCounts {
		cat := a.sites.Category(site)
		grouped[cat] = append(grouped[cat], site)
	}
	out := make([]CategorySites, 0, len(grouped))
	for cat, sites := range grouped {
		sort.Slice(sites, func(i, j int) bool {
			if siteCounts[sites[i]] != siteCounts[sites[j]] {
				return siteCounts[sites[i]] > siteCounts[sites[j]]
			}
			return sites[i] < sites[j]
		})
		out = append(out, CategorySites{Category: cat, Sites: sites})
	}
	sort.Slice(out, func(i, j int) bool {
		if (out[i].Category == "other") != (out[j].Category == "other") {
			return out[j].Category == "other"
		}
		return out[i].Category < out[j].Category
	})
	return out
}

func bareDomain(domain string) string {
	return strings.ToLower(strings.TrimPrefix(domain, "."))
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// topDomains ranks tracking domains by cookie count descending, domain
// ascending on ties, truncated to limit.
func topDomains(m map[string]int, limit int) []DomainCount {
	ranked := make([]DomainCount, 0, len(m))
	for domain, count := range m {
		ranked = append(ranked, DomainCount{Domain: domain, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Domain < ranked[j].Domain
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// authList flattens detected auth cookies into a sorted report section.
func authList(detected map[string]map[string]struct{}) []SiteAuth {
	out := make([]SiteAuth, 0, len(detected))
	for site, names := range detected {
		cookies := make([]string, 0, len(names))
		for name := range names {
			cookies = append(cookies, name)
		}
		sort.Strings(cookies)
		out = append(out, SiteAuth{Site: site, Cookies: cookies})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Site < out[j].Site })
	return out
}
