// Package report renders privacy reports as plain text for the bot and
// the CLI. All output is deterministic for a given report.
package report

import (
	"fmt"
	"strings"

	"github.com/akimov/cookiescrub/internal/core"
)

// RenderStats renders the full statistics document the bot sends back
// alongside the cleaned export.
func RenderStats(r *core.PrivacyReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🧠 SCORE: %d (%s)\n\n", r.Profile.Points, r.Profile.Level)

	for _, site := range r.Sites {
		if len(site.Services) > 0 {
			fmt.Fprintf(&b, "%s(%d) - %s\n", site.Site, site.Count, strings.Join(site.Services, ", "))
		} else {
			fmt.Fprintf(&b, "%s(%d)\n", site.Site, site.Count)
		}
	}

	if len(r.AuthDetected) > 0 {
		b.WriteString("\n🔐 AUTH DETECTED:\n")
		for _, auth := range r.AuthDetected {
			fmt.Fprintf(&b, "%s: %s\n", auth.Site, strings.Join(auth.Cookies, ", "))
		}
	}

	b.WriteString("\n=== STATISTICS ===\n")
	fmt.Fprintf(&b, "Total unique cookies: %d\n", r.TotalCookies)
	fmt.Fprintf(&b, "Essential: %d\n", r.CountsByClass[core.ClassEssential])
	fmt.Fprintf(&b, "Tracking: %d\n", r.CountsByClass[core.ClassTracking])
	fmt.Fprintf(&b, "Other: %d\n", r.CountsByClass[core.ClassOther])
	fmt.Fprintf(&b, "Kept after cleaning: %d\n", r.KeptCookies)
	fmt.Fprintf(&b, "Unique main domains: %d\n", r.UniqueSites)
	fmt.Fprintf(&b, "Most common domain: %s\n", mostCommon(r))
	fmt.Fprintf(&b, "Oldest cookies age: %s\n", r.OldestCookieAge)
	fmt.Fprintf(&b, "Unique tracking domains: %d\n", len(r.UniqueTrackingDomains))
	fmt.Fprintf(&b, "🏆 Privacy Score: %d/100\n", r.PrivacyScore)

	if len(r.TopOffenders) > 0 {
		b.WriteString("\n=== TOP OFFENDERS ===\n")
		for _, offender := range r.TopOffenders {
			fmt.Fprintf(&b, "%s (%d)\n", offender.Domain, offender.Count)
		}
	}

	if len(r.Categories) > 0 {
		b.WriteString("\n=== BY CATEGORIES ===\n")
		for _, cat := range r.Categories {
			fmt.Fprintf(&b, "%s: %s\n", capitalize(cat.Category), strings.Join(cat.Sites, ", "))
		}
	}

	return b.String()
}

// RenderAnalysis renders the site and scoring breakdown printed by the
// CLI analyze command.
func RenderAnalysis(r *core.PrivacyReport) string {
	var b strings.Builder

	b.WriteString("📊 UNIQUE COOKIES BY SITES:\n\n")
	for _, site := range r.Sites {
		if len(site.Services) > 0 {
			fmt.Fprintf(&b, "%s(%d) - %s\n", site.Site, site.Count, strings.Join(site.Services, ", "))
		} else {
			fmt.Fprintf(&b, "%s(%d)\n", site.Site, site.Count)
		}
	}

	b.WriteString("\n🔐 AUTH DETECTED:\n")
	if len(r.AuthDetected) == 0 {
		b.WriteString("  not found\n")
	} else {
		for _, auth := range r.AuthDetected {
			fmt.Fprintf(&b, "  %s: %s\n", auth.Site, strings.Join(auth.Cookies, ", "))
		}
	}

	b.WriteString("\n🧠 PROFILE SCORING\n")
	fmt.Fprintf(&b, "SCORE: %d\n", r.Profile.Points)
	fmt.Fprintf(&b, "VALUE: %s\n", r.Profile.Level)

	if len(r.Profile.Reasons) > 0 {
		b.WriteString("\n📌 SCORE DETAILS:\n")
		for _, reason := range r.Profile.Reasons {
			fmt.Fprintf(&b, "  %s\n", reason)
		}
	}

	return b.String()
}

// Caption renders the short summary attached to the cleaned export.
func Caption(r *core.PrivacyReport) string {
	return fmt.Sprintf("Cleaned cookies statistics. Total: %d\n🏆 Privacy Score: %d/100",
		r.KeptCookies, r.PrivacyScore)
}

func mostCommon(r *core.PrivacyReport) string {
	if r.MostCommonSite == nil {
		return "None"
	}
	return fmt.Sprintf("%s (%d times)", r.MostCommonSite.Domain, r.MostCommonSite.Count)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
