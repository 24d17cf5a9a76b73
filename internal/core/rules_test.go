package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testRuleSet() *RuleSet {
	sites := NewSiteIndex([]SiteProfile{{
		Name:    "github",
		Aliases: []string{"github"},
		Auth:    []string{"user_session"},
	}}, nil, 5, nil)

	return NewRuleSet(
		[]string{"doubleclick.net", "ads.example.com"},
		[]string{"_ga", "_gat*", "*_tracker", "*utm*"},
		[]string{"sessionid", "csrftoken"},
		sites,
	)
}

func TestRuleSet_TrackingDomainBeatsEssentialName(t *testing.T) {
	rs := testRuleSet()

	// An auth-looking name on a tracker domain is still tracking.
	v := rs.Classify(&CookieRecord{
		Domain:   "stats.doubleclick.net",
		Name:     "sessionid",
		Secure:   true,
		HTTPOnly: true,
	})
	assert.Equal(t, ClassTracking, v.Class)
	assert.Equal(t, RuleTrackingDomain, v.Rule)
}

func TestRuleSet_TrackingNameOnFirstPartyDomain(t *testing.T) {
	rs := testRuleSet()

	v := rs.Classify(&CookieRecord{
		Domain:   ".example.org",
		Name:     "_ga",
		Secure:   true,
		HTTPOnly: true,
	})
	assert.Equal(t, ClassTracking, v.Class)
	assert.Equal(t, RuleTrackingName, v.Rule)
}

func TestRuleSet_EssentialRequiresTransportProtection(t *testing.T) {
	rs := testRuleSet()

	tests := []struct {
		name string
		rec  CookieRecord
		want Class
	}{
		{
			name: "secure and httponly",
			rec:  CookieRecord{Domain: "shop.example.org", Name: "sessionid", Secure: true, HTTPOnly: true},
			want: ClassEssential,
		},
		{
			name: "secure with unspecified samesite",
			rec:  CookieRecord{Domain: "shop.example.org", Name: "sessionid", Secure: true},
			want: ClassEssential,
		},
		{
			name: "secure with samesite none and no httponly",
			rec:  CookieRecord{Domain: "shop.example.org", Name: "sessionid", Secure: true, SameSite: SameSiteNone},
			want: ClassOther,
		},
		{
			name: "httponly overrides samesite none",
			rec:  CookieRecord{Domain: "shop.example.org", Name: "sessionid", Secure: true, HTTPOnly: true, SameSite: SameSiteNone},
			want: ClassEssential,
		},
		{
			name: "not secure",
			rec:  CookieRecord{Domain: "shop.example.org", Name: "sessionid", HTTPOnly: true},
			want: ClassOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := rs.Classify(&tt.rec)
			assert.Equal(t, tt.want, v.Class)
		})
	}
}

func TestRuleSet_SiteAuthCookie(t *testing.T) {
	rs := testRuleSet()

	v := rs.Classify(&CookieRecord{
		Domain:   ".github.com",
		Name:     "user_session",
		Secure:   true,
		HTTPOnly: true,
	})
	assert.Equal(t, ClassEssential, v.Class)
	assert.Equal(t, RuleSiteAuth, v.Rule)

	// Per-site auth names do not apply outside their site.
	v = rs.Classify(&CookieRecord{
		Domain:   "example.org",
		Name:     "user_session",
		Secure:   true,
		HTTPOnly: true,
	})
	assert.Equal(t, ClassOther, v.Class)
}

func TestRuleSet_NoMatchIsOther(t *testing.T) {
	rs := testRuleSet()

	v := rs.Classify(&CookieRecord{Domain: "example.org", Name: "prefs"})
	assert.Equal(t, ClassOther, v.Class)
	assert.Empty(t, v.Rule)
}

func TestDomainSet_SuffixMatching(t *testing.T) {
	s := newDomainSet([]string{" .Doubleclick.NET", "ads.example.com", ""})

	assert.True(t, s.Matches("doubleclick.net"))
	assert.True(t, s.Matches(".doubleclick.net"))
	assert.True(t, s.Matches("stats.g.doubleclick.net"))
	assert.True(t, s.Matches("ads.example.com"))
	assert.True(t, s.Matches("eu.ads.example.com"))

	// Suffixes match on label boundaries only.
	assert.False(t, s.Matches("notads.example.com"))
	assert.False(t, s.Matches("example.com"))
	assert.False(t, s.Matches("doubleclick.net.evil.org"))
}

func TestPatternList_MatchKinds(t *testing.T) {
	l := compilePatterns([]string{"_ga", "_gat*", "*_tracker", "*utm*", "", "*"})

	assert.True(t, l.Match("_ga"))
	assert.False(t, l.Match("_gap")) // exact pattern, not a prefix

	assert.True(t, l.Match("_gat_UA-12345"))
	assert.True(t, l.Match("page_tracker"))
	assert.True(t, l.Match("x_utm_campaign"))

	assert.False(t, l.Match("unrelated"))
}

func TestPatternList_CaseInsensitive(t *testing.T) {
	l := compilePatterns([]string{"AMCV_*"})

	assert.True(t, l.Match("amcv_12345"))
	assert.True(t, l.Match("AMCV_12345"))
}

func TestPatternList_BareWildcardsDropped(t *testing.T) {
	l := compilePatterns([]string{"*", "**", "  "})

	assert.False(t, l.Match("anything"))
}
