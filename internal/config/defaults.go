package config

// defaultTrackingDomains are third-party advertising and analytics
// domains, suffix-matched against cookie domains.
var defaultTrackingDomains = []string{
	"doubleclick.net",
	"google-analytics.com",
	"googletagmanager.com",
	"googlesyndication.com",
	"googleadservices.com",
	"adnxs.com",
	"adsrvr.org",
	"facebook.net",
	"ads-twitter.com",
	"scorecardresearch.com",
	"quantserve.com",
	"criteo.com",
	"criteo.net",
	"hotjar.com",
	"mixpanel.com",
	"segment.io",
	"segment.com",
	"amplitude.com",
	"branch.io",
	"taboola.com",
	"outbrain.com",
	"mc.yandex.ru",
}

// defaultTrackingNamePatterns match the cookie names the big analytics
// and ad SDKs plant on first-party domains. A `*` at either end of a
// pattern widens the match to prefix, suffix or substring.
var defaultTrackingNamePatterns = []string{
	// Google Analytics
	"_ga", "_ga_*", "_gid", "_gat*", "__utm*",
	// Meta Pixel
	"_fbp", "_fbc",
	// TikTok
	"_tt_enable_cookie", "_ttp",
	// Adobe Analytics
	"mbox", "AMCV_*", "s_cc", "s_sq", "s_vi",
	// Tealium
	"utag_main",
	// Mixpanel
	"mp_*", "__mp*",
	// Amplitude
	"amplitude_id*",
	// Segment
	"ajs_user_id", "ajs_anonymous_id",
	// Hotjar
	"_hj*",
	// Intercom
	"intercom-id-*", "intercom-session-*",
	// Zendesk, Drift
	"zendesk_*", "drift_*",
	// HubSpot
	"hsCtaTracking*", "__hstc", "__hssc", "hubspotutk",
}

// defaultEssentialNamePatterns are generic auth and session cookie
// names, recognized on any domain.
var defaultEssentialNamePatterns = []string{
	"sessionid",
	"session_id",
	"auth_token",
	"access_token",
	"refresh_token",
	"remember_token",
	"csrftoken",
	"xsrf-token",
	"jsessionid",
	"phpsessid",
}

// defaultServiceOrder fixes how service names sort in reports.
var defaultServiceOrder = []string{
	"search", "gmail", "youtube", "other", "shopping", "marketplace",
	"twitter", "facebook", "tiktok", "reddit", "linkedin", "github",
	"discord", "twitch", "netflix", "spotify",
}

// defaultLevels are the profile score tiers, highest first.
var defaultLevels = []LevelConfig{
	{Name: "LEGEND", MinScore: 40},
	{Name: "ELITE", MinScore: 30},
	{Name: "PRO", MinScore: 20},
	{Name: "ACTIVE", MinScore: 12},
	{Name: "CASUAL", MinScore: 6},
	{Name: "LOW", MinScore: 0},
}

// defaultSiteProfiles map cookie domains to recognized sites. Alias
// fragments are checked in list order, so more specific entries come
// before the catch-alls.
var defaultSiteProfiles = []SiteProfileConfig{
	{
		Name:     "linkedin",
		Aliases:  []string{"linkedin"},
		Category: "professional",
		Points:   4,
		Auth:     []string{"li_at", "JSESSIONID"},
	},
	{
		Name:     "github",
		Aliases:  []string{"github"},
		Category: "professional",
		Points:   4,
		Auth:     []string{"user_session", "dotcom_user", "logged_in"},
	},
	{
		Name:     "discord",
		Aliases:  []string{"discord"},
		Category: "social",
		Points:   2,
	},
	{
		Name:     "twitch",
		Aliases:  []string{"twitch"},
		Category: "entertainment",
		Points:   2,
		Auth:     []string{"auth-token", "persistent"},
	},
	{
		Name:     "netflix",
		Aliases:  []string{"netflix"},
		Category: "entertainment",
		Points:   3,
		Auth:     []string{"NetflixId", "SecureNetflixId"},
	},
	{
		Name:     "spotify",
		Aliases:  []string{"spotify"},
		Category: "entertainment",
		Points:   2,
		Auth:     []string{"sp_dc", "sp_key"},
	},
	{
		Name:    "reddit",
		Aliases: []string{"reddit"},
		Points:  2,
		Auth:    []string{"reddit_session", "token_v2"},
	},
	{
		Name:     "tiktok",
		Aliases:  []string{"tiktok"},
		Category: "social",
		Points:   2,
		Auth:     []string{"sessionid", "sid_tt"},
	},
	{
		Name:     "paypal",
		Aliases:  []string{"paypal"},
		Category: "shopping",
		Points:   4,
		Auth:     []string{"login_email"},
	},
	{
		Name:     "x",
		Aliases:  []string{"x.com", "twitter"},
		Category: "social",
		Points:   3,
		Services: []ServiceRuleConfig{
			{Name: "twitter", Keys: []string{"twitter"}},
		},
		Auth: []string{"auth_token", "ct0", "twid"},
	},
	{
		Name:     "google",
		Aliases:  []string{"google", "youtube", "gmail"},
		Category: "search",
		Points:   2,
		Services: []ServiceRuleConfig{
			{Name: "gmail", Keys: []string{"gmail", "mail.google"}},
			{Name: "youtube", Keys: []string{"youtube"}},
			{Name: "search", Keys: []string{"google"}},
		},
		ServicePoints: map[string]int{"gmail": 2, "youtube": 1},
		Auth:          []string{"SID", "SSID", "HSID", "SAPISID"},
	},
	{
		Name:     "amazon",
		Aliases:  []string{"amazon"},
		Category: "shopping",
		Points:   3,
		Services: []ServiceRuleConfig{
			{Name: "marketplace", Keys: []string{"amazon"}},
		},
		Auth: []string{"session-token", "x-main", "at-main"},
	},
	{
		Name:     "ebay",
		Aliases:  []string{"ebay"},
		Category: "shopping",
		Points:   2,
		Auth:     []string{"dp1"},
	},
	{
		Name:     "facebook",
		Aliases:  []string{"facebook", "fb"},
		Category: "social",
		Points:   3,
		Auth:     []string{"c_user", "xs"},
	},
	{
		Name:     "instagram",
		Aliases:  []string{"instagram"},
		Category: "social",
		Points:   3,
		Auth:     []string{"sessionid", "ds_user_id"},
	},
	{
		Name:    "roblox",
		Aliases: []string{"roblox"},
		Points:  1,
		Auth:    []string{".ROBLOSECURITY"},
	},
	{
		Name:    "steam",
		Aliases: []string{"steam", "steampowered"},
		Points:  3,
		Auth:    []string{"steamLoginSecure"},
	},
	{
		Name:    "epicgames",
		Aliases: []string{"epicgames", "epic"},
		Points:  1,
	},
	{
		Name:    "microsoft",
		Aliases: []string{"microsoft", "live", "outlook"},
		Points:  2,
		Auth:    []string{"MSPAuth"},
	},
	{
		Name:    "apple",
		Aliases: []string{"apple", "icloud"},
		Points:  2,
		Auth:    []string{"myacinfo"},
	},
	{
		Name:    "genshin",
		Aliases: []string{"genshin", "mihoyo"},
		Points:  1,
		Auth:    []string{"ltoken"},
	},
	{
		Name:    "minecraft",
		Aliases: []string{"minecraft", "mojang"},
		Points:  1,
	},
}
