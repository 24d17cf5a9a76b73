package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/akimov/cookiescrub/internal/config"
	"github.com/akimov/cookiescrub/internal/core"
)

// AnalyzerFactory creates the cookie analyzer from configuration
type AnalyzerFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewAnalyzerFactory creates a new analyzer factory
func NewAnalyzerFactory(cfg *config.Config, logger *zap.Logger) *AnalyzerFactory {
	return &AnalyzerFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateAnalyzer validates the cleaner and profile sections and builds
// the analyzer with its frozen rule set and site index.
func (f *AnalyzerFactory) CreateAnalyzer() (*core.Analyzer, error) {
	cleaner := f.cfg.GetCleaner()
	if err := cleaner.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cleaner configuration: %w", err)
	}

	profile, err := f.cfg.GetProfile()
	if err != nil {
		return nil, fmt.Errorf("failed to load profile configuration: %w", err)
	}
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile configuration: %w", err)
	}

	sites := core.NewSiteIndex(siteProfiles(profile.Sites), profile.ServiceOrder, profile.AuthBonus, levels(profile.Levels))
	rules := core.NewRuleSet(cleaner.TrackingDomains, cleaner.TrackingNamePatterns, cleaner.EssentialNamePatterns, sites)
	weights := core.ScoreWeights{
		TrackingCookiePenalty: cleaner.TrackingCookiePenalty,
		TrackingPenaltyCap:    cleaner.TrackingPenaltyCap,
		FreeTrackingDomains:   cleaner.FreeTrackingDomains,
		TrackingDomainPenalty: cleaner.TrackingDomainPenalty,
	}

	f.logger.Info("Loaded cleaning rules",
		zap.Int("tracking_domains", len(cleaner.TrackingDomains)),
		zap.Int("tracking_name_patterns", len(cleaner.TrackingNamePatterns)),
		zap.Int("essential_name_patterns", len(cleaner.EssentialNamePatterns)),
		zap.Int("site_profiles", len(profile.Sites)))

	return core.NewAnalyzer(rules, sites, weights, cleaner.RetainOther, cleaner.TopOffendersLimit, f.logger), nil
}

func siteProfiles(cfgs []config.SiteProfileConfig) []core.SiteProfile {
	profiles := make([]core.SiteProfile, 0, len(cfgs))
	for _, c := range cfgs {
		p := core.SiteProfile{
			Name:          c.Name,
			Aliases:       c.Aliases,
			Category:      c.Category,
			Points:        c.Points,
			ServicePoints: c.ServicePoints,
			Auth:          c.Auth,
		}
		for _, s := range c.Services {
			p.Services = append(p.Services, core.ServiceRule{Name: s.Name, Keys: s.Keys})
		}
		profiles = append(profiles, p)
	}
	return profiles
}

func levels(cfgs []config.LevelConfig) []core.Level {
	out := make([]core.Level, 0, len(cfgs))
	for _, c := range cfgs {
		out = append(out, core.Level{Name: c.Name, MinScore: c.MinScore})
	}
	return out
}
