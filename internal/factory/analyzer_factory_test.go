package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akimov/cookiescrub/internal/config"
	"github.com/akimov/cookiescrub/internal/core"
)

func defaultConfig() *config.Config {
	return config.NewFromViper(config.NewEmptyViper())
}

func TestAnalyzerFactory_CreateAnalyzer(t *testing.T) {
	f := NewAnalyzerFactory(defaultConfig(), zap.NewNop())

	analyzer, err := f.CreateAnalyzer()
	require.NoError(t, err)
	require.NotNil(t, analyzer)

	// The built-in rule lists classify a known tracker out of the box.
	result, err := analyzer.AnalyzeExport(context.Background(),
		[]byte(".doubleclick.net\tTRUE\t/\tFALSE\t0\tid\tabc"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Report.CountsByClass[core.ClassTracking])
	assert.Zero(t, result.Report.KeptCookies)
}

func TestAnalyzerFactory_InvalidCleanerConfig(t *testing.T) {
	v := config.NewEmptyViper()
	v.Set("cleaner.top_offenders_limit", 0)
	f := NewAnalyzerFactory(config.NewFromViper(v), zap.NewNop())

	_, err := f.CreateAnalyzer()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cleaner configuration")
}

func TestAnalyzerFactory_InvalidProfileConfig(t *testing.T) {
	v := config.NewEmptyViper()
	v.Set("profile.levels", []map[string]interface{}{})
	f := NewAnalyzerFactory(config.NewFromViper(v), zap.NewNop())

	_, err := f.CreateAnalyzer()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid profile configuration")
}
