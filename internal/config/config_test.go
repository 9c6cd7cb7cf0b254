package config_test

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-age/internal/config"
)

// TestConstants_Integrity ensures critical constants are not empty or malformed.
func TestConstants_Integrity(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"AppName", config.AppName},
		{"AppID", config.AppID},
		{"Version", config.Version},
		{"UserAgent", config.UserAgent},
		{"ICalVersion", config.ICalVersion},
		{"ICalProdid", config.ICalProdid},
		{"DefaultPort", config.DefaultPort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "Critical constant %s should not be empty", tt.name)
		})
	}
}

// TestDefaults_Sanity checks that default values make sense logically.
func TestDefaults_Sanity(t *testing.T) {
	assert.Equal(t, 80, config.DefaultExpectancyYears)
	assert.Equal(t, 2000, config.DefaultLeapYear, "Default leap year must be 2000 for consistency")
	assert.Equal(t, int64(365.2425*24*3600*1000), int64(config.MillisPerMeanYear))
	assert.Equal(t, time.Second, config.LiveTickInterval)
	assert.Greater(t, config.RosterConcurrency, 0)
}

// TestUserAgent_Format ensures the UA string follows the standard format.
func TestUserAgent_Format(t *testing.T) {
	assert.True(t, strings.HasPrefix(config.UserAgent, "Go-Age/"), "UserAgent must start with AppName/")
}

func TestTimeoutsAndLimits(t *testing.T) {
	t.Parallel()

	assert.Greater(t, config.HTTPTimeout, 0*time.Second, "HTTPTimeout must be positive")
	assert.LessOrEqual(t, config.HTTPTimeout, 2*time.Minute, "HTTPTimeout should not be excessively long")
	assert.Greater(t, config.ShutdownTimeout, 0*time.Second, "ShutdownTimeout must be positive")
	assert.Greater(t, config.MaxHTTPResponseSize, 0, "MaxHTTPResponseSize must be positive")
	assert.Less(t, int64(config.MaxHTTPResponseSize), int64(1*1024*1024*1024), "MaxHTTPResponseSize should stay under 1GB to protect RAM")
}

func TestDefaultSettings_Valid(t *testing.T) {
	s := config.DefaultSettings()
	require.NoError(t, s.Validate())
	assert.Equal(t, config.DefaultExpectancyYears, s.ExpectancyYears)
	assert.NotEmpty(t, s.Milestones)

	// Catalog order is part of the contract: year-based rows first.
	assert.Equal(t, "10th Birthday", s.Milestones[0].Label)
	assert.Equal(t, "1 Billion Seconds Lived", s.Milestones[len(s.Milestones)-2].Label)
}

func TestSettings_Validate(t *testing.T) {
	good := config.MilestoneDefinition{Label: "A", Kind: config.KindDays, Value: 1}

	tests := []struct {
		name     string
		settings config.Settings
		wantMsg  string
	}{
		{"zero expectancy", config.Settings{ExpectancyYears: 0}, config.ErrExpectancyRange},
		{"huge expectancy", config.Settings{ExpectancyYears: 500}, config.ErrExpectancyRange},
		{"empty label", config.Settings{ExpectancyYears: 80, Milestones: []config.MilestoneDefinition{{Label: " ", Kind: config.KindDays, Value: 1}}}, config.ErrMilestoneLabel},
		{"duplicate label", config.Settings{ExpectancyYears: 80, Milestones: []config.MilestoneDefinition{good, good}}, config.ErrMilestoneDup},
		{"bad kind", config.Settings{ExpectancyYears: 80, Milestones: []config.MilestoneDefinition{{Label: "A", Kind: "weeks", Value: 1}}}, config.ErrMilestoneKind},
		{"zero value", config.Settings{ExpectancyYears: 80, Milestones: []config.MilestoneDefinition{{Label: "A", Kind: config.KindYears, Value: 0}}}, config.ErrMilestoneValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, config.ErrSettings)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidate_RejectsOverflowingMilestone(t *testing.T) {
	tests := []struct {
		kind  string
		limit int64
	}{
		{config.KindYears, 1000},
		{config.KindDays, 366_000},
		{config.KindHours, 8_784_000},
		{config.KindMinutes, 527_040_000},
		{config.KindSeconds, 31_622_400_000},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			assert.Equal(t, tt.limit, config.MaxMilestoneValue(tt.kind))

			at := config.Settings{ExpectancyYears: 80, Milestones: []config.MilestoneDefinition{{Label: "edge", Kind: tt.kind, Value: tt.limit}}}
			assert.NoError(t, at.Validate())

			for _, v := range []int64{tt.limit + 1, 200_000_000_000_000, math.MaxInt64} {
				over := config.Settings{ExpectancyYears: 80, Milestones: []config.MilestoneDefinition{{Label: "far", Kind: tt.kind, Value: v}}}
				err := over.Validate()
				require.Error(t, err, v)
				assert.ErrorIs(t, err, config.ErrSettings)
				assert.Contains(t, err.Error(), config.ErrMilestoneRange)
			}
		})
	}
}

func TestLoadSettings_EmptyPathReturnsDefaults(t *testing.T) {
	s, err := config.LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultSettings(), s)
}

func TestLoadSettings_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := `expectancy_years: 90
milestones:
  - label: "Quarter Century"
    kind: years
    value: 25
  - label: "500 Million Seconds"
    kind: seconds
    value: 500000000
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	s, err := config.LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 90, s.ExpectancyYears)
	require.Len(t, s.Milestones, 2)
	assert.Equal(t, config.MilestoneDefinition{Label: "Quarter Century", Kind: config.KindYears, Value: 25}, s.Milestones[0])
	assert.Equal(t, int64(500_000_000), s.Milestones[1].Value)
}

func TestLoadSettings_TOMLKeepsDefaultCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("expectancy_years = 72\n"), 0o600))

	s, err := config.LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 72, s.ExpectancyYears)
	assert.Equal(t, config.DefaultMilestones(), s.Milestones)
}

func TestLoadSettings_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := config.LoadSettings(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrSettingsRead)

	jsonPath := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte("{}"), 0o600))
	_, err = config.LoadSettings(jsonPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrSettingsFormat)

	badPath := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badPath, []byte("expectancy_years: 999\n"), 0o600))
	_, err = config.LoadSettings(badPath)
	assert.ErrorIs(t, err, config.ErrSettings)
}
