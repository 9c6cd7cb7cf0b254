package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrSettings is wrapped by every validation failure of a Settings value.
var ErrSettings = errors.New(ErrInvalidSettings)

// MilestoneDefinition is one row of the milestone catalog.
// Kind is one of the Kind* constants; Value counts units of that kind.
type MilestoneDefinition struct {
	Label string `yaml:"label" toml:"label" json:"label"`
	Kind  string `yaml:"kind" toml:"kind" json:"kind"`
	Value int64  `yaml:"value" toml:"value" json:"value"`
}

// Settings holds the tunables consumed by the engine.
type Settings struct {
	ExpectancyYears int                   `yaml:"expectancy_years" toml:"expectancy_years" json:"expectancy_years"`
	Milestones      []MilestoneDefinition `yaml:"milestones" toml:"milestones" json:"milestones"`
}

// DefaultMilestones returns the built-in catalog in display order.
func DefaultMilestones() []MilestoneDefinition {
	return []MilestoneDefinition{
		{Label: "10th Birthday", Kind: KindYears, Value: 10},
		{Label: "18th Birthday", Kind: KindYears, Value: 18},
		{Label: "21st Birthday", Kind: KindYears, Value: 21},
		{Label: "30th Birthday", Kind: KindYears, Value: 30},
		{Label: "40th Birthday", Kind: KindYears, Value: 40},
		{Label: "50th Birthday", Kind: KindYears, Value: 50},
		{Label: "65th Birthday", Kind: KindYears, Value: 65},
		{Label: "100th Birthday", Kind: KindYears, Value: 100},
		{Label: "10,000 Days Lived", Kind: KindDays, Value: 10_000},
		{Label: "20,000 Days Lived", Kind: KindDays, Value: 20_000},
		{Label: "30,000 Days Lived", Kind: KindDays, Value: 30_000},
		{Label: "100,000 Hours Lived", Kind: KindHours, Value: 100_000},
		{Label: "1 Billion Seconds Lived", Kind: KindSeconds, Value: 1_000_000_000},
		{Label: "2 Billion Seconds Lived", Kind: KindSeconds, Value: 2_000_000_000},
	}
}

// DefaultSettings returns the settings used when no file is supplied.
func DefaultSettings() Settings {
	return Settings{
		ExpectancyYears: DefaultExpectancyYears,
		Milestones:      DefaultMilestones(),
	}
}

// Validate checks the expectancy range and every catalog row.
// Labels must be unique because callers key display rows on them.
func (s Settings) Validate() error {
	if s.ExpectancyYears < 1 || s.ExpectancyYears > MaxExpectancyYears {
		return fmt.Errorf("%w: %s (got %d)", ErrSettings, ErrExpectancyRange, s.ExpectancyYears)
	}

	seen := make(map[string]struct{}, len(s.Milestones))
	for i, m := range s.Milestones {
		if strings.TrimSpace(m.Label) == "" {
			return fmt.Errorf("%w: %s (row %d)", ErrSettings, ErrMilestoneLabel, i)
		}
		if _, dup := seen[m.Label]; dup {
			return fmt.Errorf("%w: %s %q", ErrSettings, ErrMilestoneDup, m.Label)
		}
		seen[m.Label] = struct{}{}

		switch m.Kind {
		case KindYears, KindDays, KindHours, KindMinutes, KindSeconds:
		default:
			return fmt.Errorf("%w: %s %q", ErrSettings, ErrMilestoneKind, m.Kind)
		}
		if m.Value <= 0 {
			return fmt.Errorf("%w: %s (%q)", ErrSettings, ErrMilestoneValue, m.Label)
		}
		if m.Value > MaxMilestoneValue(m.Kind) {
			return fmt.Errorf("%w: %s (%q)", ErrSettings, ErrMilestoneRange, m.Label)
		}
	}
	return nil
}

// MaxMilestoneValue is the largest Value accepted for kind. Every limit keeps
// the target within MaxMilestoneYears of birth, so the millisecond offset of
// duration kinds stays far from int64 overflow.
func MaxMilestoneValue(kind string) int64 {
	days := int64(MaxMilestoneYears) * 366
	switch kind {
	case KindYears:
		return MaxMilestoneYears
	case KindDays:
		return days
	case KindHours:
		return days * 24
	case KindMinutes:
		return days * 24 * 60
	default:
		return days * 24 * 60 * 60
	}
}

// LoadSettings reads a YAML or TOML settings file chosen by extension.
// Missing fields fall back to the defaults; an empty path returns the defaults.
func LoadSettings(path string) (Settings, error) {
	if path == "" {
		return DefaultSettings(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", ErrSettingsRead, err)
	}

	var s Settings
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtYAML, ExtYML:
		err = yaml.Unmarshal(data, &s)
	case ExtTOML:
		err = toml.Unmarshal(data, &s)
	default:
		return Settings{}, fmt.Errorf("%s: %q", ErrSettingsFormat, filepath.Ext(path))
	}
	if err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrSettings, err)
	}

	if s.ExpectancyYears == 0 {
		s.ExpectancyYears = DefaultExpectancyYears
	}
	if s.Milestones == nil {
		s.Milestones = DefaultMilestones()
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}

	slog.Debug(MsgSettingsLoaded,
		LogKeyComponent, CompConfig,
		LogKeyPath, path,
		LogKeyExpect, s.ExpectancyYears,
		LogKeyCount, len(s.Milestones),
	)
	return s, nil
}
