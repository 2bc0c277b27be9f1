// Package config loads triage settings from viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // timezone names resolve on hosts without zoneinfo

	"github.com/Veraticus/customs-triage/internal/common"
	"github.com/Veraticus/customs-triage/internal/model"
	"github.com/Veraticus/customs-triage/internal/urgency"
	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyDatabasePath = "database.path"
	KeyStrategy     = "classification.strategy"
	KeyTimezone     = "classification.timezone"
	KeyRules        = "rules"
)

// DefaultDatabasePath is used when database.path is unset.
const DefaultDatabasePath = "$HOME/.local/share/triage/triage.db"

// Settings is the resolved runtime configuration.
type Settings struct {
	Location     *time.Location
	Rules        urgency.RuleTable
	DatabasePath string
	Strategy     urgency.Strategy
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, DefaultDatabasePath)
	v.SetDefault(KeyStrategy, string(urgency.StrategyLastWins))
	v.SetDefault(KeyTimezone, "")
}

// Load resolves settings from v. Rule overrides are merged over the
// default table and the result is validated.
func Load(v *viper.Viper) (*Settings, error) {
	SetDefaults(v)

	strategy, err := urgency.ParseStrategy(v.GetString(KeyStrategy))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}

	loc, err := loadLocation(v.GetString(KeyTimezone))
	if err != nil {
		return nil, err
	}

	rules, err := loadRules(v)
	if err != nil {
		return nil, err
	}

	dbPath := ExpandPath(v.GetString(KeyDatabasePath))
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("%w: %s", common.ErrMissingConfig, KeyDatabasePath)
	}

	return &Settings{
		DatabasePath: dbPath,
		Strategy:     strategy,
		Location:     loc,
		Rules:        rules,
	}, nil
}

// Classifier builds a classifier from the settings.
func (s *Settings) Classifier() *urgency.Classifier {
	return urgency.NewClassifier(
		urgency.WithRuleTable(s.Rules),
		urgency.WithStrategy(s.Strategy),
		urgency.WithLocation(s.Location),
	)
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", common.ErrInvalidConfig, name, err)
	}
	return loc, nil
}

func loadRules(v *viper.Viper) (urgency.RuleTable, error) {
	table := urgency.DefaultRuleTable()
	if !v.IsSet(KeyRules) {
		return table, nil
	}

	var raw map[string]model.Rule
	if err := v.UnmarshalKey(KeyRules, &raw); err != nil {
		return nil, fmt.Errorf("%w: rules: %v", common.ErrInvalidConfig, err)
	}

	overrides := make(urgency.RuleTable, len(raw))
	for name, rule := range raw {
		// viper lower-cases keys; variant names are already lower case.
		overrides[model.RuleVariant(name)] = rule
	}

	merged := table.Merge(overrides)
	if err := merged.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}
	return merged, nil
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}

	return os.ExpandEnv(path)
}
