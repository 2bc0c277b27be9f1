package tui

import (
	"context"
	"time"

	"github.com/Veraticus/customs-triage/internal/model"
	"github.com/Veraticus/customs-triage/internal/tui/themes"
	"github.com/Veraticus/customs-triage/internal/urgency"
)

// JobSource loads the jobs to browse.
type JobSource func(ctx context.Context) ([]model.Job, error)

// Config holds TUI configuration.
type Config struct {
	Theme      themes.Theme
	Source     JobSource
	Classifier *urgency.Classifier
	Now        func() time.Time
	Width      int
	Height     int
	ShowHelp   bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:      themes.Default,
		Classifier: urgency.NewClassifier(),
		Now:        time.Now,
		Width:      80,
		Height:     24,
	}
}

// WithSource sets where jobs are loaded from.
func WithSource(source JobSource) Option {
	return func(c *Config) {
		c.Source = source
	}
}

// WithJobs browses a fixed listing.
func WithJobs(jobs []model.Job) Option {
	return WithSource(func(context.Context) ([]model.Job, error) {
		return jobs, nil
	})
}

// WithClassifier sets the classifier used to rank jobs.
func WithClassifier(classifier *urgency.Classifier) Option {
	return func(c *Config) {
		if classifier != nil {
			c.Classifier = classifier
		}
	}
}

// WithClock sets the clock jobs are classified against.
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		if now != nil {
			c.Now = now
		}
	}
}

// WithHelp starts the browser with the full key help expanded.
func WithHelp(show bool) Option {
	return func(c *Config) {
		c.ShowHelp = show
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}
