// Package tui implements the interactive "most urgent first" job browser.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/customs-triage/internal/tui/themes"
	"github.com/Veraticus/customs-triage/internal/urgency"
)

// Model holds the browser state.
type Model struct {
	ctx        context.Context
	asOf       time.Time
	lastError  error
	theme      themes.Theme
	source     JobSource
	classifier *urgency.Classifier
	now        func() time.Time
	help       help.Model
	keymap     KeyMap
	ranked     []urgency.Ranked
	summary    urgency.Summary
	cursor     int
	offset     int
	width      int
	height     int
	loading    bool
	quitting   bool
}

// New creates a browser model.
func New(ctx context.Context, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	h := help.New()
	h.ShowAll = cfg.ShowHelp

	return Model{
		ctx:        ctx,
		theme:      cfg.Theme,
		source:     cfg.Source,
		classifier: cfg.Classifier,
		now:        cfg.Now,
		help:       h,
		keymap:     DefaultKeyMap(),
		width:      cfg.Width,
		height:     cfg.Height,
		loading:    true,
	}
}

// Init loads the jobs.
func (m Model) Init() tea.Cmd {
	return m.loadJobs()
}

func (m Model) loadJobs() tea.Cmd {
	source, classifier, now, ctx := m.source, m.classifier, m.now, m.ctx
	return func() tea.Msg {
		if source == nil {
			return errorMsg{err: fmt.Errorf("no job source configured")}
		}
		jobs, err := source(ctx)
		if err != nil {
			return errorMsg{err: err}
		}
		asOf := now()
		return jobsLoadedMsg{asOf: asOf, ranked: classifier.Rank(jobs, asOf)}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.clampScroll()

	case jobsLoadedMsg:
		m.loading = false
		m.lastError = nil
		m.asOf = msg.asOf
		m.ranked = msg.ranked
		m.summary = urgency.Summarize(msg.ranked)
		if m.cursor >= len(m.ranked) {
			m.cursor = max(len(m.ranked)-1, 0)
		}
		m.clampScroll()

	case errorMsg:
		m.loading = false
		m.lastError = msg.err
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keymap.ToggleHelp):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keymap.Refresh):
		m.loading = true
		return m, m.loadJobs()
	case key.Matches(msg, m.keymap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keymap.Down):
		if m.cursor < len(m.ranked)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keymap.Home):
		m.cursor = 0
	case key.Matches(msg, m.keymap.End):
		m.cursor = max(len(m.ranked)-1, 0)
	}
	m.clampScroll()
	return m, nil
}

// listHeight is the number of job rows that fit next to the header,
// detail box and help.
func (m Model) listHeight() int {
	return max(m.height-14, 3)
}

func (m *Model) clampScroll() {
	rows := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	m.offset = max(min(m.offset, len(m.ranked)-rows), 0)
}

// Selected returns the job under the cursor.
func (m Model) Selected() (urgency.Ranked, bool) {
	if m.cursor < 0 || m.cursor >= len(m.ranked) {
		return urgency.Ranked{}, false
	}
	return m.ranked[m.cursor], true
}
