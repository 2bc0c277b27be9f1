package tui

import (
	"time"

	"github.com/Veraticus/customs-triage/internal/urgency"
)

type jobsLoadedMsg struct {
	asOf   time.Time
	ranked []urgency.Ranked
}

type errorMsg struct {
	err error
}
