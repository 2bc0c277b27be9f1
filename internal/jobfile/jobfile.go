// Package jobfile reads job listings exported by the dashboard API.
package jobfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Veraticus/customs-triage/internal/model"
)

// Stdin is the path that selects standard input.
const Stdin = "-"

// Listing errors.
var (
	// ErrMalformed is returned when the input is neither a JSON array of
	// jobs nor an object with a "jobs" array.
	ErrMalformed = errors.New("malformed job listing")
	// ErrNoStdin is returned when Stdin is requested without a reader.
	ErrNoStdin = errors.New("standard input is not available")
)

type envelope struct {
	Jobs []model.Job `json:"jobs"`
}

// Read decodes a job listing. Both a bare array and a {"jobs": [...]}
// envelope are accepted. Jobs without an ID get their job number, or
// their 1-based position in the listing.
func Read(r io.Reader) ([]model.Job, error) {
	return read(r, "")
}

// read decodes a listing and prefixes positional IDs with prefix so
// listings read from different files cannot collide.
func read(r io.Reader, prefix string) ([]model.Job, error) {
	if r == nil {
		return nil, ErrNoStdin
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read job listing: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrMalformed)
	}

	var jobs []model.Job
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &jobs); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
	case '{':
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		if env.Jobs == nil {
			return nil, fmt.Errorf("%w: object has no \"jobs\" array", ErrMalformed)
		}
		jobs = env.Jobs
	default:
		return nil, fmt.Errorf("%w: expected an array or an object", ErrMalformed)
	}

	for i := range jobs {
		if jobs[i].ID != "" {
			continue
		}
		if jobs[i].JobNumber != "" {
			jobs[i].ID = jobs[i].JobNumber
		} else {
			jobs[i].ID = fmt.Sprintf("%s%d", prefix, i+1)
		}
	}
	return jobs, nil
}

// ReadFile reads a listing from path, or from stdin when path is Stdin.
// Positional IDs of jobs read from a file take the form "<path>#<n>".
func ReadFile(path string, stdin io.Reader) ([]model.Job, error) {
	if path == Stdin {
		return read(stdin, "")
	}

	f, err := os.Open(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to open job listing: %w", err)
	}
	defer func() { _ = f.Close() }()

	jobs, err := read(f, path+"#")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return jobs, nil
}
