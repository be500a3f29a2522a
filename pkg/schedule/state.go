package schedule

import (
	"path/filepath"
	"time"

	"github.com/harrisonrobin/autoflow/pkg/jsonfile"
)

const stateFile = "schedule.json"

// State remembers when each job last ran, persisted like the calendar tables.
type State struct {
	LastDigest    time.Time            `json:"last_digest"`
	LastDelayScan time.Time            `json:"last_delay_scan"`
	Templates     map[string]time.Time `json:"templates"`
	Path          string               `json:"-"`
	dirty         bool
}

// NewState opens the state stored in dir, loading it if it exists.
func NewState(dir string) (*State, error) {
	s := &State{Path: filepath.Join(dir, stateFile)}
	if _, err := jsonfile.Load(s.Path, s); err != nil {
		return nil, err
	}
	if s.Templates == nil {
		s.Templates = make(map[string]time.Time)
	}
	return s, nil
}

// Save writes the state if a job ran since the last save. An in-memory state
// (no Path) is never written.
func (s *State) Save() error {
	if !s.dirty || s.Path == "" {
		return nil
	}
	if err := jsonfile.Save(s.Path, s); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

func (s *State) TemplateRun(key string) time.Time {
	return s.Templates[key]
}

func (s *State) markDigest(t time.Time) {
	s.LastDigest = t
	s.dirty = true
}

func (s *State) markDelayScan(t time.Time) {
	s.LastDelayScan = t
	s.dirty = true
}

func (s *State) markTemplate(key string, t time.Time) {
	s.Templates[key] = t
	s.dirty = true
}
