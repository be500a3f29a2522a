// Package index remembers which calendar event belongs to which task so a
// sync does not have to search the calendar every time.
package index

import (
	"path/filepath"
	"sync"

	"github.com/harrisonrobin/autoflow/pkg/jsonfile"
)

const indexFile = "events.json"

// EventIndex maps task IDs to calendar event IDs. It is safe for concurrent
// use; changes reach disk on Save.
type EventIndex struct {
	path string

	mu      sync.RWMutex
	events  map[string]string
	changed bool
}

// NewEventIndex opens the index kept in dir. A missing file is an empty index.
func NewEventIndex(dir string) (*EventIndex, error) {
	idx := &EventIndex{
		path:   filepath.Join(dir, indexFile),
		events: make(map[string]string),
	}
	if _, err := jsonfile.Load(idx.path, &idx.events); err != nil {
		return nil, err
	}
	if idx.events == nil {
		idx.events = make(map[string]string)
	}
	return idx, nil
}

// Path is where the index is stored.
func (idx *EventIndex) Path() string { return idx.path }

func (idx *EventIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.events)
}

// Get returns the event ID for taskID, or "".
func (idx *EventIndex) Get(taskID string) string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.events[taskID]
}

func (idx *EventIndex) Set(taskID, eventID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.events[taskID] == eventID {
		return
	}
	idx.events[taskID] = eventID
	idx.changed = true
}

func (idx *EventIndex) Remove(taskID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if _, ok := idx.events[taskID]; !ok {
		return
	}
	delete(idx.events, taskID)
	idx.changed = true
}

// Save persists the index when it changed since it was opened or last saved.
func (idx *EventIndex) Save() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if !idx.changed {
		return nil
	}
	if err := jsonfile.Save(idx.path, idx.events); err != nil {
		return err
	}
	idx.changed = false
	return nil
}
