// Package orgmode imports Org-mode TODO headings as tasks.
package orgmode

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harrisonrobin/autoflow/pkg/model"
)

var (
	headingRegex  = regexp.MustCompile(`^\*+\s+(TODO|DOING|WAIT|DONE)\s+(?:\[#([A-Z])\]\s*)?(.*?)(?:\s+(:[\w@]+(?::[\w@]+)*:))?\s*$`)
	deadlineRegex = regexp.MustCompile(`DEADLINE:\s+<(\d{4}-\d{2}-\d{2})(?:\s+[^\s>\d]+)?(?:\s+(\d{1,2}:\d{2}))?[^>]*>`)
	idRegex       = regexp.MustCompile(`^:ID:\s+(\S+)`)
	anyHeading    = regexp.MustCompile(`^\*+\s`)
)

// importNamespace derives stable IDs for headings that carry no :ID: property.
var importNamespace = uuid.MustParse("6f1f3b9e-2f7c-4e0e-9d55-1c0a7b2d4e11")

var keywordStatus = map[string]model.Status{
	"TODO":  model.StatusTodo,
	"DOING": model.StatusInProgress,
	"WAIT":  model.StatusBlocked,
	"DONE":  model.StatusDone,
}

var cookiePriority = map[string]model.Priority{
	"A": model.PriorityUrgent,
	"B": model.PriorityHigh,
	"C": model.PriorityMedium,
}

// Heading is a parsed TODO heading. Tags are kept for filtering.
type Heading struct {
	Task model.Task
	Tags []string
}

// ParseFiles parses multiple Org-mode files for ownerID.
func ParseFiles(filePaths []string, ownerID string, loc *time.Location) ([]Heading, error) {
	var all []Heading
	for _, filePath := range filePaths {
		file, err := os.Open(filePath)
		if err != nil {
			return nil, err
		}
		headings, err := Parse(file, filePath, ownerID, loc)
		file.Close()
		if err != nil {
			return nil, err
		}
		all = append(all, headings...)
	}
	return all, nil
}

// Parse reads TODO headings from r. Deadlines without a time are due at the
// start of that day in loc.
func Parse(r io.Reader, source, ownerID string, loc *time.Location) ([]Heading, error) {
	if loc == nil {
		loc = time.Local
	}
	scanner := bufio.NewScanner(r)
	var headings []Heading
	var current *Heading

	flush := func() {
		if current == nil || current.Task.Title == "" {
			current = nil
			return
		}
		if current.Task.ID == "" {
			current.Task.ID = uuid.NewSHA1(importNamespace, []byte(source+"\x00"+current.Task.Title)).String()
		}
		headings = append(headings, *current)
		current = nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if anyHeading.MatchString(line) {
			flush()
			m := headingRegex.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			prio, ok := cookiePriority[m[2]]
			if !ok {
				prio = model.PriorityLow
			}
			current = &Heading{Task: model.Task{
				Title:    strings.TrimSpace(m[3]),
				Status:   keywordStatus[m[1]],
				Priority: prio,
				OwnerID:  ownerID,
			}}
			if m[4] != "" {
				current.Tags = strings.Split(strings.Trim(m[4], ":"), ":")
			}
			continue
		}
		if current == nil {
			continue
		}

		if m := deadlineRegex.FindStringSubmatch(line); m != nil {
			value, layout := m[1], "2006-01-02"
			if m[2] != "" {
				value, layout = m[1]+" "+m[2], "2006-01-02 15:04"
			}
			if due, err := time.ParseInLocation(layout, value, loc); err == nil {
				current.Task.DueAt = model.NewDueTime(due)
			}
		} else if m := idRegex.FindStringSubmatch(line); m != nil {
			current.Task.ID = m[1]
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return headings, nil
}

// Tasks drops the tags.
func Tasks(headings []Heading) []model.Task {
	tasks := make([]model.Task, 0, len(headings))
	for _, h := range headings {
		tasks = append(tasks, h.Task)
	}
	return tasks
}

// FilterTag keeps the headings tagged with tag. An empty tag keeps all.
func FilterTag(headings []Heading, tag string) []Heading {
	if tag == "" {
		return headings
	}
	var filtered []Heading
	for _, h := range headings {
		for _, t := range h.Tags {
			if t == tag {
				filtered = append(filtered, h)
				break
			}
		}
	}
	return filtered
}
