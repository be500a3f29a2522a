package automation

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harrisonrobin/autoflow/pkg/model"
	"github.com/harrisonrobin/autoflow/pkg/notify"
	"github.com/harrisonrobin/autoflow/pkg/priority"
)

const (
	suggestionWindow = 48 * time.Hour
	suggestionLimit  = 3
)

// RankedTask is an incomplete task with its priority and reminder cadence
// as of the call.
type RankedTask struct {
	model.Task
	EffectivePriority model.Priority   `json:"effectivePriority"`
	Cadence           priority.Cadence `json:"cadence"`
	Overdue           bool             `json:"overdue"`
}

// PriorityView lists the owner's incomplete tasks from urgent to low, then by
// due date with undated tasks last.
func (s *Service) PriorityView(ctx context.Context, ownerID string) ([]RankedTask, error) {
	now := s.Now()
	tasks, err := s.tasks.FetchTasks(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}
	ranked := make([]RankedTask, 0, len(tasks))
	for _, t := range tasks {
		if t.Status.IsDone() {
			continue
		}
		ranked = append(ranked, RankedTask{
			Task:              t,
			EffectivePriority: priority.Classify(t, now),
			Cadence:           priority.CadenceFor(t, now),
			Overdue:           priority.IsOverdue(t, now),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		ri, rj := ranked[i].EffectivePriority.Rank(), ranked[j].EffectivePriority.Rank()
		if ri != rj {
			return ri > rj
		}
		di, iok := ranked[i].Due()
		dj, jok := ranked[j].Due()
		if iok != jok {
			return iok
		}
		return iok && di.Before(dj)
	})
	return ranked, nil
}

// Suggestion is the outcome of SuggestNextActions.
type Suggestion struct {
	Tasks    []model.Task  `json:"tasks"`
	Message  string        `json:"message,omitempty"`
	Delivery notify.Report `json:"delivery"`
}

// SuggestNextActions picks up to three incomplete tasks due within the next
// 48 hours, soonest first, and records them as one suggestion alert.
func (s *Service) SuggestNextActions(ctx context.Context, ownerID string) (Suggestion, error) {
	now := s.Now()
	tasks, err := s.tasks.FetchTasks(ctx, ownerID)
	if err != nil {
		return Suggestion{}, fmt.Errorf("failed to fetch tasks: %w", err)
	}
	var picks []model.Task
	for _, t := range tasks {
		if !t.Status.IsDone() && priority.DueWithin(t, now, suggestionWindow) {
			picks = append(picks, t)
		}
	}
	sort.SliceStable(picks, func(i, j int) bool {
		di, _ := picks[i].Due()
		dj, _ := picks[j].Due()
		return di.Before(dj)
	})
	if len(picks) > suggestionLimit {
		picks = picks[:suggestionLimit]
	}

	out := Suggestion{Tasks: picks}
	if len(picks) == 0 {
		out.Tasks = []model.Task{}
		return out, nil
	}
	titles := make([]string, len(picks))
	for i, t := range picks {
		titles[i] = t.Title
	}
	out.Message = fmt.Sprintf("미완료 업무 중 가장 지연 위험 높은 %d건 확인: %s", len(picks), strings.Join(titles, ", "))
	out.Delivery = s.dispatcher.DispatchSuggestion(ctx, out.Message, notify.Options{OwnerID: ownerID, Settings: s.settings, Now: now})
	return out, nil
}
