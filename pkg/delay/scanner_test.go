package delay

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/harrisonrobin/autoflow/pkg/model"
)

var now = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

type fakeFetcher struct {
	tasks []model.Task
	err   error
	owner string
}

func (f *fakeFetcher) FetchTasks(_ context.Context, ownerID string) ([]model.Task, error) {
	f.owner = ownerID
	return f.tasks, f.err
}

type fakeSink struct {
	got    []model.AlertInput
	failOn string
}

func (s *fakeSink) PersistAlert(_ context.Context, in model.AlertInput) (string, error) {
	if in.TaskID == s.failOn {
		return "", errors.New("write failed")
	}
	s.got = append(s.got, in)
	return "a-" + in.TaskID, nil
}

func task(id string, st model.Status, due *time.Time) model.Task {
	t := model.Task{ID: id, Title: "title " + id, Status: st, OwnerID: "owner-" + id}
	if due != nil {
		t = t.WithDue(*due)
	}
	return t
}

func at(d time.Duration) *time.Time {
	t := now.Add(d)
	return &t
}

func TestScan(t *testing.T) {
	tasks := []model.Task{
		task("overdue", model.StatusTodo, at(-50*time.Hour)),
		task("blocked", model.StatusBlocked, at(-time.Minute)),
		task("done", model.StatusDone, at(-72*time.Hour)),
		task("exact", model.StatusInProgress, at(0)),
		task("future", model.StatusTodo, at(time.Hour)),
		task("nodue", model.StatusTodo, nil),
		{ID: "bad", Status: model.StatusTodo, DueAt: model.ParseDueTime("garbage", time.UTC)},
	}

	res := Scan(tasks, now)
	require.Equal(t, 2, res.DelayedCount)
	require.Len(t, res.Alerts, 2)

	assert.Equal(t, "overdue", res.Alerts[0].TaskID)
	assert.Equal(t, "owner-overdue", res.Alerts[0].OwnerID)
	assert.Equal(t, model.AlertDelay, res.Alerts[0].Type)
	assert.Equal(t, "지연 감지: 'title overdue'가 2일 지연되었습니다.", res.Alerts[0].Message)
	assert.Equal(t, "blocked", res.Alerts[1].TaskID)
	assert.Contains(t, res.Alerts[1].Message, "0일")
}

func TestScanEmpty(t *testing.T) {
	res := Scan(nil, now)
	assert.Equal(t, 0, res.DelayedCount)
	assert.Empty(t, res.Alerts)
}

func TestScannerRunContinuesAfterSinkFailure(t *testing.T) {
	fetcher := &fakeFetcher{tasks: []model.Task{
		task("a", model.StatusTodo, at(-time.Hour)),
		task("b", model.StatusTodo, at(-time.Hour)),
		task("c", model.StatusTodo, at(-time.Hour)),
	}}
	sink := &fakeSink{failOn: "b"}
	s := NewScanner(fetcher, sink, zap.NewNop())

	res, err := s.Run(context.Background(), "owner-1", now)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", fetcher.owner)
	assert.Equal(t, 3, res.DelayedCount)
	assert.Equal(t, 2, res.Persisted)
	require.Len(t, sink.got, 2)
	assert.Equal(t, "a", sink.got[0].TaskID)
	assert.Equal(t, "c", sink.got[1].TaskID)
}

func TestScannerRunFetchFailure(t *testing.T) {
	fetchErr := errors.New("store unavailable")
	s := NewScanner(&fakeFetcher{err: fetchErr}, &fakeSink{}, nil)

	_, err := s.Run(context.Background(), "", now)
	assert.ErrorIs(t, err, fetchErr)
}
