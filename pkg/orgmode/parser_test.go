package orgmode

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrisonrobin/autoflow/pkg/model"
)

const sample = `#+TITLE: work
* TODO [#A] Ship release :work:ops:
  DEADLINE: <2024-06-10 Mon 15:30>
  :PROPERTIES:
  :ID: 1b2c3d4e-0000-4000-8000-000000000001
  :END:
** DOING [#B] Review PR
   DEADLINE: <2024-06-11 Tue>
* WAIT Vendor reply
* DONE [#C] Old thing :work:
* Notes without keyword
  DEADLINE: <2024-06-12 Wed>
`

func TestParse(t *testing.T) {
	headings, err := Parse(strings.NewReader(sample), "work.org", "u1", time.UTC)
	require.NoError(t, err)
	require.Len(t, headings, 4)

	first := headings[0].Task
	assert.Equal(t, "Ship release", first.Title)
	assert.Equal(t, model.PriorityUrgent, first.Priority)
	assert.Equal(t, model.StatusTodo, first.Status)
	assert.Equal(t, "1b2c3d4e-0000-4000-8000-000000000001", first.ID)
	assert.Equal(t, "u1", first.OwnerID)
	due, ok := first.Due()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 6, 10, 15, 30, 0, 0, time.UTC), due)
	assert.Equal(t, []string{"work", "ops"}, headings[0].Tags)

	review := headings[1].Task
	assert.Equal(t, model.StatusInProgress, review.Status)
	assert.Equal(t, model.PriorityHigh, review.Priority)
	due, ok = review.Due()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC), due)
	assert.NotEmpty(t, review.ID)

	assert.Equal(t, model.StatusBlocked, headings[2].Task.Status)
	assert.Equal(t, model.PriorityLow, headings[2].Task.Priority)
	assert.Nil(t, headings[2].Task.DueAt)

	assert.Equal(t, model.StatusDone, headings[3].Task.Status)
	assert.Equal(t, model.PriorityMedium, headings[3].Task.Priority)
}

func TestParseStableIDs(t *testing.T) {
	a, err := Parse(strings.NewReader(sample), "work.org", "u1", time.UTC)
	require.NoError(t, err)
	b, err := Parse(strings.NewReader(sample), "work.org", "u1", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, a[1].Task.ID, b[1].Task.ID)

	c, err := Parse(strings.NewReader(sample), "other.org", "u1", time.UTC)
	require.NoError(t, err)
	assert.NotEqual(t, a[1].Task.ID, c[1].Task.ID)
}

func TestFilterTag(t *testing.T) {
	headings, err := Parse(strings.NewReader(sample), "work.org", "u1", time.UTC)
	require.NoError(t, err)
	assert.Len(t, FilterTag(headings, "work"), 2)
	assert.Len(t, FilterTag(headings, "ops"), 1)
	assert.Len(t, FilterTag(headings, ""), 4)
	assert.Len(t, Tasks(FilterTag(headings, "none")), 0)
}
