package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/harrisonrobin/autoflow/pkg/digest"
	"github.com/harrisonrobin/autoflow/pkg/model"
)

const (
	sectionLimit = 5
	delayedLimit = 3

	digestHeader = "*📋 AutoFlow 데일리 브리핑*"
	nothingDue   = "✅ 긴급하거나 임박한 업무가 없습니다."
)

// FormatChatDigest renders d as a chat message: a header, the summary line,
// then the urgent, today, three-day and delayed sections. Each section lists
// at most its limit and ends with "... 외 N건" when cut. Delayed tasks already
// listed under urgent are not repeated.
func FormatChatDigest(d digest.Digest) string {
	loc := d.GeneratedAt.Location()

	var b strings.Builder
	b.WriteString(digestHeader)
	b.WriteString("\n")
	b.WriteString(d.Summary)
	b.WriteString("\n")

	shown := writeSection(&b, "🚨 긴급 업무", d.UrgentTasks, sectionLimit, loc)
	writeSection(&b, "📅 오늘 마감", d.TodayTasks, sectionLimit, loc)
	writeSection(&b, "⏰ 3일 이내 마감", d.ThreeDayTasks, sectionLimit, loc)

	if len(d.UrgentTasks) == 0 && len(d.TodayTasks) == 0 && len(d.ThreeDayTasks) == 0 {
		b.WriteString("\n")
		b.WriteString(nothingDue)
		b.WriteString("\n")
	}

	var delayed []model.Task
	for _, t := range d.DelayedTasks {
		if !shown[t.ID] {
			delayed = append(delayed, t)
		}
	}
	writeSection(&b, "⚠️ 지연 업무", delayed, delayedLimit, loc)

	return strings.TrimRight(b.String(), "\n")
}

// FormatDelayLine renders the short chat line sent after a delay scan.
func FormatDelayLine(delayedCount int) string {
	return fmt.Sprintf("⚠️ 지연 감지: 마감이 지난 미완료 업무 %d건이 있습니다.", delayedCount)
}

// writeSection writes one bucket and returns the IDs it listed.
func writeSection(b *strings.Builder, title string, tasks []model.Task, limit int, loc *time.Location) map[string]bool {
	shown := make(map[string]bool, limit)
	if len(tasks) == 0 {
		return shown
	}
	fmt.Fprintf(b, "\n*%s (%d건)*\n", title, len(tasks))
	for i, t := range tasks {
		if i == limit {
			fmt.Fprintf(b, "... 외 %d건\n", len(tasks)-limit)
			break
		}
		shown[t.ID] = true
		b.WriteString("• ")
		b.WriteString(t.Title)
		if due, ok := t.Due(); ok {
			b.WriteString(" (")
			b.WriteString(due.In(loc).Format("01/02 15:04"))
			b.WriteString(")")
		}
		b.WriteString("\n")
	}
	return shown
}
