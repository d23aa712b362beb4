package domain

import (
	"fmt"
	"time"

	homeworkdomain "ykwatch/internal/modules/homework/domain"
)

// maxLines caps the notification body; everything past it is folded into a
// single "+N more" line so the toast stays readable.
const maxLines = 3

// Notification is a rendered desktop alert.
type Notification struct {
	Title string
	Body  string
}

// SelectUrgent picks the records worth an alert: still actionable, deadline
// known, and due within the window but not yet past. The result is ordered by
// deadline ascending so the most pressing item leads the notification.
func SelectUrgent(items []homeworkdomain.Homework, now time.Time, window time.Duration) []homeworkdomain.Homework {
	var urgent []homeworkdomain.Homework
	for _, hw := range items {
		if homeworkdomain.Urgent(hw, now, window) {
			urgent = append(urgent, hw)
		}
	}
	homeworkdomain.SortByUrgency(urgent, now)
	return urgent
}

// Build renders the alert for a set of urgent records. ok is false when
// there is nothing to say; callers must not send an empty notification.
func Build(urgent []homeworkdomain.Homework, now time.Time) (Notification, bool) {
	if len(urgent) == 0 {
		return Notification{}, false
	}

	title := fmt.Sprintf("%d deadlines approaching", len(urgent))
	if len(urgent) == 1 {
		title = "1 deadline approaching"
	}

	body := ""
	shown := len(urgent)
	if shown > maxLines {
		shown = maxLines
	}
	for _, hw := range urgent[:shown] {
		body += fmt.Sprintf("• %s (due in %dh)\n", hw.Title, hoursLeft(*hw.Deadline, now))
	}
	if rest := len(urgent) - shown; rest > 0 {
		body += fmt.Sprintf("+%d more\n", rest)
	}
	return Notification{Title: title, Body: body}, true
}

// hoursLeft rounds up, so anything under an hour still reads "due in 1h"
// rather than a misleading "0h".
func hoursLeft(deadline, now time.Time) int {
	left := deadline.Sub(now)
	hours := int(left / time.Hour)
	if left%time.Hour > 0 {
		hours++
	}
	return hours
}
