package domain

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusLate      Status = "late"
	StatusSubmitted Status = "submitted"
	StatusExpired   Status = "expired"
)

type Kind string

const (
	KindHomework Kind = "homework"
	KindExam     Kind = "exam"
)

// Homework is the canonical record after normalization. Deadline and Score
// stay nullable: the platform omits both freely, and a missing deadline
// means the item never expires.
type Homework struct {
	ID         string
	Title      string
	CourseID   string
	CourseName string
	Deadline   *time.Time
	StartTime  *time.Time
	Status     Status
	Score      *float64
	Kind       Kind
	URL        string
}

// CourseRef is the denormalized (id, name) pair stored with a snapshot.
type CourseRef struct {
	ID   string
	Name string
}

// Snapshot is the cached aggregation result, replaced wholesale on every
// successful refresh. Staleness is surfaced only through UpdatedAt.
type Snapshot struct {
	Homeworks []Homework
	Courses   []CourseRef
	UpdatedAt time.Time
}

// RawFlags is the alias-resolved classification input, separated from the
// display fields so Classify stays a pure function of exactly what it needs.
type RawFlags struct {
	Submitted bool
	RawStatus string
	Deadline  *time.Time
	AllowLate bool
}

// rawHomework lists every alias field name the platform is known to use.
// Precedence is fixed as first-listed-wins; the true upstream precedence is
// undocumented, so this order is an assumption.
type rawHomework struct {
	ID             json.RawMessage `json:"id"`
	HomeworkID     json.RawMessage `json:"homework_id"`
	Title          string          `json:"title"`
	Name           string          `json:"name"`
	HomeworkName   string          `json:"homework_name"`
	Deadline       json.RawMessage `json:"deadline"`
	EndTime        json.RawMessage `json:"end_time"`
	SubmitDeadline json.RawMessage `json:"submit_deadline"`
	DeadlineTime   json.RawMessage `json:"deadline_time"`
	StartTime      json.RawMessage `json:"start_time"`
	PublishTime    json.RawMessage `json:"publish_time"`
	IsSubmitted    bool            `json:"is_submitted"`
	Submitted      bool            `json:"submitted"`
	Done           bool            `json:"done"`
	AllowLate      bool            `json:"allow_late"`
	LateSubmission bool            `json:"late_submission"`
	Status         string          `json:"status"`
	Score          *float64        `json:"score"`
	StudentScore   *float64        `json:"student_score"`
	Type           string          `json:"type"`
}

// Normalize maps one raw homework item onto the canonical record, minus the
// status (classified separately against an explicit instant). ok is false
// only when the item is not a JSON object at all.
func Normalize(item json.RawMessage, course CourseRef, baseURL string) (Homework, RawFlags, bool) {
	var raw rawHomework
	if err := json.Unmarshal(item, &raw); err != nil {
		return Homework{}, RawFlags{}, false
	}

	hw := Homework{
		ID:         firstIdentifier(raw.ID, raw.HomeworkID),
		Title:      firstNonEmpty(raw.Title, raw.Name, raw.HomeworkName),
		CourseID:   course.ID,
		CourseName: course.Name,
		Deadline:   firstTimestamp(raw.Deadline, raw.EndTime, raw.SubmitDeadline, raw.DeadlineTime),
		StartTime:  firstTimestamp(raw.StartTime, raw.PublishTime),
		Score:      raw.Score,
		Kind:       KindHomework,
	}
	if hw.Score == nil {
		hw.Score = raw.StudentScore
	}
	if strings.Contains(raw.Type, "exam") {
		hw.Kind = KindExam
	}
	if hw.ID != "" {
		hw.URL = baseURL + "/v2/web/homework/" + hw.ID
	}

	flags := RawFlags{
		Submitted: raw.IsSubmitted || raw.Submitted || raw.Done,
		RawStatus: raw.Status,
		Deadline:  hw.Deadline,
		AllowLate: raw.AllowLate || raw.LateSubmission,
	}
	return hw, flags, true
}

// Classify decides the status from the raw flags and an explicit "now".
// The checks run in strict order and the first match wins, so a record can
// never come out both submitted and expired: submission evidence beats
// everything else.
func Classify(raw RawFlags, now time.Time) Status {
	if raw.Submitted || raw.RawStatus == "submitted" || raw.RawStatus == "done" {
		return StatusSubmitted
	}
	switch raw.RawStatus {
	case "expired", "ended", "closed":
		return StatusExpired
	}
	if raw.Deadline != nil && raw.Deadline.Before(now) {
		if raw.AllowLate {
			return StatusLate
		}
		return StatusExpired
	}
	return StatusPending
}

// SortByUrgency orders records so the closest not-yet-due items come first:
// primary key "already past deadline" (a missing deadline never counts as
// past), secondary key deadline ascending with missing deadlines last. The
// sort is stable, so equal keys keep their merge order and repeated runs
// over identical input produce identical output.
func SortByUrgency(items []Homework, now time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		pastI, pastJ := pastDeadline(items[i], now), pastDeadline(items[j], now)
		if pastI != pastJ {
			return !pastI
		}
		di, dj := items[i].Deadline, items[j].Deadline
		switch {
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return di.Before(*dj)
		}
	})
}

// Urgent reports whether a record needs attention within the window: still
// actionable (pending or late), has a deadline, and that deadline is in the
// future but closer than the window.
func Urgent(hw Homework, now time.Time, window time.Duration) bool {
	if hw.Status != StatusPending && hw.Status != StatusLate {
		return false
	}
	if hw.Deadline == nil {
		return false
	}
	left := hw.Deadline.Sub(now)
	return left > 0 && left < window
}

// Stats are the popup-style counters. Expired and past-deadline records are
// excluded from all four buckets.
type Stats struct {
	Total   int
	Urgent  int
	Pending int
	Done    int
}

func ComputeStats(items []Homework, now time.Time, window time.Duration) Stats {
	var stats Stats
	for _, hw := range items {
		if hw.Status == StatusExpired || pastDeadline(hw, now) {
			continue
		}
		stats.Total++
		switch hw.Status {
		case StatusSubmitted:
			stats.Done++
		case StatusPending, StatusLate:
			stats.Pending++
			if Urgent(hw, now, window) {
				stats.Urgent++
			}
		}
	}
	return stats
}

func pastDeadline(hw Homework, now time.Time) bool {
	return hw.Deadline != nil && hw.Deadline.Before(now)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstIdentifier(values ...json.RawMessage) string {
	for _, raw := range values {
		if len(raw) == 0 || string(raw) == "null" {
			continue
		}
		return strings.Trim(string(raw), `"`)
	}
	return ""
}

func firstTimestamp(values ...json.RawMessage) *time.Time {
	for _, raw := range values {
		if t := decodeTimestamp(raw); t != nil {
			return t
		}
	}
	return nil
}

// decodeTimestamp accepts the two wire formats the platform mixes: epoch
// milliseconds as a JSON number, or a datetime string (RFC 3339 or the
// "2006-01-02 15:04:05" form).
func decodeTimestamp(raw json.RawMessage) *time.Time {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	text := strings.Trim(string(raw), `"`)
	if text == "" {
		return nil
	}
	if ms, err := strconv.ParseInt(text, 10, 64); err == nil {
		t := time.UnixMilli(ms)
		return &t
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, text); err == nil {
			return &t
		}
	}
	return nil
}
