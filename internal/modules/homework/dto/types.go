package dto

import "time"

type HomeworkOutput struct {
	ID         string
	Title      string
	CourseID   string
	CourseName string
	Deadline   *time.Time
	StartTime  *time.Time
	Status     string
	Score      *float64
	Kind       string
	URL        string
	Urgent     bool
}

type CourseRefOutput struct {
	ID   string
	Name string
}

type SnapshotOutput struct {
	Homeworks []HomeworkOutput
	Courses   []CourseRefOutput
	UpdatedAt time.Time
	FromCache bool
}

type ListInput struct {
	Refresh  bool
	Status   string // all|urgent|pending|done
	CourseID string
}

type StatsOutput struct {
	Total   int
	Urgent  int
	Pending int
	Done    int
}
