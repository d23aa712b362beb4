package domain

import (
	"encoding/json"
	"strings"
)

// Course is the denormalized (id, name) pair carried alongside homework
// results. Ended courses are filtered out before aggregation.
type Course struct {
	ID    string
	Name  string
	Ended bool
}

// rawCourse tolerates the alias field names the platform uses
// interchangeably. Identifiers may arrive as numbers or strings.
type rawCourse struct {
	ID      json.RawMessage `json:"id"`
	AltID   json.RawMessage `json:"course_id"`
	Name    string          `json:"name"`
	AltName string          `json:"course_name"`
	IsEnd   bool            `json:"is_end"`
	IsEnded bool            `json:"is_ended"`
}

// Decode maps one raw course item into the canonical form. It never fails on
// missing fields; a course without any id is reported via ok=false so the
// caller can skip it.
func Decode(item json.RawMessage) (Course, bool) {
	var raw rawCourse
	if err := json.Unmarshal(item, &raw); err != nil {
		return Course{}, false
	}
	course := Course{
		Name:  raw.Name,
		Ended: raw.IsEnd || raw.IsEnded,
	}
	if course.Name == "" {
		course.Name = raw.AltName
	}
	for _, id := range []json.RawMessage{raw.ID, raw.AltID} {
		if len(id) == 0 || string(id) == "null" {
			continue
		}
		course.ID = strings.Trim(string(id), `"`)
		break
	}
	if course.ID == "" {
		return Course{}, false
	}
	return course, true
}

// Active filters out ended courses, preserving order.
func Active(courses []Course) []Course {
	active := make([]Course, 0, len(courses))
	for _, c := range courses {
		if !c.Ended {
			active = append(active, c)
		}
	}
	return active
}
