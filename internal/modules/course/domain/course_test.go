package domain_test

import (
	"encoding/json"
	"testing"

	"ykwatch/internal/modules/course/domain"
)

func TestDecodeAliasFields(t *testing.T) {
	t.Parallel()
	course, ok := domain.Decode(json.RawMessage(`{"course_id": 42, "course_name": "Networks"}`))
	if !ok {
		t.Fatalf("alias fields should decode")
	}
	if course.ID != "42" || course.Name != "Networks" {
		t.Fatalf("unexpected course: %+v", course)
	}

	course, ok = domain.Decode(json.RawMessage(`{"id": "abc", "name": "Compilers", "is_end": true}`))
	if !ok || course.ID != "abc" || !course.Ended {
		t.Fatalf("canonical fields should decode: %+v", course)
	}
}

func TestDecodeSkipsItemsWithoutID(t *testing.T) {
	t.Parallel()
	if _, ok := domain.Decode(json.RawMessage(`{"name": "orphan"}`)); ok {
		t.Fatalf("a course without any id must be skipped")
	}
	if _, ok := domain.Decode(json.RawMessage(`"not an object"`)); ok {
		t.Fatalf("a non-object item must be skipped")
	}
}

func TestActiveFiltersEndedCourses(t *testing.T) {
	t.Parallel()
	active := domain.Active([]domain.Course{
		{ID: "1", Name: "A"},
		{ID: "2", Name: "B", Ended: true},
		{ID: "3", Name: "C"},
	})
	if len(active) != 2 {
		t.Fatalf("expected 2 active courses, got %d", len(active))
	}
	if active[0].ID != "1" || active[1].ID != "3" {
		t.Fatalf("order must be preserved: %+v", active)
	}
}
