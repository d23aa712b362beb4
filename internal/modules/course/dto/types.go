package dto

type CourseOutput struct {
	ID   string
	Name string
}
