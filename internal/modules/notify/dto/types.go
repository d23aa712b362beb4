package dto

type NotifyOutput struct {
	Sent  bool
	Count int
	Title string
	Body  string
}
