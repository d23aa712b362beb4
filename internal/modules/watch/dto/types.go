package dto

type DaemonStatus struct {
	Running bool
	PID     int
	LogPath string
}
