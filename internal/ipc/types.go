package ipc

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents daemon and supervised process status.
type StatusResponse struct {
	Running       bool   `json:"running"`
	PID           int    `json:"pid"`
	Restarts      int    `json:"restarts"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	LastExit      string `json:"last_exit"`
	ConfigPath    string `json:"config_path"`
	EnvFile       string `json:"env_file"`
	LockPath      string `json:"lock_path"`
}

// StopRequest asks the daemon to stop supervising and exit.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}
