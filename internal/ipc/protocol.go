package ipc

// Command names understood by the daemon.
const (
	CommandStatus = "status"
	CommandStart  = "start"
	CommandStop   = "stop"
	CommandToggle = "toggle"
	CommandReload = "reload"
)

// Request is one newline-delimited JSON command sent to the daemon.
type Request struct {
	Command string `json:"command"`
}

// Response is the daemon's newline-delimited JSON reply.
type Response struct {
	OK      bool   `json:"ok"`
	State   string `json:"state,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// IsControlCommand reports whether name is forwarded to a running daemon.
func IsControlCommand(name string) bool {
	switch name {
	case CommandStatus, CommandStart, CommandStop, CommandToggle, CommandReload:
		return true
	default:
		return false
	}
}
