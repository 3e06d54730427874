package model

// LogEntry is a read-only group log record. Entries are keyed by
// (groupid, created_at); created_at doubles as the sort key.
type LogEntry struct {
	GroupID   string `json:"groupid"`
	CreatedAt string `json:"created_at"`
	UserID    string `json:"userid"`
	Username  string `json:"username"`
	Type      string `json:"type"`
	Message   string `json:"message"`
}

// Log entry types.
const (
	LogTypeInfo  = "INFO"
	LogTypeWarn  = "WARN"
	LogTypeError = "ERROR"
)

// LogTypes lists the valid log entry types in display order.
var LogTypes = []string{LogTypeInfo, LogTypeWarn, LogTypeError}

// ValidLogType reports whether t is a known log entry type.
func ValidLogType(t string) bool {
	for _, v := range LogTypes {
		if t == v {
			return true
		}
	}
	return false
}
