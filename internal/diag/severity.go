package diag

// Severity orders diagnostics; only SevError stops a run.
type Severity uint8

const (
	SevInfo Severity = iota
	// SevWarning is reserved; the meta program treats anything suspicious as an error.
	SevWarning
	SevError
)

var severityNames = [...]string{
	SevInfo:    "info",
	SevWarning: "warning",
	SevError:   "error",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "unknown"
}

// IsError reports whether s stops a run.
func (s Severity) IsError() bool { return s >= SevError }
