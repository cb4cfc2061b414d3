package diag

import (
	"encoding/json"
	"fmt"
)

// Severity classifies how serious a diagnostic is. Errors break execution
// at runtime, warnings flag style or performance risk, info entries are
// advisory only.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

// String returns the wire name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// MarshalJSON encodes the severity as its wire name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a severity from its wire name.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return fmt.Errorf("unknown severity %q", name)
	}
	return nil
}

// Diagnostic is a single validation finding with a stable code. The
// optional context fields are empty when they do not apply.
type Diagnostic struct {
	Code      string   `json:"code"`
	Message   string   `json:"message"`
	Severity  Severity `json:"severity"`
	Line      int      `json:"line,omitempty"`
	NodeType  string   `json:"node_type,omitempty"`
	NodeID    string   `json:"node_id,omitempty"`
	Parameter string   `json:"parameter,omitempty"`
}

// New returns a Diagnostic for code carrying its cataloged severity.
// Callers fill in the optional context fields afterwards.
func New(code, message string) Diagnostic {
	return Diagnostic{
		Code:     code,
		Message:  message,
		Severity: SeverityFor(code),
	}
}

// Newf is New with fmt.Sprintf formatting of the message.
func Newf(code, format string, args ...any) Diagnostic {
	return New(code, fmt.Sprintf(format, args...))
}
