package entities

import "fmt"

// UnknownYear is the export's sentinel for an unknown or not-applicable year.
const UnknownYear int64 = -1

// Year converts an export year to a nullable value, mapping the unknown
// sentinel to nil.
func Year(v int64) *int64 {
	if v == UnknownYear {
		return nil
	}
	return &v
}

// DiagnosticKind classifies a non-fatal import problem.
type DiagnosticKind string

const (
	// DiagMalformedRecord marks a top-level element that closed without its
	// required fields; the record was discarded.
	DiagMalformedRecord DiagnosticKind = "malformed_record"
	// DiagDanglingReference marks a reference whose target ID never appeared
	// in any document of the run.
	DiagDanglingReference DiagnosticKind = "dangling_reference"
	// DiagConstraintViolation marks a row rejected at commit time; the rest
	// of its batch was written.
	DiagConstraintViolation DiagnosticKind = "constraint_violation"
)

// Diagnostic is one non-fatal problem recorded during an import run.
// Diagnostics accumulate into the final report; they never abort the run.
type Diagnostic struct {
	Kind     DiagnosticKind
	Record   Kind
	SourceID int64
	Detail   string
}

func (d Diagnostic) String() string {
	if d.SourceID != 0 || d.Record != "" {
		return fmt.Sprintf("%s: %s #%d: %s", d.Kind, d.Record, d.SourceID, d.Detail)
	}
	return fmt.Sprintf("%s: %s", d.Kind, d.Detail)
}
