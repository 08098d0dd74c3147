package camera

import "fmt"

// FormatError reports malformed or incomplete camera text. Field names the
// offending field so the caller can fix the input.
type FormatError struct {
	Field  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid camera string: field %q: %s", e.Field, e.Reason)
}

// InvalidEnumError reports a value outside a fixed enumeration. It is raised
// defensively before serialization, as the last validation gate before data
// leaves in textual form.
type InvalidEnumError struct {
	Field string
	Value string
}

func (e *InvalidEnumError) Error() string {
	return fmt.Sprintf("invalid %s value %q", e.Field, e.Value)
}
