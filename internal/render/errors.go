package render

import "fmt"

// UnsupportedFeatureError reports that a backend's scene grammar cannot
// express a requested capability. It always surfaces to the caller; emitters
// never silently degrade.
type UnsupportedFeatureError struct {
	Backend string
	Feature string
}

func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("backend %q does not support %s", e.Backend, e.Feature)
}

// ConfigurationError reports a user-correctable setup problem, such as an
// unset renderer executable path. The message is meant to be shown verbatim.
type ConfigurationError struct {
	Backend string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("backend %q: %s", e.Backend, e.Reason)
}

// PreconditionError reports input that violates an emitter precondition,
// such as a zero-length sun direction.
type PreconditionError struct {
	Op     string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}
