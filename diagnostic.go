package pdfrules

import "log/slog"

// Diagnostic records a problem found while applying one rule. Diagnostics
// never abort extraction of sibling fields.
type Diagnostic struct {
	// Field is the field name of the rule. Empty for rule-set diagnostics.
	Field string
	// Kind is "header" or "item".
	Kind string
	// Code is one of EPATTERN, EGROUP, ENOMATCH or ENORULES.
	Code    string
	Message string
}

// Level returns the log level the diagnostic should be reported at.
func (d Diagnostic) Level() slog.Level {
	switch d.Code {
	case ENOMATCH, ENORULES:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
