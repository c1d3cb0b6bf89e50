// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reporter

import (
	"errors"
	"fmt"
	"strings"
)

// errNoEntries signals a list parameter that parsed to zero usable
// entries.
var errNoEntries = errors.New("no valid entries found after parsing")

// ValidationError reports malformed caller input. Field names the
// parameter as shown to the user (e.g. "fiscal years format"), Input
// carries the raw value, and Hint tells the caller how to fix it. The
// message always starts with "Invalid" and is produced before any request
// is sent.
type ValidationError struct {
	Field string
	Input string
	Hint  string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("Invalid " + e.Field)
	if e.Input != "" {
		fmt.Fprintf(&b, ": %q", e.Input)
	}
	if e.Hint != "" {
		b.WriteString(". " + e.Hint)
	}
	return b.String()
}

// FormatError reports result data that could not be rendered, such as a
// missing result envelope.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string { return "formatting results: " + e.Reason }
