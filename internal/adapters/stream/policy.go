package stream

import (
	"fmt"
	"strings"
)

// Policy decides what happens to a row whose trailing fields ran past the
// end of input.
type Policy uint8

const (
	// PolicyZeroFill scores the row with the missing fields left at zero.
	PolicyZeroFill Policy = iota
	// PolicyDrop emits nothing for the row and ends the stream cleanly.
	PolicyDrop
	// PolicyStrict ends the stream with ErrTruncatedRow.
	PolicyStrict
)

var policyNames = [...]string{
	PolicyZeroFill: "zero_fill",
	PolicyDrop:     "drop",
	PolicyStrict:   "strict",
}

func (p Policy) String() string {
	if int(p) < len(policyNames) {
		return policyNames[p]
	}
	return fmt.Sprintf("policy(%d)", p)
}

// ParsePolicy maps a configured name to a Policy. An empty name selects
// PolicyZeroFill.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "zero_fill", "zerofill":
		return PolicyZeroFill, nil
	case "drop":
		return PolicyDrop, nil
	case "strict":
		return PolicyStrict, nil
	default:
		return PolicyZeroFill, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}
