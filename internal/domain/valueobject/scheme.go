package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// Scheme – immutable value object
// ---------------------------------------------------------------------------

// Scheme is the repayment shape of a debt.
type Scheme struct {
	value string
}

const (
	schemeSingle    = "SINGLE"
	schemeFixed     = "FIXED_SCHEDULE"
	schemeRecurring = "RECURRING_OPEN_ENDED"
)

var (
	SchemeSingle    = Scheme{value: schemeSingle}
	SchemeFixed     = Scheme{value: schemeFixed}
	SchemeRecurring = Scheme{value: schemeRecurring}
)

var validSchemes = map[string]Scheme{
	schemeSingle:    SchemeSingle,
	schemeFixed:     SchemeFixed,
	schemeRecurring: SchemeRecurring,
}

// NewScheme creates a Scheme from a raw string.
func NewScheme(s string) (Scheme, error) {
	v, ok := validSchemes[s]
	if !ok {
		return Scheme{}, fmt.Errorf("invalid scheme: %q", s)
	}
	return v, nil
}

func (s Scheme) String() string { return s.value }

// IsZero returns true if the scheme has not been initialised.
func (s Scheme) IsZero() bool { return s.value == "" }

func (s Scheme) IsSingle() bool    { return s == SchemeSingle }
func (s Scheme) IsFixed() bool     { return s == SchemeFixed }
func (s Scheme) IsRecurring() bool { return s == SchemeRecurring }

// ---------------------------------------------------------------------------
// RecurringReason – immutable value object
// ---------------------------------------------------------------------------

// RecurringReason explains why a recurring debt has no end date.
type RecurringReason struct {
	value string
}

const (
	reasonProcessEnd = "PROCESS_END"
	reasonDecision   = "DECISION_BASED"
)

var (
	// RecurringUntilProcessEnd runs until an external process (a lawsuit, a sale) concludes.
	RecurringUntilProcessEnd = RecurringReason{value: reasonProcessEnd}
	// RecurringUntilDecision runs until the creditor decides to stop it.
	RecurringUntilDecision = RecurringReason{value: reasonDecision}
)

// NewRecurringReason parses a reason. The empty string yields the zero value,
// which only non-recurring debts carry.
func NewRecurringReason(s string) (RecurringReason, error) {
	switch s {
	case "":
		return RecurringReason{}, nil
	case reasonProcessEnd:
		return RecurringUntilProcessEnd, nil
	case reasonDecision:
		return RecurringUntilDecision, nil
	default:
		return RecurringReason{}, fmt.Errorf("invalid recurring reason: %q", s)
	}
}

func (r RecurringReason) String() string { return r.value }

// IsZero returns true when no reason is set.
func (r RecurringReason) IsZero() bool { return r.value == "" }
