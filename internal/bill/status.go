package bill

import "fmt"

// Valid reports whether s is one of the two ledger states.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusPaid
}

// ParseStatus converts external text into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}

	return st, nil
}

// Transition checks a move between states. Moving to the current state is a
// successful no-op, reported as changed == false.
func Transition(from, to Status) (changed bool, err error) {
	if !to.Valid() {
		return false, fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}

	return from != to, nil
}
