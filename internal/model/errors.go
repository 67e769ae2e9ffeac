package model

import "fmt"

// ConsistencyError reports a broken accounting identity. It indicates a defect
// in posting or categorization, never a user input problem.
type ConsistencyError struct {
	Check    string
	Expected Amount
	Actual   Amount
}

// Delta returns Actual - Expected.
func (e *ConsistencyError) Delta() Amount {
	return e.Actual - e.Expected
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("integrity failure: %s: expected %d, got %d (delta %d minor units)",
		e.Check, e.Expected, e.Actual, e.Delta())
}

// MissingMetadata flags an account whose statement contribution could not be
// categorized. It is a warning, not a failure.
type MissingMetadata struct {
	Code string
	Name string
	Need string // "cash flow activity", "equity class"
}

func (m MissingMetadata) Error() string {
	return fmt.Sprintf("account %s (%s) has no %s", m.Code, m.Name, m.Need)
}
