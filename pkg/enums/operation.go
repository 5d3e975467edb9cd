package enums

import "fmt"

// Operation is the upstream feed's instruction tag carried on each order row.
// It is supplied by the feed, never re-derived here.
type Operation string

const (
	OperationInsert Operation = "insert"
	OperationUpdate Operation = "update"
	OperationCancel Operation = "cancel"
)

var validOperations = []Operation{
	OperationInsert,
	OperationUpdate,
	OperationCancel,
}

// String implements fmt.Stringer.
func (o Operation) String() string {
	return string(o)
}

// IsValid reports whether the operation tag is recognized.
func (o Operation) IsValid() bool {
	for _, candidate := range validOperations {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOperation converts a raw string into an Operation.
func ParseOperation(value string) (Operation, error) {
	for _, candidate := range validOperations {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid operation %q", value)
}
