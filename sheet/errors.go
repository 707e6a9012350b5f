package sheet

import (
	"fmt"
)

// SinkError is returned when a read, clear or write against the worksheet fails.
type SinkError struct {
	Op    string
	Range string
	Err   error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("error %v '%v' (%v)", e.Op, e.Range, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}
