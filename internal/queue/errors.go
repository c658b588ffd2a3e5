package queue

import "fmt"

// LoadError represents an error during file I/O or parsing of queue files.
type LoadError struct {
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("load error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("load error: %s", e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// StateError represents an error persisting or restoring the run state.
type StateError struct {
	Message string
	Cause   error
}

func (e *StateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("state error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("state error: %s", e.Message)
}

func (e *StateError) Unwrap() error {
	return e.Cause
}
