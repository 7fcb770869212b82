package models

import "fmt"

// ValidationError reports which field of an incoming record failed which rule.
// Records failing validation never reach the store.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// OracleError marks a failure of an external oracle (sentiment scorer or
// language model). It is recoverable at the boundary: batch operations skip
// the affected item and text generation degrades to an error payload.
type OracleError struct {
	Oracle string
	Err    error
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("%s oracle: %v", e.Oracle, e.Err)
}

func (e *OracleError) Unwrap() error {
	return e.Err
}
