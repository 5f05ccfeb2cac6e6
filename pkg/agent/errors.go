package agent

import "fmt"

// LMError wraps a language-model adapter failure. By the time it is
// raised the pre-check audit entry has already been persisted.
type LMError struct {
	Err error
}

func (e *LMError) Error() string {
	return fmt.Sprintf("language model call failed: %v", e.Err)
}

func (e *LMError) Unwrap() error { return e.Err }
