package expr

import "fmt"

// SyntaxError reports a compile-time failure in a condition expression,
// with the byte offset at which parsing stopped.
type SyntaxError struct {
	Expr    string
	Pos     int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d in %q: %s", e.Pos, e.Expr, e.Message)
}
