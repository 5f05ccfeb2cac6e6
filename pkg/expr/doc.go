// Package expr compiles and evaluates the restricted predicate language
// used in rule conditions, without delegating to any dynamic-code
// facility. Conditions may originate from configuration files, so the
// surface is a closed grammar: comparisons, boolean connectives, literal
// values and dotted fact paths.
//
// Grammar (precedence low to high):
//
//	expr      = orExpr
//	orExpr    = andExpr ( "||" andExpr )*
//	andExpr   = notExpr ( "&&" notExpr )*
//	notExpr   = "!" notExpr | cmpExpr
//	cmpExpr   = primary ( cmpOp primary )?
//	cmpOp     = ">" | ">=" | "<" | "<=" | "===" | "==" | "!==" | "!="
//	primary   = "(" expr ")" | number | string | bool | null | identifier
//
// Syntax errors are raised at compile time (rules fail fast on load).
// A compiled Predicate never errors: any runtime failure during
// evaluation collapses to false.
package expr
