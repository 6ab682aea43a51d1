// Package fieldml is the FieldML object model API: sessions, regions with
// import aliasing, the type system, the evaluator graph and data
// descriptions.
//
// Every operation is a method on *Session and returns (value, error). On
// failure the value is a sentinel (ir.InvalidHandle, -1, an UNKNOWN enum or
// the empty string), the error is an *Error carrying an ErrorCode, and the
// session's LastError and diagnostic log are updated. Every call resets
// LastError first.
//
// Positional accessors (Argument, BindArgument, IndexEvaluator,
// ImportSourceHref, ObjectByIndex, ...) are 1-based.
//
// A Session is not safe for concurrent use. Sessions are independent: a
// handle issued by one session is meaningless in another.
package fieldml
