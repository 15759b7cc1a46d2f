package encql

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	ErrConfig  ErrorKind = "config"
	ErrOperand ErrorKind = "operand"
	ErrPath    ErrorKind = "path"
	ErrBackend ErrorKind = "backend"
	ErrSQL     ErrorKind = "sql"
)

// Error carries enough context to diagnose a misconfigured column without
// reading this package's internals: which table, which column, which operator.
type Error struct {
	Kind     ErrorKind
	Message  string
	Table    string
	Column   string
	Operator string
	Cause    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	base := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Column != "" {
		col := e.Column
		if e.Table != "" {
			col = e.Table + "." + col
		}
		base = fmt.Sprintf("%s (column=%s)", base, col)
	}
	if e.Operator != "" {
		base = fmt.Sprintf("%s (operator=%s)", base, e.Operator)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", base, e.Cause)
	}
	return base
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func New(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Wrap(kind ErrorKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// configError reports a missing or contradictory index configuration for an
// operator that cannot fall back to a plain comparison.
func configError(col *Column, op string, msg string) *Error {
	e := &Error{Kind: ErrConfig, Message: msg, Operator: op}
	if col != nil {
		e.Column = col.name
		if col.table != nil {
			e.Table = col.table.name
		}
	}
	return e
}

func operandError(col *Column, op string, msg string) *Error {
	e := configError(col, op, msg)
	e.Kind = ErrOperand
	return e
}

func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
