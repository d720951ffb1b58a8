/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies history failures so the CLI can pick a message without string matching.
type ErrorKind string

const (
	KindCorruptHistory      ErrorKind = "corrupt_history"
	KindUnknownTransaction  ErrorKind = "unknown_transaction"
	KindMalformedRecord     ErrorKind = "malformed_record"
	KindUnsupportedUndoRedo ErrorKind = "unsupported_undo_redo"
	KindPermissionDenied    ErrorKind = "permission_denied"
	KindNoHistory           ErrorKind = "no_history"
)

// HistoryError provides structured error information for history operations.
type HistoryError struct {
	Kind    ErrorKind              `json:"kind"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Err     error                  `json:"-"`
}

func (e *HistoryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *HistoryError) Unwrap() error {
	return e.Err
}

// Is matches any HistoryError of the same kind, so errors.Is(err, ErrUnknownTransaction)
// works regardless of the id carried in Details.
func (e *HistoryError) Is(target error) bool {
	var t *HistoryError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Detail returns a string detail, or "" when absent.
func (e *HistoryError) Detail(key string) string {
	if e.Details == nil {
		return ""
	}
	v, ok := e.Details[key]
	if !ok {
		return ""
	}
	return fmt.Sprint(v)
}

// Sentinels for errors.Is checks.
var (
	ErrCorruptHistory      = &HistoryError{Kind: KindCorruptHistory, Message: "history file is corrupt"}
	ErrUnknownTransaction  = &HistoryError{Kind: KindUnknownTransaction, Message: "transaction does not exist"}
	ErrMalformedRecord     = &HistoryError{Kind: KindMalformedRecord, Message: "malformed package record"}
	ErrUnsupportedUndoRedo = &HistoryError{Kind: KindUnsupportedUndoRedo, Message: "undo/redo is only supported for install and remove"}
	ErrPermissionDenied    = &HistoryError{Kind: KindPermissionDenied, Message: "elevated rights required"}
	ErrNoHistory           = &HistoryError{Kind: KindNoHistory, Message: "no history exists"}
)

// NewCorruptHistory reports a persisted document that failed to parse.
func NewCorruptHistory(path string, err error) *HistoryError {
	return &HistoryError{
		Kind:    KindCorruptHistory,
		Message: fmt.Sprintf("history file %s seems corrupt", path),
		Details: map[string]interface{}{"path": path},
		Err:     err,
	}
}

// NewUnknownTransaction reports a transaction ID that is not in the store.
func NewUnknownTransaction(id string) *HistoryError {
	return &HistoryError{
		Kind:    KindUnknownTransaction,
		Message: fmt.Sprintf("transaction %s doesn't exist", id),
		Details: map[string]interface{}{"id": id},
	}
}

// NewMalformedRecord reports a package record that matches neither supported field order.
func NewMalformedRecord(raw []string, reason string) *HistoryError {
	return &HistoryError{
		Kind:    KindMalformedRecord,
		Message: fmt.Sprintf("package record %q: %s", raw, reason),
		Details: map[string]interface{}{"record": raw},
	}
}

// NewUnsupportedUndoRedo reports an undo/redo request for a verb other than install or remove.
func NewUnsupportedUndoRedo(verb, operation string) *HistoryError {
	return &HistoryError{
		Kind:    KindUnsupportedUndoRedo,
		Message: fmt.Sprintf("'history %s' for operations other than install or remove are not currently supported (transaction verb %q)", operation, verb),
		Details: map[string]interface{}{"verb": verb, "operation": operation},
	}
}

// NewPermissionDenied reports a mutating operation attempted without elevated rights.
func NewPermissionDenied(operation string) *HistoryError {
	return &HistoryError{
		Kind:    KindPermissionDenied,
		Message: fmt.Sprintf("root is needed to %s history", operation),
		Details: map[string]interface{}{"operation": operation},
	}
}

// NewNoHistory reports that no history document has been written yet.
func NewNoHistory(path string) *HistoryError {
	return &HistoryError{
		Kind:    KindNoHistory,
		Message: "no history exists",
		Details: map[string]interface{}{"path": path},
	}
}
