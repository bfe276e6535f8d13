// Package apperrors defines the error taxonomy shared by the dispatch engine.
//
// Every failure a client can observe carries a Kind. Business-rule conflicts
// are never retried automatically; Timeout and BackpressureDisconnect are
// transient and resolved by a resync; PersistenceFailure fails the single
// operation and is safe to retry. Canceled means the caller went away before
// the operation started and is not a server-side failure.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind классифицирует ошибку
type Kind uint8

const (
	KindUnknown Kind = iota
	KindValidation
	KindAlreadyAssigned
	KindNotAssignee
	KindInvalidTransition
	KindInvalidStatus
	KindTimeout
	KindBackpressureDisconnect
	KindPersistenceFailure
	KindNotFound
	KindForbidden
	KindCanceled
)

var kindNames = map[Kind]string{
	KindUnknown:                "Unknown",
	KindValidation:             "ValidationError",
	KindAlreadyAssigned:        "AlreadyAssigned",
	KindNotAssignee:            "NotAssignee",
	KindInvalidTransition:      "InvalidTransition",
	KindInvalidStatus:          "InvalidStatus",
	KindTimeout:                "Timeout",
	KindBackpressureDisconnect: "BackpressureDisconnect",
	KindPersistenceFailure:     "PersistenceFailure",
	KindNotFound:               "NotFound",
	KindForbidden:              "Forbidden",
	KindCanceled:               "Canceled",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Error - ошибка с классификацией и операцией, в которой она возникла
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op != "" {
		return e.Op + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is сравнивает только по Kind, если target - один из сентинелов ниже
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Msg == "" && t.Err == nil
}

// Сентинелы для errors.Is
var (
	ErrValidation             = &Error{Kind: KindValidation}
	ErrAlreadyAssigned        = &Error{Kind: KindAlreadyAssigned}
	ErrNotAssignee            = &Error{Kind: KindNotAssignee}
	ErrInvalidTransition      = &Error{Kind: KindInvalidTransition}
	ErrInvalidStatus          = &Error{Kind: KindInvalidStatus}
	ErrTimeout                = &Error{Kind: KindTimeout}
	ErrBackpressureDisconnect = &Error{Kind: KindBackpressureDisconnect}
	ErrPersistenceFailure     = &Error{Kind: KindPersistenceFailure}
	ErrNotFound               = &Error{Kind: KindNotFound}
	ErrForbidden              = &Error{Kind: KindForbidden}
	ErrCanceled               = &Error{Kind: KindCanceled}
)

// New создает классифицированную ошибку с сообщением
func New(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Wrap классифицирует существующую ошибку
func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf возвращает Kind первой классифицированной ошибки в цепочке
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Transient сообщает, что клиент может выполнить resync и повторить команду
func Transient(err error) bool {
	switch KindOf(err) {
	case KindTimeout, KindBackpressureDisconnect, KindPersistenceFailure:
		return true
	}
	return false
}
