package shared

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

//Kind represents error kind
type Kind int

const (
	//RemoteOperationFailed control plane or data plane call failed
	RemoteOperationFailed Kind = iota + 1
	//NotConnected required caller input was missing
	NotConnected
	//Unauthorized authorization service returned no proof
	Unauthorized
	//DecodeFailed stream payload is not valid structured data
	DecodeFailed
	//Timeout polling exceeded its bound
	Timeout
)

func (k Kind) String() string {
	switch k {
	case RemoteOperationFailed:
		return "RemoteOperationFailed"
	case NotConnected:
		return "NotConnected"
	case Unauthorized:
		return "Unauthorized"
	case DecodeFailed:
		return "DecodeFailed"
	case Timeout:
		return "Timeout"
	}
	return "Unknown"
}

//Error represents a domain error
type Error struct {
	Kind      Kind
	Step      string
	StepIndex int
	Message   string
	Cause     error
}

func (e *Error) Error() string {
	builder := strings.Builder{}
	builder.WriteString(e.Kind.String())
	if e.Step != "" {
		builder.WriteString(fmt.Sprintf(" at step %d (%s)", e.StepIndex, e.Step))
	}
	if e.Message != "" {
		builder.WriteString(": ")
		builder.WriteString(e.Message)
	}
	if e.Cause != nil {
		builder.WriteString(": ")
		builder.WriteString(e.Cause.Error())
	}
	return builder.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

//NewRemoteOperationFailed returns remote operation error for the supplied pipeline step
func NewRemoteOperationFailed(stepIndex int, step string, cause error) error {
	return &Error{Kind: RemoteOperationFailed, StepIndex: stepIndex, Step: step, Cause: cause}
}

//NewNotConnected returns missing input error
func NewNotConnected(msg string) error {
	return &Error{Kind: NotConnected, Message: msg}
}

//NewUnauthorized returns authorization denial error
func NewUnauthorized(msg string) error {
	return &Error{Kind: Unauthorized, Message: msg}
}

//NewDecodeFailed returns payload decoding error
func NewDecodeFailed(msg string, cause error) error {
	return &Error{Kind: DecodeFailed, Message: msg, Cause: cause}
}

//NewTimeout returns polling timeout error
func NewTimeout(msg string, cause error) error {
	return &Error{Kind: Timeout, Message: msg, Cause: cause}
}

//KindOf returns error kind or zero if err is not a domain error
func KindOf(err error) Kind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return 0
}

//IsKind returns true if err is a domain error of the supplied kind
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

//Errors collects multiple errors, safe for concurrent use
type Errors struct {
	mux    sync.Mutex
	Errors []error
}

func (e *Errors) Error() string {
	e.mux.Lock()
	defer e.mux.Unlock()
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	builder := strings.Builder{}
	for i, err := range e.Errors {
		if i > 0 {
			builder.WriteByte(',')
		}
		builder.WriteString(err.Error())
	}
	return builder.String()
}

//HasError returns true if any error was appended
func (e *Errors) HasError() bool {
	e.mux.Lock()
	defer e.mux.Unlock()
	return len(e.Errors) > 0
}

//Append appends non nil error
func (e *Errors) Append(err error) {
	if err == nil {
		return
	}
	e.mux.Lock()
	defer e.mux.Unlock()
	e.Errors = append(e.Errors, err)
}

//Unwrap returns collected errors
func (e *Errors) Unwrap() []error {
	e.mux.Lock()
	defer e.mux.Unlock()
	return append([]error{}, e.Errors...)
}
