// Package errs provides the error type used throughout synthproof.
//
// It follows the upspin.io/errors design: an error is built from an
// operation, a kind and an optional parameter, and wraps the underlying
// cause. Nested errors from lower layers are merged so that the outermost
// error carries the full operation stack.
package errs

import (
	"bytes"
	"errors"
	"fmt"
	"runtime"
)

// Op describes an operation, usually as the receiver type and method name,
// e.g. "generationService.Generate".
type Op string

// Parameter names the request parameter or identifier involved.
type Parameter string

// UserName is the wallet address or user the error relates to.
type UserName string

// Kind defines the class of error.
type Kind uint8

const (
	Other Kind = iota
	Invalid
	IO
	Exist
	NotExist
	Private
	Internal
	Database
	Validation
	InvalidRequest
	Unauthenticated
	Unauthorized
	Unavailable
)

func (k Kind) String() string {
	switch k {
	case Other:
		return "other_error"
	case Invalid:
		return "invalid_operation"
	case IO:
		return "I/O_error"
	case Exist:
		return "item_already_exists"
	case NotExist:
		return "item_does_not_exist"
	case Private:
		return "information_withheld"
	case Internal:
		return "internal_error"
	case Database:
		return "database_error"
	case Validation:
		return "input_validation_error"
	case InvalidRequest:
		return "invalid_request_error"
	case Unauthenticated:
		return "unauthenticated_request"
	case Unauthorized:
		return "unauthorized_request"
	case Unavailable:
		return "unavailable"
	}

	return "unknown_error_kind"
}

// Error is the type that implements the error interface.
type Error struct {
	Op    Op
	Kind  Kind
	Param Parameter
	User  UserName
	Err   error
}

func (e *Error) isZero() bool {
	return e.Op == "" && e.Kind == 0 && e.Param == "" && e.User == "" && e.Err == nil
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	b := new(bytes.Buffer)

	if e.Op != "" {
		pad(b, ": ")
		b.WriteString(string(e.Op))
	}

	if e.User != "" {
		pad(b, ", ")
		b.WriteString("user ")
		b.WriteString(string(e.User))
	}

	if e.Param != "" {
		pad(b, ", ")
		b.WriteString("param ")
		b.WriteString(string(e.Param))
	}

	if e.Kind != 0 {
		pad(b, ": ")
		b.WriteString(e.Kind.String())
	}

	if e.Err != nil {
		var prev *Error
		if errors.As(e.Err, &prev) {
			if !prev.isZero() {
				pad(b, ": ")
				b.WriteString(e.Err.Error())
			}
		} else {
			pad(b, ": ")
			b.WriteString(e.Err.Error())
		}
	}

	if b.Len() == 0 {
		return "no error"
	}

	return b.String()
}

func pad(b *bytes.Buffer, str string) {
	if b.Len() == 0 {
		return
	}

	b.WriteString(str)
}

// E builds an error value from its arguments. There must be at least one
// argument or E panics. The type of each argument determines its meaning:
//
//	errs.Op      the operation being performed
//	errs.Kind    the class of error
//	errs.Parameter the parameter or identifier involved
//	errs.UserName the user the error relates to
//	*errs.Error  the underlying error, its fields are merged up
//	error        the underlying error
//	string       treated as an error message
//
// If the underlying error is an *Error and no Kind was given, the Kind is
// pulled up from it. Parameters and user names propagate the same way.
func E(args ...interface{}) error {
	if len(args) == 0 {
		panic("call to errs.E with no arguments")
	}

	e := &Error{}

	for _, arg := range args {
		switch arg := arg.(type) {
		case Op:
			e.Op = arg
		case Kind:
			e.Kind = arg
		case Parameter:
			e.Param = arg
		case UserName:
			e.User = arg
		case string:
			e.Err = Str(arg)
		case *Error:
			cp := *arg
			e.Err = &cp
		case error:
			e.Err = arg
		default:
			_, file, line, _ := runtime.Caller(1)
			return fmt.Errorf("errs.E: bad call from %s:%d: %v, unknown type %T, value %v in error call", file, line, args, arg, arg)
		}
	}

	prev, ok := e.Err.(*Error)
	if !ok {
		return e
	}

	if e.Kind == Other {
		e.Kind = prev.Kind
		prev.Kind = Other
	}

	if prev.Kind == e.Kind {
		prev.Kind = Other
	}

	if e.Param == "" {
		e.Param = prev.Param
		prev.Param = ""
	}

	if prev.Param == e.Param {
		prev.Param = ""
	}

	if e.User == "" {
		e.User = prev.User
		prev.User = ""
	}

	if prev.User == e.User {
		prev.User = ""
	}

	return e
}

// Str returns an error that formats as the given text. It is a stand-in for
// errors.New so callers only need to import this package.
func Str(text string) error {
	return &errorString{text}
}

type errorString struct {
	s string
}

func (e *errorString) Error() string {
	return e.s
}

// Match compares its two error arguments. It can be used to check for
// expected errors in tests. Both arguments must have underlying type *Error
// or Match will return false. Otherwise it returns true iff every non-zero
// element of the first error is equal to the corresponding element of the
// second. If the Err field is a *Error, Match recurs on that field;
// otherwise it compares the strings returned by the Error methods.
func Match(err1, err2 error) bool {
	e1, ok := err1.(*Error)
	if !ok {
		return false
	}

	e2, ok := err2.(*Error)
	if !ok {
		return false
	}

	if e1.Op != "" && e2.Op != e1.Op {
		return false
	}

	if e1.Kind != Other && e2.Kind != e1.Kind {
		return false
	}

	if e1.Param != "" && e2.Param != e1.Param {
		return false
	}

	if e1.User != "" && e2.User != e1.User {
		return false
	}

	if e1.Err != nil {
		if _, ok := e1.Err.(*Error); ok {
			return Match(e1.Err, e2.Err)
		}

		if e2.Err == nil || e2.Err.Error() != e1.Err.Error() {
			return false
		}
	}

	return true
}

// KindIs reports whether err is an *Error of the given Kind. If err is nil
// then KindIs returns false.
func KindIs(kind Kind, err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}

	if e.Kind != Other {
		return e.Kind == kind
	}

	if e.Err != nil {
		return KindIs(kind, e.Err)
	}

	return false
}

// OpStack returns the operations the error passed through, outermost first.
func OpStack(err error) []string {
	var ops []string

	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			break
		}

		if e.Op != "" {
			ops = append(ops, string(e.Op))
		}

		err = e.Err
	}

	return ops
}
