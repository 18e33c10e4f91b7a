package generator

import "fmt"

type Kind string

const (
	// KindRequest is a failure of the call to the model: transport, auth,
	// rate limiting or a non-2xx status.
	KindRequest Kind = "request failure"
	// KindParse is a response that isn't a JSON summary of the expected shape.
	KindParse Kind = "parse failure"
)

var (
	ErrRequest = &Error{Kind: KindRequest}
	ErrParse   = &Error{Kind: KindParse}
)

type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "generator: " + string(e.Kind)
	}
	return fmt.Sprintf("generator: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the ErrRequest and ErrParse sentinels by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Err == nil && t.Kind == e.Kind
}

func requestError(err error) *Error {
	return &Error{Kind: KindRequest, Err: err}
}

func parseError(err error) *Error {
	return &Error{Kind: KindParse, Err: err}
}
