package ipc

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Result is a handler output that the page sees as a settled promise:
// {"Ok":v} resolves with v and {"Err":msg} rejects with msg.
type Result struct {
	value any
	err   error
}

// Ok wraps a successful value.
func Ok(v any) Result {
	return Result{value: v}
}

// Err wraps a failure. A nil err is treated as an empty Ok.
func Err(err error) Result {
	return Result{err: err}
}

// Errf builds an Err from a format string.
func Errf(format string, args ...any) Result {
	return Result{err: fmt.Errorf(format, args...)}
}

// IsErr reports whether r is a failure.
func (r Result) IsErr() bool {
	return r.err != nil
}

// Value returns the Ok value, or nil for an Err.
func (r Result) Value() any {
	return r.value
}

// Err returns the failure, or nil for an Ok.
func (r Result) Err() error {
	return r.err
}

func (r Result) MarshalJSON() ([]byte, error) {
	if r.err != nil {
		return json.Marshal(struct {
			Err string `json:"Err"`
		}{Err: r.err.Error()})
	}
	return json.Marshal(struct {
		Ok any `json:"Ok"`
	}{Ok: r.value})
}

var errNoOutput = errors.New("handler output could not be encoded")

// encodeOutput renders a handler's return for __resolveIpc. Errors and
// unencodable values become an Err envelope.
func encodeOutput(v any, err error) string {
	if err != nil {
		return mustEncode(Err(err))
	}
	data, mErr := json.Marshal(v)
	if mErr != nil {
		return mustEncode(Err(fmt.Errorf("%w: %w", errNoOutput, mErr)))
	}
	return string(data)
}

func mustEncode(r Result) string {
	data, err := json.Marshal(r)
	if err != nil {
		return `{"Err":"internal error"}`
	}
	return string(data)
}
