package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies fatal failures.
type ErrorKind string

// Error kinds. Each one ends the session; the end of the decoder's stream
// is not an error and has no kind.
const (
	KindDecoderSpawn ErrorKind = "DecoderSpawn"
	KindProbeSpawn   ErrorKind = "ProbeSpawn"
	KindAudioSpawn   ErrorKind = "AudioSpawn"
	KindProbeParse   ErrorKind = "ProbeParse"
	KindDecoderRead  ErrorKind = "DecoderRead"
	KindSinkWrite    ErrorKind = "SinkWrite"
	KindFileCreate   ErrorKind = "FileCreate"
	KindBadArgs      ErrorKind = "BadArgs"
)

// Error attaches a kind to an underlying failure.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf builds a kinded error; %w verbs are preserved for unwrapping.
func Errorf(kind ErrorKind, format string, args ...any) error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// WrapKind tags err with kind. A nil err stays nil.
func WrapKind(kind ErrorKind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

// KindOf returns the kind of the outermost *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var kerr *Error
	if errors.As(err, &kerr) {
		return kerr.Kind, true
	}
	return "", false
}
