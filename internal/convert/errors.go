package convert

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies conversion failures
type Kind int

const (
	KindUnknown Kind = iota
	KindMissingInput
	KindMissingOutput
	KindAlreadyRunning
	KindInputNotFound
	KindOutputDirMissing
	KindNoWritePermission
	KindLoadFailed
	KindNoAudioTrack
	KindTranscodeFailed
	KindUnreadableMedia
	KindOutputIsInput
)

// String returns the kind name used in logs
func (k Kind) String() string {
	switch k {
	case KindMissingInput:
		return "MissingInput"
	case KindMissingOutput:
		return "MissingOutput"
	case KindAlreadyRunning:
		return "AlreadyRunning"
	case KindInputNotFound:
		return "InputNotFound"
	case KindOutputDirMissing:
		return "OutputDirMissing"
	case KindNoWritePermission:
		return "NoWritePermission"
	case KindLoadFailed:
		return "LoadFailed"
	case KindNoAudioTrack:
		return "NoAudioTrack"
	case KindTranscodeFailed:
		return "TranscodeFailed"
	case KindUnreadableMedia:
		return "UnreadableMedia"
	case KindOutputIsInput:
		return "OutputIsInput"
	default:
		return "Unknown"
	}
}

// Sentinels for errors.Is checks against a kind
var (
	ErrMissingInput      = &Error{Kind: KindMissingInput}
	ErrMissingOutput     = &Error{Kind: KindMissingOutput}
	ErrAlreadyRunning    = &Error{Kind: KindAlreadyRunning}
	ErrInputNotFound     = &Error{Kind: KindInputNotFound}
	ErrOutputDirMissing  = &Error{Kind: KindOutputDirMissing}
	ErrNoWritePermission = &Error{Kind: KindNoWritePermission}
	ErrLoadFailed        = &Error{Kind: KindLoadFailed}
	ErrNoAudioTrack      = &Error{Kind: KindNoAudioTrack}
	ErrTranscodeFailed   = &Error{Kind: KindTranscodeFailed}
	ErrUnreadableMedia   = &Error{Kind: KindUnreadableMedia}
	ErrOutputIsInput     = &Error{Kind: KindOutputIsInput}
)

// Error is a classified conversion failure with the transcript of the steps
// that ran before it
type Error struct {
	Kind       Kind
	Message    string
	Path       string
	Transcript []string
	Err        error
}

// Error formats the failure for dialogs and logs
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s\n%v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes the underlying error for errors.Is / errors.As
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches any *Error of the same kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return t.Kind == e.Kind
}

// Report returns the message followed by the step transcript
func (e *Error) Report() string {
	if e == nil {
		return ""
	}
	if len(e.Transcript) == 0 {
		return e.Error()
	}

	var b strings.Builder
	b.WriteString(e.Error())
	b.WriteString("\n\nDetailed Debug Information:\n")
	b.WriteString(strings.Join(e.Transcript, "\n"))
	return b.String()
}

// KindOf returns the kind of err, or KindUnknown when err is not a conversion error
func KindOf(err error) Kind {
	var convErr *Error
	if errors.As(err, &convErr) {
		return convErr.Kind
	}
	return KindUnknown
}

func newError(kind Kind, message, path string, err error) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Path:    path,
		Err:     err,
	}
}
