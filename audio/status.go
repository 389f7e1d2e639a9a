// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"strconv"
)

// Status is a status code from the mixing engine or a backend. Codes follow
// the Core Audio numbering so a host bridging to a native audio stack can hand
// them through unchanged. A nil error means success; Status values are never
// zero.
//
// Status is comparable, so callers may test with == or errors.Is.
type Status int32

const (
	ErrUnspecified              Status = -1
	ErrParam                    Status = -50
	ErrInvalidProperty          Status = -10879
	ErrInvalidParameter         Status = -10878
	ErrInvalidElement           Status = -10877
	ErrNoConnection             Status = -10876
	ErrFailedInitialization     Status = -10875
	ErrTooManyFramesToProcess   Status = -10874
	ErrFormatNotSupported       Status = -10868
	ErrUninitialized            Status = -10867
	ErrInvalidScope             Status = -10866
	ErrCannotDoInCurrentContext Status = -10863
	ErrInvalidPropertyValue     Status = -10851
	ErrInitialized              Status = -10849
	ErrExtensionNotFound        Status = -66744
	ErrInstanceInvalidated      Status = -66749
)

var statusText = map[Status]string{
	ErrUnspecified:              "unspecified error",
	ErrParam:                    "bad parameter",
	ErrInvalidProperty:          "invalid property",
	ErrInvalidParameter:         "invalid parameter",
	ErrInvalidElement:           "invalid element",
	ErrNoConnection:             "no input connection",
	ErrFailedInitialization:     "initialization failed",
	ErrTooManyFramesToProcess:   "too many frames to process",
	ErrFormatNotSupported:       "format not supported",
	ErrUninitialized:            "not initialized",
	ErrInvalidScope:             "invalid scope",
	ErrCannotDoInCurrentContext: "cannot do in current context",
	ErrInvalidPropertyValue:     "invalid property value",
	ErrInitialized:              "already initialized",
	ErrExtensionNotFound:        "mixing component not found",
	ErrInstanceInvalidated:      "instance invalidated",
}

func (s Status) Error() string {
	text, ok := statusText[s]
	if !ok {
		text = "status"
	}

	return "audio: " + text + " (" + strconv.Itoa(int(s)) + ")"
}

// Code returns the raw status code.
func (s Status) Code() int32 { return int32(s) }

// StatusOf maps err to a status code: 0 for nil, the wrapped Status when
// there is one, ErrUnspecified otherwise.
func StatusOf(err error) Status {
	if err == nil {
		return 0
	}

	var s Status
	if errors.As(err, &s) {
		return s
	}

	return ErrUnspecified
}
