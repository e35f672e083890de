package errors

import (
	"errors"
	"fmt"
)

const (
	// SuccessCode declares that the processing was successful and no error
	// is returned.
	SuccessCode = 0

	// All unclassified errors that do not provide a registered code are
	// clubbed under an internal error code and a generic message instead of
	// detailed error string.
	internalCode uint32 = 1
	internalLog         = "internal error"
)

// Info returns the code and the log message that should be returned to a
// client. Any error that does not wrap a registered root error is categorized
// as error with code 1 and, unless debug is set, its message is hidden.
func Info(err error, debug bool) (uint32, string) {
	if isNilErr(err) {
		return SuccessCode, ""
	}

	if code := Code(err); code != internalCode {
		if debug {
			return code, fmt.Sprintf("%+v", err)
		}
		return code, err.Error()
	}

	if debug {
		return internalCode, fmt.Sprintf("%+v", err)
	}
	return internalCode, internalLog
}

type coder interface {
	Code() uint32
}

// Code returns the registered code of the root error wrapped by given error.
// Multi errors report the code of their first member.
func Code(err error) uint32 {
	if isNilErr(err) {
		return SuccessCode
	}

	for {
		if c, ok := err.(coder); ok {
			return c.Code()
		}
		if u, ok := err.(unpacker); ok {
			if errs := u.Unpack(); len(errs) > 0 {
				return Code(errs[0])
			}
			return internalCode
		}
		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return internalCode
		}
	}
}

// Redact replaces all errors that do not wrap a registered error with a
// generic internal error instance. Panics are always redacted.
//
// This is a no-operation function when running in debug mode.
func Redact(err error, debug bool) error {
	if debug {
		return err
	}
	if ErrPanic.Is(err) {
		return errors.New(internalLog)
	}
	if Code(err) == internalCode {
		return errors.New(internalLog)
	}
	return err
}
