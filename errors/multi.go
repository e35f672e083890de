package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If no errors are given, nil is returned. If only one non nil error is given,
// it is returned unchanged. Multi errors are flattened.
func Append(errs ...error) error {
	var res multiErr
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if u, ok := e.(multiErr); ok {
			res = append(res, u...)
			continue
		}
		res = append(res, e)
	}

	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	default:
		return res
	}
}

// multiErr is a list of errors. It is used when more than one problem should
// be reported, for example when validating a message.
type multiErr []error

var _ unpacker = multiErr(nil)

func (errs multiErr) Error() string {
	if len(errs) == 1 {
		return errs[0].Error()
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = fmt.Sprintf("* %s", e)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s", len(errs), strings.Join(msgs, "\n\t"))
}

// Unpack returns all errors clubbed together.
func (errs multiErr) Unpack() []error {
	return errs
}

// unpacker is implemented by errors that combine several errors.
type unpacker interface {
	Unpack() []error
}
