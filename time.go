package pswap

import (
	"encoding/json"
	"math"
	"time"

	"github.com/iov-one/pswap/errors"
)

// UnixTime represents a point in time as POSIX time.
// This type comes in handy when dealing with protobuf messages. Instead of
// using Go's time.Time that includes nanoseconds use primitive int64 type and
// seconds precision. Some languages do not support nanoseconds precision
// anyway.
type UnixTime int64

// Time returns a time.Time structure that represents the same moment in time.
func (t UnixTime) Time() time.Time {
	return time.Unix(int64(t), 0)
}

// IsZero returns true if this time represents a zero value.
func (t UnixTime) IsZero() bool {
	return t == 0
}

// Add modifies this UNIX time by given duration. This is compatible with
// time.Time.Add method.
func (t UnixTime) Add(d time.Duration) UnixTime {
	return t + UnixTime(d/time.Second)
}

// AddChecked returns this time moved by given duration. Unlike Add it refuses
// to wrap around the int64 range.
func (t UnixTime) AddChecked(d UnixDuration) (UnixTime, error) {
	if d > 0 && int64(t) > math.MaxInt64-int64(d) {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d + %d", t, d)
	}
	if d < 0 && int64(t) < math.MinInt64-int64(d) {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d - %d", t, -d)
	}
	return t + UnixTime(d), nil
}

// AsUnixTime converts given Time structure into its UNIX time representation.
func AsUnixTime(t time.Time) UnixTime {
	return UnixTime(t.Unix())
}

// UnmarshalJSON supports unmarshaling both as time.Time and from a number.
// Usually a number is used as a representation of this time in JSON but it is
// convinient to use a string format in configurations (ie genesis file).
func (t *UnixTime) UnmarshalJSON(raw []byte) error {
	var unix int64
	if err := json.Unmarshal(raw, &unix); err == nil {
		if unix < 0 {
			return errors.Wrap(errors.ErrInvalidInput, "time before epoch")
		}
		*t = UnixTime(unix)
		return nil
	}

	var stdtime time.Time
	if err := json.Unmarshal(raw, &stdtime); err == nil {
		unix := UnixTime(stdtime.Unix())
		if unix < 0 {
			return errors.Wrap(errors.ErrInvalidInput, "time before epoch")
		}
		*t = unix
		return nil
	}

	return errors.Wrap(errors.ErrInvalidInput, "invalid time format")
}

// Validate returns an error if this time value is invalid.
func (t UnixTime) Validate() error {
	if t < 0 {
		return errors.Wrap(errors.ErrInvalidState, "negative value")
	}
	return nil
}

// String returns the usual string representation of this time as the time.Time
// structure would.
func (t UnixTime) String() string {
	return t.Time().UTC().String()
}

// UnixDuration represents a time duration with a seconds precision.
type UnixDuration int64

// AsUnixDuration converts given duration into UnixDuration. Only the full
// seconds are kept.
func AsUnixDuration(d time.Duration) UnixDuration {
	return UnixDuration(d / time.Second)
}

// Duration returns the standard library representation of this duration.
func (d UnixDuration) Duration() time.Duration {
	return time.Duration(d) * time.Second
}

// String returns the duration in the time.Duration format, for example 1m0s.
func (d UnixDuration) String() string {
	return d.Duration().String()
}

// UnmarshalJSON loads JSON serialized representation into this value. JSON
// serialized value can be represented as both number of seconds and a human
// readable string with time unit as used by the time package.
func (d *UnixDuration) UnmarshalJSON(raw []byte) error {
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return errors.Wrap(errors.ErrInvalidInput, "invalid duration string")
		}
		dur, err := time.ParseDuration(s)
		if err != nil {
			return errors.Wrapf(errors.ErrInvalidInput, "invalid duration %q", s)
		}
		*d = AsUnixDuration(dur)
		return nil
	}

	var n int64
	if err := json.Unmarshal(raw, &n); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, "invalid duration format")
	}
	*d = UnixDuration(n)
	return nil
}

// MarshalJSON serializes this duration as a human readable string.
func (d UnixDuration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Clock is the only source of the current time for the swap logic.
type Clock interface {
	Now() UnixTime
}

// ClockFunc is an adapter that allows to use an ordinary function as a Clock.
type ClockFunc func() UnixTime

// Now calls the wrapped function.
func (fn ClockFunc) Now() UnixTime {
	return fn()
}

// SystemClock reads the wall clock of the host.
var SystemClock Clock = ClockFunc(func() UnixTime {
	return AsUnixTime(time.Now())
})
