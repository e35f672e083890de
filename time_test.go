package pswap

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/iov-one/pswap/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnixTimeUnmarshal(t *testing.T) {
	cases := map[string]struct {
		raw      string
		wantTime UnixTime
		wantErr  *errors.Error
	}{
		"zero time as number": {
			raw:      "0",
			wantTime: 0,
		},
		"zero time as string": {
			raw:      `"1970-01-01T01:00:00+01:00"`,
			wantTime: 0,
		},
		"a time as string": {
			raw:      `"2019-04-04T11:35:40.89181085+02:00"`,
			wantTime: 1554370540,
		},
		"a time as number": {
			raw:      "1554370540",
			wantTime: 1554370540,
		},
		"negative number": {
			raw:     "-1",
			wantErr: errors.ErrInvalidInput,
		},
		"negative time as string": {
			raw:     `"1950-01-01T01:00:00+01:00"`,
			wantErr: errors.ErrInvalidInput,
		},
		"invalid string": {
			raw:     `"not a time string"`,
			wantErr: errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got UnixTime
			err := json.Unmarshal([]byte(tc.raw), &got)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %s", err)
			}
			if got != tc.wantTime {
				t.Fatalf("want %d time, got %d", tc.wantTime, got)
			}
		})
	}
}

func TestUnixTimeAdd(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour + 4*time.Second)

	unow := AsUnixTime(now)
	ufuture := unow.Add(time.Hour + 4*time.Second)

	if future.Unix() != int64(ufuture) {
		t.Fatalf("want %d, got %d", future.Unix(), ufuture)
	}
}

func TestUnixTimeAddChecked(t *testing.T) {
	cases := map[string]struct {
		t       UnixTime
		d       UnixDuration
		want    UnixTime
		wantErr *errors.Error
	}{
		"simple addition": {
			t:    1000,
			d:    60,
			want: 1060,
		},
		"negative duration": {
			t:    1000,
			d:    -60,
			want: 940,
		},
		"maximum value": {
			t:    math.MaxInt64 - 10,
			d:    10,
			want: math.MaxInt64,
		},
		"overflow": {
			t:       math.MaxInt64 - 10,
			d:       11,
			wantErr: errors.ErrOverflow,
		},
		"underflow": {
			t:       math.MinInt64 + 10,
			d:       -11,
			wantErr: errors.ErrOverflow,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := tc.t.AddChecked(tc.d)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestUnixDurationJSON(t *testing.T) {
	cases := map[string]struct {
		raw     string
		want    UnixDuration
		wantErr *errors.Error
	}{
		"seconds as number": {
			raw:  "60",
			want: 60,
		},
		"human readable": {
			raw:  `"2m"`,
			want: 120,
		},
		"sub second precision is dropped": {
			raw:  `"1500ms"`,
			want: 1,
		},
		"invalid string": {
			raw:     `"two minutes"`,
			wantErr: errors.ErrInvalidInput,
		},
		"invalid type": {
			raw:     `{}`,
			wantErr: errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got UnixDuration
			err := json.Unmarshal([]byte(tc.raw), &got)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			assert.Equal(t, tc.want, got)
		})
	}

	raw, err := json.Marshal(UnixDuration(90))
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(raw))
}

func TestClockFunc(t *testing.T) {
	var c Clock = ClockFunc(func() UnixTime { return 42 })
	assert.Equal(t, UnixTime(42), c.Now())

	now := AsUnixTime(time.Now())
	got := SystemClock.Now()
	assert.InDelta(t, int64(now), int64(got), 5)
}
