package swap

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/iov-one/pswap"
	"github.com/iov-one/pswap/errors"
)

func TestComputeDeadlines(t *testing.T) {
	Convey("Given a swap starting at a known time", t, func() {
		start := pswap.UnixTime(1000)

		Convey("When the asset is escrowed first", func() {
			d, err := ComputeDeadlines(start, 60, true)
			So(err, ShouldBeNil)

			Convey("Both escrow deadlines are one delta away", func() {
				So(d.Premium, ShouldEqual, pswap.UnixTime(1060))
				So(d.Asset, ShouldEqual, pswap.UnixTime(1060))
			})
			Convey("The timeout is two deltas away", func() {
				So(d.Timeout, ShouldEqual, pswap.UnixTime(1120))
			})
		})

		Convey("When the premium is escrowed first", func() {
			d, err := ComputeDeadlines(start, 60, false)
			So(err, ShouldBeNil)

			Convey("The asset can be escrowed until the timeout", func() {
				So(d.Premium, ShouldEqual, pswap.UnixTime(1060))
				So(d.Asset, ShouldEqual, pswap.UnixTime(1120))
				So(d.Timeout, ShouldEqual, pswap.UnixTime(1120))
			})
		})

		Convey("When the delta is not positive", func() {
			_, err := ComputeDeadlines(start, 0, true)
			So(errors.ErrInvalidInput.Is(err), ShouldBeTrue)

			_, err = ComputeDeadlines(start, -1, false)
			So(errors.ErrInvalidInput.Is(err), ShouldBeTrue)
		})

		Convey("When the start is negative", func() {
			_, err := ComputeDeadlines(-1, 60, true)
			So(errors.ErrInvalidInput.Is(err), ShouldBeTrue)
		})

		Convey("When the arithmetic overflows", func() {
			_, err := ComputeDeadlines(pswap.UnixTime(math.MaxInt64-100), 60, true)
			So(errors.ErrOverflow.Is(err), ShouldBeTrue)

			_, err = ComputeDeadlines(start, math.MaxInt64, true)
			So(errors.ErrOverflow.Is(err), ShouldBeTrue)
		})
	})
}

func TestDeadlinesOrdering(t *testing.T) {
	starts := []pswap.UnixTime{0, 1, 1600000000, math.MaxInt64 / 4}
	deltas := []pswap.UnixDuration{1, 59, 3600, 86400 * 365}

	for _, start := range starts {
		for _, delta := range deltas {
			for _, first := range []bool{true, false} {
				d, err := ComputeDeadlines(start, delta, first)
				if err != nil {
					t.Fatalf("start %d, delta %d: %s", start, delta, err)
				}
				if !(d.Premium <= d.Asset && d.Asset <= d.Timeout) {
					t.Fatalf("start %d, delta %d: unordered %+v", start, delta, d)
				}
				if err := d.Validate(); err != nil {
					t.Fatalf("start %d, delta %d: %s", start, delta, err)
				}
			}
		}
	}
}

func TestDeadlinesValidate(t *testing.T) {
	cases := map[string]struct {
		d       Deadlines
		wantErr *errors.Error
	}{
		"ordered":                 {d: Deadlines{Premium: 1, Asset: 2, Timeout: 3}},
		"equal":                   {d: Deadlines{Premium: 2, Asset: 2, Timeout: 2}},
		"premium after asset":     {d: Deadlines{Premium: 3, Asset: 2, Timeout: 3}, wantErr: errors.ErrInvalidState},
		"asset after the timeout": {d: Deadlines{Premium: 1, Asset: 4, Timeout: 3}, wantErr: errors.ErrInvalidState},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.d.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("want %q, got %+v", tc.wantErr, err)
			}
		})
	}
}
