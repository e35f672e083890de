package pswaptest

import (
	"encoding/binary"
	"sync/atomic"
	"testing"

	"github.com/iov-one/pswap"
)

// ParseAddress takes an address in a human readable format and returns
// its binary representation. This function is a test helper that is using
// pswap.ParseAddress function functionality.
func ParseAddress(t testing.TB, encodedAddress string) pswap.Address {
	t.Helper()

	addr, err := pswap.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}

// NewCondition returns a condition that is unique for the test binary run.
func NewCondition() pswap.Condition {
	n := atomic.AddUint64(&conditionSeq, 1)
	seq := make([]byte, 8)
	binary.BigEndian.PutUint64(seq, n)
	return pswap.NewCondition("test", "seq", seq)
}

var conditionSeq uint64

// NewAddress returns an address that is unique for the test binary run.
func NewAddress() pswap.Address {
	return NewCondition().Address()
}

// NamedAddress returns an address derived from given name. The same name
// always results in the same address.
func NamedAddress(name string) pswap.Address {
	return pswap.NewCondition("test", "name", []byte(name)).Address()
}
