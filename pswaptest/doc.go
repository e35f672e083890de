// Package pswaptest provides helpers for testing code that is using the
// swap engine: deterministic addresses and a clock that is moved by hand.
package pswaptest
