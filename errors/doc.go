/*
Package errors implements the error kinds shared by every pswap package.

The idea is to reuse as many errors from this package as possible and define
custom package errors only when absolutely necessary. The swap engine declares
its own kinds in x/pswap, everything that is storage or input related lives
here.

If you want to register a custom error, use Register(code, description).
For reusing errors, use Errxxx.New and Errxxx.Newf.
Code stands for the numeric error code, which allows to distinguish types of
errors on the client side (CLI exit status, HTTP API payload) and act
accordingly.

There is also support for stacktraces. Please ensure you create the custom
error using ErrXyz.New("...") or errors.Wrap(err, "...") at the point of
creation to ensure we attach a stacktrace. If you wrap multiple times, we only
record the first wrap with the stacktrace.

Once you have an error, you can use `fmt.Printf/Sprintf` to get more context
	%s is just the error message
	%+v is the message followed by the full stack trace
*/
package errors
