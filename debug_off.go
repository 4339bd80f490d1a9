//go:build !aflidebug

package afl

// debugf is a no-op in ordinary builds; the aflidebug build tag swaps in
// the logging variant in debug.go. Kept inlinable so it costs nothing on
// the fast path.
func debugf(format string, args ...any) {}
