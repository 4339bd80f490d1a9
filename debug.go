//go:build aflidebug

package afl

import "log"

// debugf prints a trace line when the module is built with the aflidebug
// tag. It compiles to nothing (and costs nothing on the fast path) in
// ordinary builds; see debug_off.go.
func debugf(format string, args ...any) {
	log.Printf("afl: "+format, args...)
}
