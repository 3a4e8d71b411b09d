//go:build debug

package ctl

import "fmt"

// assertCount panics if a counter transition implies a reference was
// created from a dead handle. Only enabled with -tags debug.
func assertCount(method string, got, min int64) {
	if got < min {
		panic(fmt.Sprintf("%s: count %d < %d", method, got, min))
	}
}
