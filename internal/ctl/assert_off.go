//go:build !debug

package ctl

// assertCount is a no-op in production.
// Enable with -tags debug for runtime checks.
func assertCount(string, int64, int64) {}
