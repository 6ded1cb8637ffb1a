// Package testing flips the application into test mode when imported from a
// test binary, so package main entry points skip runtime side effects.
package testing

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		_ = os.Setenv("STATIONHUB_TEST_MODE", "1")
	})
}
