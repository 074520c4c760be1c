// Package testutil provides testing utilities for the tapedeck application.
package testutil

import (
	"testing"

	"go.uber.org/goleak"
)

// VerifyNoLeaks should be deferred at the start of tests that spawn goroutines.
// It verifies that no goroutines were leaked during the test.
func VerifyNoLeaks(t *testing.T, opts ...goleak.Option) {
	t.Helper()
	goleak.VerifyNone(t, opts...)
}

// IgnoreAudioGoroutines returns goleak options to ignore goroutines owned by the
// audio output layer. The oto context keeps a device feeder goroutine alive for
// the process lifetime, which is expected and not a leak.
func IgnoreAudioGoroutines() []goleak.Option {
	return []goleak.Option{
		goleak.IgnoreAnyFunction("github.com/ebitengine/oto/v3.(*context).loop"),
		goleak.IgnoreAnyFunction("github.com/ebitengine/oto/v3/internal/mux.(*Mux).loop"),
	}
}
