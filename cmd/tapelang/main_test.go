package main

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

// TestMain lets the built test binary double as the tapelang executable
// under the name "tapelang" inside each script's PATH, the standard
// go-internal/testscript pattern for driving a CLI end-to-end without a
// separate go build step.
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"tapelang": run,
	}))
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
	})
}
