package main

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"launchpad": root,
	}))
}

// TestLaunchpad tests launchpad end-to-end using testscript.
// Check out the package from "import" to learn more.
func TestLaunchpad(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
	})
}
