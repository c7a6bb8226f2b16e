// Command vacciprofile serves and browses the vaccine catalogue.
package main

import (
	"os"
)

var exitFunc = os.Exit

func main() {
	if err := newRootCmd().Execute(); err != nil {
		exitFunc(1)
	}
}
