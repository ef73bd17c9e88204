// DroidLink - remote filesystem bridge for Android devices via adb.
//
// Browse device storage, pull and push files with progress reporting,
// manage remote directories, and pair devices over Wi-Fi. All device I/O
// goes through the adb client binary as line-oriented subprocess calls;
// nothing here speaks the adb wire protocol directly.
package main

import (
	"os"

	"github.com/droidlink/droidlink/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
