// SPDX-License-Identifier: EPL-2.0

// Command audmix routes the channels of audio files through a gain matrix.
//
// Usage:
//
//	audmix [flags] <command> [args]
//
// Commands:
//
//	mix      - mix a file through a crosspoint matrix and write WAV or AIFF
//	info     - print the format and channel peaks of a file
//	formats  - list the file extensions audmix can read
//
// Settings come from flags, AUDMIX_* environment variables or a YAML file
// passed with --config.
package main

import (
	"fmt"
	"os"

	"github.com/ik5/audmix/cmd/audmix/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
