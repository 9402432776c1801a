// Daymark - a daily journal for fields, tasks, counters and timers.
package main

import (
	"os"

	"github.com/manav03panchal/daymark/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
