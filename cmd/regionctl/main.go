// Command regionctl retrieves region records from the command line using the
// same cache, generator, and validation as the HTTP service.
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
